// Checkpointed sequential scanning for one huge file.
//
// The streaming mode is strictly sequential: lines arrive from an
// external reader as a plain sequence, accumulate into fixed-size chunks
// handed to the processing function, and every SaveInterval fully
// processed lines the partial results are checkpointed. A scan killed
// mid-file resumes from the last checkpoint, reprocessing at most the
// lines since it — never skipping any, because the checkpoint counts only
// lines whose chunk completed. On clean completion the artifact is
// deleted.
//
// This mode and the parallel Coordinator serve different problems (one
// huge file vs. many independent template jobs) and are never combined
// in a single scan.
package sarf

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// ProcessFunc consumes one chunk of lines and returns the triples found
// in it. It must be a pure function of the chunk: the streaming scanner
// may replay lines after a resume.
type ProcessFunc func(chunk []string) []Triple

// StreamScanner runs checkpointed scans. Construct with NewStreamScanner;
// one scanner per scan.
type StreamScanner struct {
	cfg Config
}

// NewStreamScanner returns a scanner with defaults applied to cfg.
func NewStreamScanner(cfg Config) *StreamScanner {
	return &StreamScanner{cfg: cfg.withDefaults()}
}

// Scan processes lines in chunks of Config.ChunkSize, checkpointing every
// Config.SaveInterval processed lines and deleting the checkpoint on
// completion.
//
// If a prior checkpoint exists and Config.Resume accepts it (nil Resume
// accepts), the saved results are adopted and exactly Checkpoint.Lines
// leading lines are skipped. An unreadable or damaged checkpoint is
// treated as absent and the scan starts from zero.
func (s *StreamScanner) Scan(lines iter.Seq[string], process ProcessFunc) ([]Triple, error) {
	skip := 0
	var results []Triple

	if cp, err := loadCheckpoint(s.cfg.CheckpointPath); err == nil && cp != nil {
		if s.cfg.Resume == nil || s.cfg.Resume(cp) {
			skip = cp.Lines
			results = cp.Results
		}
	}

	var chunk []string
	seen := 0         // Lines consumed from the sequence
	processed := skip // Lines whose chunk has completed
	lastSave := skip

	for line := range lines {
		if seen < skip {
			seen++
			continue
		}
		seen++
		chunk = append(chunk, line)

		if len(chunk) < s.cfg.ChunkSize {
			continue
		}
		results = append(results, process(chunk)...)
		processed += len(chunk)
		chunk = chunk[:0]

		if processed-lastSave >= s.cfg.SaveInterval {
			cp := &Checkpoint{Lines: processed, Timestamp: now(), Results: results}
			if err := saveCheckpoint(s.cfg.CheckpointPath, cp, s.cfg.HashAlgorithm); err != nil {
				return results, fmt.Errorf("checkpoint save: %w", err)
			}
			lastSave = processed
		}
	}

	if len(chunk) > 0 {
		results = append(results, process(chunk)...)
	}

	if err := removeCheckpoint(s.cfg.CheckpointPath); err != nil {
		return results, err
	}
	return results, nil
}

// Lines adapts a reader into the line sequence Scan consumes. Reading
// the underlying source is the caller's responsibility; a read error
// simply ends the sequence.
func Lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}
}
