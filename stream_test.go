package sarf

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// numberedLines yields "line-0" .. "line-(n-1)".
func numberedLines(n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < n; i++ {
			if !yield(fmt.Sprintf("line-%d", i)) {
				return
			}
		}
	}
}

// oneTriplePerChunk records every chunk it sees and emits a triple naming
// the chunk's first line.
func oneTriplePerChunk(chunks *[][]string) ProcessFunc {
	return func(chunk []string) []Triple {
		c := make([]string, len(chunk))
		copy(c, chunk)
		*chunks = append(*chunks, c)
		return []Triple{{Root: chunk[0]}}
	}
}

func TestStreamScanChunking(t *testing.T) {
	cfg := Config{
		ChunkSize:      1000,
		SaveInterval:   5000,
		CheckpointPath: filepath.Join(t.TempDir(), "cp"),
	}
	var chunks [][]string
	results, err := NewStreamScanner(cfg).Scan(numberedLines(12000), oneTriplePerChunk(&chunks))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 12 {
		t.Fatalf("process called %d times, want 12", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 1000 {
			t.Errorf("chunk %d has %d lines", i, len(c))
		}
		if want := fmt.Sprintf("line-%d", i*1000); c[0] != want {
			t.Errorf("chunk %d starts at %q, want %q", i, c[0], want)
		}
	}
	if len(results) != 12 {
		t.Errorf("got %d results", len(results))
	}

	// Clean completion deletes the artifact.
	if _, err := os.Stat(cfg.CheckpointPath); !os.IsNotExist(err) {
		t.Error("checkpoint survived a clean scan")
	}
}

func TestStreamScanPartialFinalChunk(t *testing.T) {
	cfg := Config{ChunkSize: 1000, SaveInterval: 5000, CheckpointPath: filepath.Join(t.TempDir(), "cp")}
	var chunks [][]string
	_, err := NewStreamScanner(cfg).Scan(numberedLines(2500), oneTriplePerChunk(&chunks))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("process called %d times, want 3", len(chunks))
	}
	if len(chunks[2]) != 500 {
		t.Errorf("final chunk has %d lines, want 500", len(chunks[2]))
	}
}

func TestStreamScanCheckpointCadence(t *testing.T) {
	// The artifact written mid-scan must count only fully processed
	// lines: after the fifth chunk it says 5000, after the tenth 10000.
	cfg := Config{ChunkSize: 1000, SaveInterval: 5000, CheckpointPath: filepath.Join(t.TempDir(), "cp")}

	call := 0
	process := func(chunk []string) []Triple {
		call++
		switch call {
		case 6:
			cp, err := loadCheckpoint(cfg.CheckpointPath)
			if err != nil || cp == nil {
				t.Fatalf("no checkpoint during chunk 6: %v", err)
			}
			if cp.Lines != 5000 {
				t.Errorf("checkpoint lines = %d, want 5000", cp.Lines)
			}
			if len(cp.Results) != 5 {
				t.Errorf("checkpoint results = %d, want 5", len(cp.Results))
			}
		case 11:
			cp, err := loadCheckpoint(cfg.CheckpointPath)
			if err != nil || cp == nil {
				t.Fatalf("no checkpoint during chunk 11: %v", err)
			}
			if cp.Lines != 10000 {
				t.Errorf("checkpoint lines = %d, want 10000", cp.Lines)
			}
		}
		return []Triple{{Root: chunk[0]}}
	}

	if _, err := NewStreamScanner(cfg).Scan(numberedLines(12000), process); err != nil {
		t.Fatal(err)
	}
}

func TestStreamScanResumeAfterKill(t *testing.T) {
	cfg := Config{ChunkSize: 1000, SaveInterval: 5000, CheckpointPath: filepath.Join(t.TempDir(), "cp")}

	// First run dies in the eighth chunk, after the 5000-line checkpoint.
	call := 0
	dying := func(chunk []string) []Triple {
		call++
		if call == 8 {
			panic("killed")
		}
		return []Triple{{Root: chunk[0]}}
	}
	func() {
		defer func() { _ = recover() }()
		NewStreamScanner(cfg).Scan(numberedLines(12000), dying)
	}()

	cp, err := loadCheckpoint(cfg.CheckpointPath)
	if err != nil || cp == nil {
		t.Fatalf("no checkpoint after kill: %v", err)
	}
	if cp.Lines != 5000 {
		t.Fatalf("checkpoint lines = %d, want 5000", cp.Lines)
	}

	// Second run resumes: the first chunk it processes starts at line
	// 5000, and the adopted results are kept in front.
	var chunks [][]string
	results, err := NewStreamScanner(cfg).Scan(numberedLines(12000), oneTriplePerChunk(&chunks))
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 7 {
		t.Fatalf("resumed run processed %d chunks, want 7", len(chunks))
	}
	if chunks[0][0] != "line-5000" {
		t.Errorf("resume started at %q, want line-5000", chunks[0][0])
	}
	if len(results) != 12 {
		t.Errorf("got %d results, want 12", len(results))
	}
	if results[0].Root != "line-0" {
		t.Errorf("adopted results not in front: %v", results[0])
	}
	if _, err := os.Stat(cfg.CheckpointPath); !os.IsNotExist(err) {
		t.Error("checkpoint survived completion")
	}
}

func TestStreamScanResumeRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp")
	seed := &Checkpoint{Lines: 2000, Timestamp: now(), Results: []Triple{{Root: "stale"}}}
	if err := saveCheckpoint(path, seed, AlgXXHash3); err != nil {
		t.Fatal(err)
	}

	asked := false
	cfg := Config{
		ChunkSize:      1000,
		SaveInterval:   5000,
		CheckpointPath: path,
		Resume: func(cp *Checkpoint) bool {
			asked = true
			if cp.Lines != 2000 {
				t.Errorf("callback saw %d lines", cp.Lines)
			}
			return false
		},
	}
	var chunks [][]string
	results, err := NewStreamScanner(cfg).Scan(numberedLines(3000), oneTriplePerChunk(&chunks))
	if err != nil {
		t.Fatal(err)
	}
	if !asked {
		t.Error("resume callback never consulted")
	}
	// Rejected: scan starts from zero and stale results are dropped.
	if chunks[0][0] != "line-0" {
		t.Errorf("scan started at %q", chunks[0][0])
	}
	for _, r := range results {
		if r.Root == "stale" {
			t.Error("stale results adopted after rejection")
		}
	}
}

func TestStreamScanCorruptCheckpointIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{ChunkSize: 1000, SaveInterval: 5000, CheckpointPath: path}
	var chunks [][]string
	_, err := NewStreamScanner(cfg).Scan(numberedLines(1000), oneTriplePerChunk(&chunks))
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0][0] != "line-0" {
		t.Errorf("corrupt checkpoint was not treated as absent: started at %q", chunks[0][0])
	}
}

func TestLines(t *testing.T) {
	var got []string
	for line := range Lines(strings.NewReader("واحد\nاثنان\nثلاثة\n")) {
		got = append(got, line)
	}
	if len(got) != 3 || got[0] != "واحد" || got[2] != "ثلاثة" {
		t.Errorf("got %q", got)
	}
}
