// The checkpoint artifact for interrupted single-file scans.
//
// One JSON object per active scan: a small envelope carrying the count of
// fully processed lines, a timestamp, and the accumulated results as a
// Zstd-compressed, Ascii85-armored blob — compressed because a long scan
// accumulates many triples, armored so the blob embeds in a JSON string
// without escaping. A digest of the armored blob guards the payload; the
// algorithm identifier travels in the envelope so a checkpoint written
// under one Config.HashAlgorithm still verifies under another.
//
// Corruption is never fatal. Any failure to read, parse, verify, or
// decode reports ErrCorruptCheckpoint, and every caller treats that the
// same as no checkpoint at all.
package sarf

import (
	"bytes"
	"encoding/ascii85"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder — both are documented as safe for concurrent
// use, and construction is expensive enough to do exactly once.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Checkpoint is the resume state of a single-file streaming scan. Lines
// counts only fully processed input: every accumulated result came from a
// line below Lines, and no line below Lines is missing from Results.
type Checkpoint struct {
	Lines     int      // Fully processed line count
	Timestamp int64    // Unix milliseconds when written
	Results   []Triple // Accumulated partial results
}

// envelope is the on-disk form.
type envelope struct {
	Version   int    `json:"_v"`
	Timestamp int64  `json:"_ts"`
	Lines     int    `json:"_lines"`
	Algorithm int    `json:"_alg"`
	Sum       string `json:"_sum"`
	Data      string `json:"_data"`
}

// saveCheckpoint writes cp to path, replacing any prior checkpoint. The
// write goes through a temp file and rename so a crash mid-write leaves
// the previous checkpoint intact rather than a half-written one.
func saveCheckpoint(path string, cp *Checkpoint, alg int) error {
	payload, err := json.Marshal(cp.Results)
	if err != nil {
		return err
	}
	armored := armor(payload)

	env := envelope{
		Version:   1,
		Timestamp: cp.Timestamp,
		Lines:     cp.Lines,
		Algorithm: alg,
		Sum:       digest([]byte(armored), alg),
		Data:      armored,
	}
	data, err := json.Marshal(&env)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// loadCheckpoint reads and verifies the checkpoint at path. A missing
// file returns (nil, nil); anything structurally wrong returns an error
// wrapping ErrCorruptCheckpoint.
func loadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}

	var env envelope
	if err := json.Unmarshal(bytes.TrimSpace(data), &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %v", ErrCorruptCheckpoint, err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptCheckpoint, env.Version)
	}
	if digest([]byte(env.Data), env.Algorithm) != env.Sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptCheckpoint)
	}

	payload, err := unarmor(env.Data)
	if err != nil {
		return nil, err
	}
	var results []Triple
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrCorruptCheckpoint, err)
	}

	return &Checkpoint{Lines: env.Lines, Timestamp: env.Timestamp, Results: results}, nil
}

// removeCheckpoint deletes the artifact after a clean scan. A missing
// file is fine.
func removeCheckpoint(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func armor(data []byte) string {
	compressed := zstdEncoder.EncodeAll(data, nil)

	var encoded bytes.Buffer
	enc := ascii85.NewEncoder(&encoded)
	// bytes.Buffer.Write never errors; enc.Close flushes trailing padding.
	_, _ = enc.Write(compressed)
	_ = enc.Close()

	return encoded.String()
}

func unarmor(encoded string) ([]byte, error) {
	dec := ascii85.NewDecoder(bytes.NewReader([]byte(encoded)))
	compressed, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: ascii85: %v", ErrCorruptCheckpoint, err)
	}

	out, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCorruptCheckpoint, err)
	}
	return out, nil
}

func now() int64 { return time.Now().UnixMilli() }
