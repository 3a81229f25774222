package sarf

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
)

func checkpointPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scan.checkpoint")
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := checkpointPath(t)
	cp := &Checkpoint{
		Lines:     5000,
		Timestamp: now(),
		Results: []Triple{
			{Template: "فَعَلَ", Root: "كَتَبَ"},
			{Template: "فَعَلَ", Prefix: "و", Root: "دَرَسَ", Suffix: "ها"},
		},
	}
	if err := saveCheckpoint(path, cp, AlgXXHash3); err != nil {
		t.Fatal(err)
	}

	got, err := loadCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lines != cp.Lines {
		t.Errorf("lines = %d, want %d", got.Lines, cp.Lines)
	}
	if got.Timestamp != cp.Timestamp {
		t.Errorf("timestamp = %d, want %d", got.Timestamp, cp.Timestamp)
	}
	if !reflect.DeepEqual(got.Results, cp.Results) {
		t.Errorf("results = %v, want %v", got.Results, cp.Results)
	}
}

func TestCheckpointAlgorithmTravelsInEnvelope(t *testing.T) {
	// Written under Blake2b, loaded by a reader that knows nothing about
	// the writer's configuration.
	path := checkpointPath(t)
	cp := &Checkpoint{Lines: 10, Results: []Triple{{Root: "كتب"}}}
	if err := saveCheckpoint(path, cp, AlgBlake2b); err != nil {
		t.Fatal(err)
	}
	got, err := loadCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lines != 10 {
		t.Errorf("lines = %d", got.Lines)
	}
}

func TestCheckpointMissing(t *testing.T) {
	cp, err := loadCheckpoint(filepath.Join(t.TempDir(), "absent"))
	if err != nil || cp != nil {
		t.Errorf("missing file: got (%v, %v), want (nil, nil)", cp, err)
	}
}

func TestCheckpointCorruption(t *testing.T) {
	tests := []struct {
		name  string
		write func(t *testing.T, path string)
	}{
		{
			name: "garbage bytes",
			write: func(t *testing.T, path string) {
				os.WriteFile(path, []byte("not a checkpoint"), 0o644)
			},
		},
		{
			name: "unknown version",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(env *envelope) { env.Version = 99 })
			},
		},
		{
			name: "checksum mismatch",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(env *envelope) { env.Data = "x" + env.Data })
			},
		},
		{
			name: "valid sum over broken armor",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(env *envelope) {
					env.Data = "\x01 bad 85"
					env.Sum = digest([]byte(env.Data), env.Algorithm)
				})
			},
		},
		{
			name: "valid sum over non-json payload",
			write: func(t *testing.T, path string) {
				writeEnvelope(t, path, func(env *envelope) {
					env.Data = armor([]byte("{{{"))
					env.Sum = digest([]byte(env.Data), env.Algorithm)
				})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := checkpointPath(t)
			tt.write(t, path)
			_, err := loadCheckpoint(path)
			if !errors.Is(err, ErrCorruptCheckpoint) {
				t.Errorf("got %v, want ErrCorruptCheckpoint", err)
			}
		})
	}
}

// writeEnvelope saves a valid checkpoint, rewrites its envelope through
// mutate, and writes the damaged form back.
func writeEnvelope(t *testing.T, path string, mutate func(*envelope)) {
	t.Helper()
	cp := &Checkpoint{Lines: 7, Results: []Triple{{Root: "كتب"}}}
	if err := saveCheckpoint(path, cp, AlgXXHash3); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	mutate(&env)
	out, err := json.Marshal(&env)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveCheckpoint(t *testing.T) {
	path := checkpointPath(t)
	if err := saveCheckpoint(path, &Checkpoint{Lines: 1}, AlgXXHash3); err != nil {
		t.Fatal(err)
	}
	if err := removeCheckpoint(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("checkpoint still present")
	}
	// Removing again is not an error.
	if err := removeCheckpoint(path); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestCheckpointNoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.checkpoint")
	if err := saveCheckpoint(path, &Checkpoint{Lines: 3}, AlgXXHash3); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "scan.checkpoint" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}
