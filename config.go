// Runtime configuration shared by the streaming and parallel scan modes.
//
// The zero value is usable everywhere: constructors fill in defaults, so
// Config{} gives the stock settings (1000-line chunks, checkpoint every
// 5000 lines, one worker per CPU).
package sarf

import "runtime"

// CorpusType selects the boundary policy a compiled matcher applies.
type CorpusType int

const (
	// CorpusList treats each line as one entry; whole-word matching
	// anchors to line start and end.
	CorpusList CorpusType = iota
	// CorpusText treats lines as free-flowing prose; whole-word matching
	// requires whitespace or punctuation around the match.
	CorpusText
)

// Class is the morphological classification of a template, supplied
// explicitly by the caller alongside its catalog.
type Class int

const (
	ClassUnspecified Class = iota
	ClassNoun
	ClassVerb
)

func (c Class) String() string {
	switch c {
	case ClassNoun:
		return "اسم"
	case ClassVerb:
		return "فعل"
	default:
		return "غير محدد"
	}
}

// Config holds scan configuration options.
type Config struct {
	ChunkSize      int                    // Lines handed to the process function at once (default 1000)
	SaveInterval   int                    // Lines between checkpoint writes (default 5000)
	Workers        int                    // Parallel scan workers (default NumCPU)
	HashAlgorithm  int                    // 1=xxHash3, 2=FNV1a, 3=Blake2b
	CheckpointPath string                 // Checkpoint artifact location (default "scan.checkpoint")
	Resume         func(*Checkpoint) bool // Consulted when a prior checkpoint exists; nil accepts
}

// withDefaults fills in the zero fields. Every constructor calls this, so
// a Config literal only needs the fields it cares about.
func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.SaveInterval == 0 {
		c.SaveInterval = 5000
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.HashAlgorithm == 0 {
		c.HashAlgorithm = AlgXXHash3
	}
	if c.CheckpointPath == "" {
		c.CheckpointPath = "scan.checkpoint"
	}
	return c
}
