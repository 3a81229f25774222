// Package sarf decomposes Arabic words against a catalog of morphological
// templates — skeleton strings whose marker letters ف ع ل stand for root
// letter slots. A template plus an affix and symbol configuration compiles
// into a reusable matcher; each match yields a prefix/root/suffix triple
// which letter-unit alignment refines into a full decomposition, a
// reconstruction validator can accept or reject, and a multi-factor scorer
// ranks against competing templates.
//
// Every matching, alignment, and scoring function is a pure function of its
// inputs. That property is load-bearing: the batch layer fans template scans
// out across workers that share nothing, and external caches may key on the
// compile inputs alone. Two execution models are provided — a checkpointed
// sequential scan for one huge file, and a parallel coordinator running one
// job per template over the whole file set.
//
// Persistent storage, result caching, and corpus file access are external
// collaborators expressed as interfaces (Store, Cache, Corpus); the package
// never opens a corpus file itself.
package sarf

import "errors"

// Sentinel errors for programmatic handling. Callers use errors.Is to
// distinguish a template that failed to compile (skip the job, keep the
// run) from an unreadable corpus file (skip the file) and from a damaged
// checkpoint (restart the scan from zero). An alignment mismatch is not an
// error at all — Align returns its documented sentinel value instead.
var (
	ErrCompile           = errors.New("template failed to compile")
	ErrCorpusRead        = errors.New("corpus file unreadable")
	ErrCorruptCheckpoint = errors.New("corrupt checkpoint")
)
