// Parallel template scanning: one job per catalog entry, fanned out over
// a worker pool, merged on the orchestrating side.
//
// Jobs are share-nothing by construction. A Job is an immutable value, a
// JobResult is a value, and every helper (matcher, normalisation) is
// built fresh inside the worker. Workers run with validation and caching
// deliberately disabled: the validator log, the cache, and the store are
// orchestrator state, touched only after all worker results are merged,
// so writes are serialised without a single lock.
//
// Two aggregation modes, observably different to consumers:
//
//   - Run merges in job-submission order — deterministic batch mode.
//   - RunEach additionally delivers each result as it completes, in
//     completion order — the interactive mode.
//
// Cancellation is cooperative in both: cancelling the context stops
// dispatch, so never-started jobs are dropped; jobs already running
// finish and their results are kept. Per-template and per-file failures
// are isolated into the run report and never abort the batch.
package sarf

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Corpus supplies the file set and per-file line access. Implementations
// must be safe for concurrent use — every worker reads through the same
// instance.
type Corpus interface {
	Files() []string
	Lines(name string) ([]string, error)
}

// Store is the persisted pattern/root/result store, written only by the
// orchestrator after merge. Its read half also feeds the scorer's
// frequency term.
type Store interface {
	InsertPattern(template string, class Class, augments int) error
	InsertResult(word, root, template, prefix, suffix, intermediate string, score float64) error
	PatternFrequency(template string) (int64, bool)
}

// Cache is a key-value result cache keyed on Matcher-style digests. Like
// the Store it is orchestrator state: consulted before dispatch, written
// after merge, never touched by a worker.
type Cache interface {
	Get(key string) ([]Triple, bool)
	Set(key string, triples []Triple)
}

// Job is one unit of parallel work: a head template with its derived
// sub-templates, scanned over the entire file set under one option set.
type Job struct {
	Template Template
	Options  Options
}

// DerivedResult is the per-sub-template breakdown of a job.
type DerivedResult struct {
	Template string
	Triples  []Triple
}

// JobResult is the value a worker returns.
type JobResult struct {
	Template Template
	Triples  []Triple        // Head template matches, corpus order
	Derived  []DerivedResult // Sub-template breakdown, catalog order
	Failures []Failure
}

// Failure records one isolated per-template or per-file error.
type Failure struct {
	Template string
	File     string
	Err      error
}

// RunReport is the merged outcome of a parallel run.
type RunReport struct {
	Results   []JobResult
	Failures  []Failure
	Cancelled bool
}

// Coordinator fans jobs out over a worker pool and owns the
// orchestrator-side collaborators. Validator, Cache, and Store are all
// optional; a Coordinator with none of them simply merges raw scans.
type Coordinator struct {
	Validator *Validator
	Cache     Cache
	Store     Store

	corpus Corpus
	cfg    Config
}

// NewCoordinator returns a Coordinator reading from corpus, with
// defaults applied to cfg.
func NewCoordinator(corpus Corpus, cfg Config) *Coordinator {
	return &Coordinator{corpus: corpus, cfg: cfg.withDefaults()}
}

// Run executes jobs over the worker pool and merges results in
// job-submission order, making batch output deterministic for a fixed
// corpus and catalog. After the merge the orchestrator caches fresh
// scans, gates every triple through the validator, and persists to the
// store, in that order, under the options and collaborators configured
// on the Coordinator.
//
// Cancelling ctx stops dispatch: pending jobs are dropped, running jobs
// finish, completed results are merged and reported with Cancelled set.
func (c *Coordinator) Run(ctx context.Context, jobs []Job) *RunReport {
	return c.run(ctx, jobs, nil)
}

// RunEach is Run with completion-order delivery: fn is called from the
// collecting goroutine as each job finishes, before the merged report is
// finalised. The report itself still lists results in submission order.
func (c *Coordinator) RunEach(ctx context.Context, jobs []Job, fn func(JobResult)) *RunReport {
	return c.run(ctx, jobs, fn)
}

func (c *Coordinator) run(ctx context.Context, jobs []Job, each func(JobResult)) *RunReport {
	files := c.corpus.Files()
	results := make([]*JobResult, len(jobs))

	// Cache consultation happens here, on the orchestrator side, so
	// hits never dispatch at all.
	var pending []int
	fresh := make([]bool, len(jobs))
	for i, job := range jobs {
		if res, ok := c.fromCache(job, files); ok {
			results[i] = &res
			if each != nil {
				each(res)
			}
			continue
		}
		pending = append(pending, i)
		fresh[i] = true
	}

	type outcome struct {
		i   int
		res JobResult
	}
	dispatch := make(chan int)
	collect := make(chan outcome)

	var wg sync.WaitGroup
	wg.Add(c.cfg.Workers)
	for w := 0; w < c.cfg.Workers; w++ {
		go func() {
			defer wg.Done()
			for i := range dispatch {
				collect <- outcome{i, c.runJob(jobs[i], files)}
			}
		}()
	}

	go func() {
		defer close(dispatch)
		for _, i := range pending {
			select {
			case <-ctx.Done():
				return
			case dispatch <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(collect)
	}()

	for oc := range collect {
		res := oc.res
		results[oc.i] = &res
		if each != nil {
			each(res)
		}
	}

	report := &RunReport{Cancelled: ctx.Err() != nil}
	for i, res := range results {
		if res == nil {
			continue // never started
		}
		// Only complete scans are cacheable: a job that recorded a
		// compile or read failure produced partial results.
		if c.Cache != nil && fresh[i] && len(res.Failures) == 0 {
			c.toCache(jobs[i].Options, *res, files)
		}
		report.Results = append(report.Results, *res)
		report.Failures = append(report.Failures, res.Failures...)
	}

	c.validateMerged(report)
	c.persist(report)
	return report
}

// runJob executes one job: reads and normalises the corpus, compiles the
// head and every derived template, and scans without a validator. Runs
// on a worker goroutine and touches no Coordinator state beyond the
// concurrent-safe Corpus.
func (c *Coordinator) runJob(job Job, files []string) JobResult {
	res := JobResult{Template: job.Template}

	corpus := make([][]string, 0, len(files))
	for _, f := range files {
		lines, err := c.corpus.Lines(f)
		if err != nil {
			res.Failures = append(res.Failures, Failure{
				Template: job.Template.Text,
				File:     f,
				Err:      fmt.Errorf("%w: %v", ErrCorpusRead, err),
			})
			continue
		}
		norm := make([]string, len(lines))
		for i, l := range lines {
			norm[i] = NormalizeOrthography(l)
		}
		corpus = append(corpus, norm)
	}

	scan := func(tpl string) ([]Triple, bool) {
		m, err := Compile(tpl, job.Options)
		if err != nil {
			res.Failures = append(res.Failures, Failure{Template: tpl, Err: err})
			return nil, false
		}
		var out []Triple
		for _, lines := range corpus {
			out = append(out, Scan(m, lines, nil)...)
		}
		return out, true
	}

	if triples, ok := scan(job.Template.Text); ok {
		res.Triples = triples
	}
	for _, d := range job.Template.Derived {
		if triples, ok := scan(d); ok {
			res.Derived = append(res.Derived, DerivedResult{Template: d, Triples: triples})
		}
	}
	return res
}

// validateMerged gates every merged triple through the validator,
// keeping only accepted ones. Worker scans were validator-free, so this
// is the single place verdicts are issued and logged.
func (c *Coordinator) validateMerged(report *RunReport) {
	if c.Validator == nil {
		return
	}
	// Filter into a fresh slice: a result may share its backing array
	// with a cache entry.
	gate := func(tpl string, triples []Triple) []Triple {
		kept := make([]Triple, 0, len(triples))
		for _, t := range triples {
			verdict := c.Validator.Validate(t.Word(), t.Root, tpl, t.Prefix, t.Suffix)
			if verdict.Accepted {
				kept = append(kept, t)
			}
		}
		return kept
	}
	for i := range report.Results {
		res := &report.Results[i]
		res.Triples = gate(res.Template.Text, res.Triples)
		for j := range res.Derived {
			res.Derived[j].Triples = gate(res.Derived[j].Template, res.Derived[j].Triples)
		}
	}
}

// persist writes merged results to the store: the pattern row first,
// then one result row per head triple with its aligned decomposition and
// score. Store errors are isolated into the report like any other
// per-template failure.
func (c *Coordinator) persist(report *RunReport) {
	if c.Store == nil {
		return
	}
	scorer := Scorer{Freq: c.Store}

	for _, res := range report.Results {
		tpl := res.Template
		if err := c.Store.InsertPattern(tpl.Text, tpl.Class, tpl.Augments()); err != nil {
			report.Failures = append(report.Failures, Failure{Template: tpl.Text, Err: err})
			continue
		}
		for _, t := range res.Triples {
			d := Align(tpl.Text, t.Root)
			score := scorer.Score(tpl.Text, t.Word(), t.Prefix, t.Suffix, 1)
			err := c.Store.InsertResult(t.Word(), StripDiacritics(d.Root), tpl.Text,
				t.Prefix, t.Suffix, d.Intermediate, score)
			if err != nil {
				report.Failures = append(report.Failures, Failure{Template: tpl.Text, Err: err})
			}
		}
	}
}

// fromCache reconstructs a full JobResult when the head template and
// every derived template hit the cache; a single miss reruns the job.
func (c *Coordinator) fromCache(job Job, files []string) (JobResult, bool) {
	if c.Cache == nil {
		return JobResult{}, false
	}
	head, ok := c.Cache.Get(c.cacheKey(job.Template.Text, job.Options, files))
	if !ok {
		return JobResult{}, false
	}
	res := JobResult{Template: job.Template, Triples: head}
	for _, d := range job.Template.Derived {
		triples, ok := c.Cache.Get(c.cacheKey(d, job.Options, files))
		if !ok {
			return JobResult{}, false
		}
		res.Derived = append(res.Derived, DerivedResult{Template: d, Triples: triples})
	}
	return res, true
}

// toCache stores a fresh job's raw scans. Cached values are always
// pre-validation: the cache key covers only the compile inputs and file
// set, so entries must not depend on orchestrator-side gating.
func (c *Coordinator) toCache(opts Options, res JobResult, files []string) {
	c.Cache.Set(c.cacheKey(res.Template.Text, opts, files), res.Triples)
	for _, d := range res.Derived {
		c.Cache.Set(c.cacheKey(d.Template, opts, files), d.Triples)
	}
}

// cacheKey digests the compile inputs plus the file set — the exact
// inputs a scan is a pure function of.
func (c *Coordinator) cacheKey(tpl string, opts Options, files []string) string {
	seed := keySeed(tpl, opts) + "\x00" + strings.Join(files, "\x01")
	return digest([]byte(seed), c.cfg.HashAlgorithm)
}
