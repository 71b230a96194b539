package crack

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"

	"forgecrack/internal/descriptor"
	"forgecrack/internal/ports"
	"forgecrack/internal/verify"
)

// probeInterval is how often (in verified candidates) a worker checks
// the cancellation flag and reports progress, per spec §4.10 step 5.
const probeInterval = 50

// BruteForceConfig enables and parameterizes the random-enumeration
// tail of a job (spec §4.10 step 4).
type BruteForceConfig struct {
	Enabled bool
	Charset []rune
	MinLen  int
	MaxLen  int
}

// Config describes one cracking job: the format descriptor to attack,
// how many workers to run, and which candidate sources feed it.
type Config struct {
	Descriptor descriptor.Descriptor
	ObjectID   ports.FileID
	Workers    int
	BruteForce BruteForceConfig
	Sources    CandidateSources
}

// Outcome is the terminal state of a job.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeCancelled
)

// Result is the final, published outcome of a job.
type Result struct {
	Outcome  Outcome
	Password string
}

// Job coordinates one cracking run. The mutable state shared between
// workers is `found` (atomic write-once, first-CAS-wins) with the
// `result` it guards, `cancelled` (atomic bool), and the `attempts`
// counter.
type Job struct {
	cfg      Config
	verifier verify.Verifier
	progress ports.Progress

	cancelled atomic.Bool
	found     atomic.Bool
	result    atomic.Value // string, written at most once (guarded by found's CAS)

	attempts atomic.Uint64
}

// NewJob constructs a Job for the given descriptor, dispatching to the
// matching Verifier via verify.New.
func NewJob(cfg Config, progress ports.Progress) (*Job, error) {
	v, err := verify.New(cfg.Descriptor)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if progress == nil {
		progress = ports.NullProgress{}
	}
	return &Job{cfg: cfg, verifier: v, progress: progress}, nil
}

// Cancel requests cooperative shutdown; workers observe this at their
// next probe (spec §5 "Cancellation semantics").
func (j *Job) Cancel() { j.cancelled.Store(true) }

// Attempts returns the total number of candidates verified so far,
// across every worker.
func (j *Job) Attempts() uint64 { return j.attempts.Load() }

// Run partitions candidates and the brute-force index range across
// cfg.Workers goroutines and blocks until every worker returns.
//
// Ordering guarantee: the winning worker's CompareAndSwap on `found`
// succeeds for exactly one worker, which then stores the password and
// sets `cancelled`. Other workers only use found=true as a signal to
// stop; the password is read back after every worker has returned, so
// the read always sees the stored result (spec §5 "Ordering guarantees").
func (j *Job) Run(ctx context.Context, candidates []string) Result {
	j.progress.Start("cracking")
	j.progress.OnCancel(j.Cancel)

	partitions := Partition(candidates, j.cfg.Workers)

	var ranges []IndexRange
	var enumerator *Enumerator
	if j.cfg.BruteForce.Enabled {
		enumerator = NewEnumerator(j.cfg.BruteForce.Charset, j.cfg.BruteForce.MinLen, j.cfg.BruteForce.MaxLen)
		ranges = enumerator.Range(j.cfg.Workers)
		_, bruteTotal := enumerator.Bounds()
		if bruteTotal.IsUint64() {
			j.progress.Determinate(uint64(len(candidates)) + bruteTotal.Uint64())
		} else {
			j.progress.Indeterminate("brute-force")
		}
	} else {
		j.progress.Determinate(uint64(len(candidates)))
	}

	var wg sync.WaitGroup
	for id := 0; id < j.cfg.Workers; id++ {
		wg.Add(1)
		var rng IndexRange
		if id < len(ranges) {
			rng = ranges[id]
		}
		go func(list []string, rng IndexRange) {
			defer wg.Done()
			j.runWorker(ctx, list, enumerator, rng)
		}(partitions[id], rng)
	}
	wg.Wait()

	j.progress.Finish()

	if j.found.Load() {
		pw, _ := j.result.Load().(string)
		return Result{Outcome: OutcomeFound, Password: pw}
	}
	if j.cancelled.Load() {
		return Result{Outcome: OutcomeCancelled}
	}
	return Result{Outcome: OutcomeNotFound}
}

// runWorker verifies its list candidates in order, then (if a brute-
// force range was assigned) walks its index range via the enumerator.
func (j *Job) runWorker(ctx context.Context, list []string, enumerator *Enumerator, rng IndexRange) {
	n := 0
	shouldStop := func() bool {
		n++
		if n%probeInterval != 0 {
			return false
		}
		j.progress.Advance(probeInterval, "")
		return j.cancelled.Load() || ctx.Err() != nil
	}

	for _, candidate := range list {
		if j.found.Load() {
			return
		}
		if j.tryCandidate(candidate) {
			return
		}
		if shouldStop() {
			return
		}
	}

	if enumerator == nil || rng.Start == nil || rng.End == nil {
		return
	}
	i := new(big.Int).Set(rng.Start)
	one := big.NewInt(1)
	for i.Cmp(rng.End) < 0 {
		if j.found.Load() {
			return
		}
		if j.tryCandidate(enumerator.IndexToPassword(i)) {
			return
		}
		if shouldStop() {
			return
		}
		i.Add(i, one)
	}
}

// tryCandidate verifies one candidate and, on a confirmed positive,
// attempts to win the found CAS. Returns true when this worker must
// stop: the job is settled (this worker found it, or another worker
// already did), or the verifier returned a *verify.CryptoError, which
// halts this worker while the others continue.
func (j *Job) tryCandidate(candidate string) bool {
	j.attempts.Add(1)
	ok, err := j.verifier.Verify(candidate)
	if err != nil {
		var cerr *verify.CryptoError
		return errors.As(err, &cerr)
	}
	if !ok {
		return false
	}
	if j.found.CompareAndSwap(false, true) {
		j.result.Store(candidate)
		j.cancelled.Store(true)
	}
	return true
}
