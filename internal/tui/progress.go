package tui

import (
	"sync"
	"sync/atomic"
	"time"

	"forgecrack/internal/ports"
)

// Stats is one throughput sample, fed to the running bubbletea program
// over a channel the same way the original zip-only TUI fed per-thread
// samples — collapsed here to a single total, since every worker's
// Advance calls are summed into one BubbleProgress counter rather than
// a per-worker breakdown (spec §5's concurrency model has no per-worker
// observable state).
type Stats struct {
	Total     uint64
	Timestamp time.Time
}

// BubbleProgress adapts a ports.Progress consumer to a bubbletea
// program: Job calls its methods synchronously from worker goroutines,
// and the TUI model drains StatsCh() on its own schedule. Sends never
// block the calling worker (spec: progress reporting must not slow the
// search), so samples are dropped rather than queued when the UI is
// slow to read.
type BubbleProgress struct {
	statsCh  chan Stats
	label    atomic.Value // string
	attempts atomic.Uint64
	expected atomic.Uint64
	indet    atomic.Bool
	cancel   atomic.Value // func()
	once     sync.Once
}

// NewBubbleProgress constructs a BubbleProgress ready to hand to a Job.
func NewBubbleProgress() *BubbleProgress {
	return &BubbleProgress{statsCh: make(chan Stats, 16)}
}

func (p *BubbleProgress) Start(label string) { p.label.Store(label) }

// Determinate records the expected total attempt count (e.g. the sum
// of candidate-list length and brute-force combination count) so the
// view can render a percentage and ETA.
func (p *BubbleProgress) Determinate(total uint64) {
	p.expected.Store(total)
	p.indet.Store(false)
}

func (p *BubbleProgress) Indeterminate(label string) {
	p.indet.Store(true)
	p.label.Store(label)
}

// Expected returns the last Determinate total, and whether a bound is
// known (a non-zero total, with no Indeterminate call since).
func (p *BubbleProgress) Expected() (total uint64, known bool) {
	total = p.expected.Load()
	return total, total > 0 && !p.indet.Load()
}

func (p *BubbleProgress) Advance(n uint64, label string) {
	if label != "" {
		p.label.Store(label)
	}
	total := p.attempts.Add(n)
	select {
	case p.statsCh <- Stats{Total: total, Timestamp: time.Now()}:
	default:
	}
}

func (p *BubbleProgress) Finish() {
	p.once.Do(func() { close(p.statsCh) })
}

func (p *BubbleProgress) OnCancel(cb func()) { p.cancel.Store(cb) }

// Cancel invokes whatever callback the job registered via OnCancel, if
// any has been registered yet.
func (p *BubbleProgress) Cancel() {
	if cb, ok := p.cancel.Load().(func()); ok && cb != nil {
		cb()
	}
}

// StatsCh exposes the sample stream for the bubbletea model to drain.
func (p *BubbleProgress) StatsCh() <-chan Stats { return p.statsCh }

var _ ports.Progress = (*BubbleProgress)(nil)
