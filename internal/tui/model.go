// Package tui renders a live view of a running crack.Job, generalizing
// the original single-format ZIP brute-forcer's bubbletea model
// (per-thread throughput, a combinations progress bar, ETA) to any
// format the cracker core supports, driven by a BubbleProgress adapter
// instead of format-specific channels.
package tui

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"forgecrack/internal/crack"
)

// Config parameterizes one TUI session: the job's label, its progress
// feed, and the channel the crack command (cli's runCrackTUI) pushes
// the final crack.Result onto once the job returns (it runs the job in
// a goroutine concurrently with tea.Program.Run, same split as the
// original tool).
type Config struct {
	Label       string
	SampleEvery time.Duration
	Progress    *BubbleProgress
	ResultCh    <-chan crack.Result
}

type statsMsg Stats
type statsClosedMsg struct{}
type resultMsg crack.Result

func listenStats(ch <-chan Stats) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return statsClosedMsg{}
		}
		return statsMsg(s)
	}
}

func listenResult(ch <-chan crack.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return resultMsg{Outcome: crack.OutcomeCancelled}
		}
		return resultMsg(r)
	}
}

type model struct {
	cfg Config

	perSec   float64
	lastAttn uint64
	lastTime time.Time

	outcome  crack.Outcome
	password string
	done     bool

	statsOpen bool

	start time.Time

	expected uint64
	known    bool
}

func NewModel(cfg Config) model {
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 2 * time.Second
	}
	expected, known := cfg.Progress.Expected()
	return model{
		cfg:       cfg,
		statsOpen: true,
		start:     time.Now(),
		expected:  expected,
		known:     known,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listenStats(m.cfg.Progress.StatsCh()),
		listenResult(m.cfg.ResultCh),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cfg.Progress.Cancel()
			return m, tea.Quit
		}
	case statsMsg:
		m.expected, m.known = m.cfg.Progress.Expected()
		now := msg.Timestamp
		if m.lastTime.IsZero() {
			m.lastTime = now
			m.lastAttn = msg.Total
			return m, listenStats(m.cfg.Progress.StatsCh())
		}
		dt := now.Sub(m.lastTime).Seconds()
		if dt <= 0 {
			dt = m.cfg.SampleEvery.Seconds()
		}
		m.perSec = float64(msg.Total-m.lastAttn) / dt
		m.lastAttn = msg.Total
		m.lastTime = now
		return m, listenStats(m.cfg.Progress.StatsCh())

	case statsClosedMsg:
		m.statsOpen = false
		return m, nil

	case resultMsg:
		m.done = true
		m.outcome = msg.Outcome
		m.password = msg.Password
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	label := m.cfg.Label
	if label == "" {
		label = "Password cracker"
	}
	fmt.Fprintf(&b, "%s (q to quit)\n", label)
	fmt.Fprintf(&b, "Elapsed: %s\n", time.Since(m.start).Truncate(time.Second))

	fmt.Fprintf(&b, "\nThroughput: %7.0f p/s | Attempts: %d\n", m.perSec, m.lastAttn)

	if m.known && m.expected > 0 {
		attempts := new(big.Int).SetUint64(m.lastAttn)
		total := new(big.Int).SetUint64(m.expected)
		if attempts.Cmp(total) > 0 {
			attempts.Set(total)
		}
		percent := percentOf(attempts, total)
		bar := progressBar(percent, 40)
		eta := etaString(attempts, total, m.perSec)
		fmt.Fprintf(&b, "Progress: %s %5.1f%% | ETA: %s\n", bar, percent*100, eta)
	}

	if m.done {
		switch m.outcome {
		case crack.OutcomeFound:
			fmt.Fprintf(&b, "\nPassword found: %s\n", m.password)
		case crack.OutcomeCancelled:
			fmt.Fprintf(&b, "\nCancelled.\n")
		default:
			fmt.Fprintf(&b, "\nNot found among candidates tried.\n")
		}
	}
	return b.String()
}

// percentOf returns float64 percentage in [0,1]
func percentOf(cur, total *big.Int) float64 {
	if total.Sign() == 0 {
		return 0
	}
	fCur := new(big.Float).SetInt(cur)
	fTot := new(big.Float).SetInt(total)
	r := new(big.Float).Quo(fCur, fTot)
	out, _ := r.Float64()
	if out < 0 {
		return 0
	}
	if out > 1 {
		return 1
	}
	return out
}

// etaString estimates time remaining given attempts so far and current total p/s.
func etaString(cur, total *big.Int, pps float64) string {
	if pps <= 0 {
		return "∞"
	}
	remain := new(big.Int).Sub(total, cur)
	if remain.Sign() <= 0 {
		return "0s"
	}
	fRem := new(big.Float).SetInt(remain)
	fPps := big.NewFloat(pps)
	secsF := new(big.Float).Quo(fRem, fPps)
	secs, _ := secsF.Float64()
	if math.IsInf(secs, 0) || math.IsNaN(secs) {
		return "∞"
	}
	d := time.Duration(secs * float64(time.Second))
	return humanizeDuration(d)
}

func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	d = d.Truncate(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour

	h := d / time.Hour
	d -= h * time.Hour

	m := d / time.Minute
	d -= m * time.Minute

	s := d / time.Second

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if h > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || h > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))

	return strings.Join(parts, " ")
}

// progressBar renders a simple ASCII progress bar of given width for percent in [0,1].
func progressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	filled := int(math.Round(percent * float64(width)))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + bar + "]"
}
