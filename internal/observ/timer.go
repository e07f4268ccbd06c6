package observ

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Phase records the duration of one analysis phase of a file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the phases of one file analysis. Not safe for concurrent
// use; every analysis owns its own Timer.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	return t.Report().Summary()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	// Files is the number of per-file reports folded in by Aggregate.
	Files int `json:"files,omitempty"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
		Files:  1,
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the report as an aligned table.
func (r Report) Summary() string {
	var b strings.Builder
	if r.Files > 1 {
		fmt.Fprintf(&b, "timings (%d files):\n", r.Files)
	} else {
		b.WriteString("timings:\n")
	}
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

// Aggregate sums per-file reports phase by phase. Phases keep the order in
// which they first appear; nil reports (cached or unread files) are skipped.
func Aggregate(reports []*Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		if r == nil {
			continue
		}
		out.Files += max(r.Files, 1)
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
	}
	return out
}

// FileTiming pairs a path with its total analysis time.
type FileTiming struct {
	Path    string
	TotalMS float64
}

// Slowest returns the n files with the largest total, slowest first.
func Slowest(paths []string, reports []*Report, n int) []FileTiming {
	out := make([]FileTiming, 0, len(reports))
	for i, r := range reports {
		if r == nil || i >= len(paths) {
			continue
		}
		out = append(out, FileTiming{Path: paths[i], TotalMS: r.TotalMS})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMS > out[j].TotalMS })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
