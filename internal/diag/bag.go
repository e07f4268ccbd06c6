package diag

type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag holding at most max diagnostics (max <= 0: no cap).
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 8
	}
	return &Bag{
		items: make([]Diagnostic, 0, capacity),
		max:   max,
	}
}

// Add appends d unless the cap is reached.
// Returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped counts diagnostics rejected by the cap.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors returns true if any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the diagnostics in insertion order.
// The slice aliases the bag: do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends other's diagnostics in order, respecting the cap.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
}

// Filter keeps the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}
