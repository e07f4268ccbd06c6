package trace

import "errors"

// TeeTracer backs ModeBoth: every event is written to the stream and kept
// in the ring, so a failed check can replay the tail after the stream has
// scrolled away. Either side may be nil.
type TeeTracer struct {
	stream Tracer
	ring   *RingTracer
	level  Level
}

func NewTeeTracer(level Level, stream Tracer, ring *RingTracer) *TeeTracer {
	return &TeeTracer{stream: stream, ring: ring, level: level}
}

func (t *TeeTracer) Emit(ev *Event) {
	if t.ring != nil {
		t.ring.Emit(ev)
	}
	if t.stream != nil {
		t.stream.Emit(ev)
	}
}

// Flush flushes the stream; the ring holds nothing to flush.
func (t *TeeTracer) Flush() error {
	if t.stream == nil {
		return nil
	}
	return t.stream.Flush()
}

// Close closes both sides and reports every failure.
func (t *TeeTracer) Close() error {
	var errs []error
	if t.stream != nil {
		errs = append(errs, t.stream.Close())
	}
	if t.ring != nil {
		errs = append(errs, t.ring.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the in-memory side, nil when the tee has none.
func (t *TeeTracer) Ring() *RingTracer { return t.ring }

func (t *TeeTracer) Level() Level  { return t.level }
func (t *TeeTracer) Enabled() bool { return t.level > LevelOff }
