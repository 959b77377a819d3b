// Package reveal schedules the card flip animation of a reading.
//
// A Sequence flips card i at Initial + i*Interval and shows the
// interpretation Final after the last card. Steps fire strictly in that
// order, one timer at a time. Stop disposes the pending timer
// synchronously: once Stop returns no step callback is running and none
// will run.
package reveal

import (
	"sync"
	"time"
)

// Timing holds the reveal delays.
type Timing struct {
	Initial  time.Duration // pause before the first card
	Interval time.Duration // between consecutive cards
	Final    time.Duration // after the last card, before the interpretation
}

// DefaultTiming returns the standard reveal pacing.
func DefaultTiming() Timing {
	return Timing{
		Initial:  500 * time.Millisecond,
		Interval: 300 * time.Millisecond,
		Final:    500 * time.Millisecond,
	}
}

// normalize replaces negative delays with zero.
func (t Timing) normalize() Timing {
	if t.Initial < 0 {
		t.Initial = 0
	}
	if t.Interval < 0 {
		t.Interval = 0
	}
	if t.Final < 0 {
		t.Final = 0
	}
	return t
}

// StepKind distinguishes flip steps from the final interpretation step.
type StepKind int

const (
	StepFlip StepKind = iota
	StepInterpretation
)

// Step is one scheduled reveal event.
type Step struct {
	Kind  StepKind
	Index int           // card index for StepFlip
	At    time.Duration // offset from Start
}

// Schedule returns the steps for a reading of n cards in firing order.
func Schedule(n int, timing Timing) []Step {
	if n < 0 {
		n = 0
	}
	timing = timing.normalize()
	steps := make([]Step, 0, n+1)
	for i := 0; i < n; i++ {
		steps = append(steps, Step{
			Kind:  StepFlip,
			Index: i,
			At:    timing.Initial + time.Duration(i)*timing.Interval,
		})
	}
	steps = append(steps, Step{
		Kind: StepInterpretation,
		At:   timing.Initial + time.Duration(n)*timing.Interval + timing.Final,
	})
	return steps
}

// Clock creates timers. It is satisfied by SystemClock and by fakes in tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock uses the runtime timers.
var SystemClock Clock = systemClock{}

// Sequence is a running reveal. Only the next step has a timer; each step
// arms its successor, so steps run in schedule order even when offsets tie.
type Sequence struct {
	mu      sync.Mutex
	clock   Clock
	steps   []Step
	next    int
	timer   Timer
	stopped bool
	done    chan struct{}
	onStep  func(Step)
}

// Start schedules the reveal of n cards. onStep runs on a timer goroutine,
// serialised with other steps and with Stop; it must not call Stop.
func Start(clock Clock, n int, timing Timing, onStep func(Step)) *Sequence {
	if clock == nil {
		clock = SystemClock
	}
	s := &Sequence{
		clock:  clock,
		steps:  Schedule(n, timing),
		done:   make(chan struct{}),
		onStep: onStep,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.arm(s.steps[0].At)
	return s
}

// arm schedules steps[s.next] d from now. Callers hold s.mu.
func (s *Sequence) arm(d time.Duration) {
	idx := s.next
	s.timer = s.clock.AfterFunc(d, func() { s.fire(idx) })
}

func (s *Sequence) fire(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || idx != s.next {
		return
	}
	step := s.steps[idx]
	if s.onStep != nil {
		s.onStep(step)
	}
	s.next++
	if s.next == len(s.steps) {
		s.stopped = true
		s.timer = nil
		close(s.done)
		return
	}
	s.arm(s.steps[s.next].At - step.At)
}

// Stop cancels all pending steps. It is safe to call more than once and on
// a nil Sequence.
func (s *Sequence) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.done)
}

// Done is closed when the last step has fired or the sequence is stopped.
func (s *Sequence) Done() <-chan struct{} {
	return s.done
}
