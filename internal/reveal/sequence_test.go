package reveal

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()

	// Timers armed by a callback fire in the same Advance when already due.
	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > c.now {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.mu.Unlock()
		next.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func TestSchedule_DefaultTiming(t *testing.T) {
	steps := Schedule(3, DefaultTiming())
	want := []Step{
		{Kind: StepFlip, Index: 0, At: 500 * time.Millisecond},
		{Kind: StepFlip, Index: 1, At: 800 * time.Millisecond},
		{Kind: StepFlip, Index: 2, At: 1100 * time.Millisecond},
		{Kind: StepInterpretation, At: 1900 * time.Millisecond},
	}
	if len(steps) != len(want) {
		t.Fatalf("len(steps) = %d, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps[%d] = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

func TestSchedule_NoCards(t *testing.T) {
	steps := Schedule(0, DefaultTiming())
	if len(steps) != 1 || steps[0].Kind != StepInterpretation || steps[0].At != time.Second {
		t.Fatalf("Schedule(0) = %+v, want single interpretation step at 1s", steps)
	}
}

func TestSchedule_NegativeDelaysClamp(t *testing.T) {
	steps := Schedule(2, Timing{Initial: -time.Second, Interval: -1, Final: -1})
	for _, step := range steps {
		if step.At != 0 {
			t.Fatalf("step %+v has non-zero offset", step)
		}
	}
}

func TestSequence_FiresInOrder(t *testing.T) {
	clock := &fakeClock{}
	var got []Step
	seq := Start(clock, 3, DefaultTiming(), func(s Step) { got = append(got, s) })

	clock.Advance(499 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("steps fired before 500ms: %+v", got)
	}
	clock.Advance(time.Millisecond)
	if len(got) != 1 || got[0].Index != 0 {
		t.Fatalf("after 500ms got %+v, want card 0", got)
	}
	clock.Advance(600 * time.Millisecond)
	if len(got) != 3 {
		t.Fatalf("after 1100ms got %d steps, want 3", len(got))
	}
	clock.Advance(799 * time.Millisecond)
	if len(got) != 3 {
		t.Fatal("interpretation fired before 1900ms")
	}
	clock.Advance(time.Millisecond)
	if len(got) != 4 || got[3].Kind != StepInterpretation {
		t.Fatalf("after 1900ms got %+v, want interpretation last", got)
	}

	select {
	case <-seq.Done():
	default:
		t.Fatal("Done not closed after the last step")
	}
}

func TestSequence_StopCancelsPending(t *testing.T) {
	clock := &fakeClock{}
	var got []Step
	seq := Start(clock, 3, DefaultTiming(), func(s Step) { got = append(got, s) })

	clock.Advance(800 * time.Millisecond)
	seq.Stop()
	seq.Stop()

	if clock.pending() != 0 {
		t.Fatalf("%d timers still pending after Stop", clock.pending())
	}
	clock.Advance(10 * time.Second)
	if len(got) != 2 {
		t.Fatalf("got %d steps, want 2 (stopped after second card)", len(got))
	}
	select {
	case <-seq.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func TestSequence_StopDropsAlreadyDueCallback(t *testing.T) {
	clock := &fakeClock{}
	called := false
	seq := Start(clock, 1, DefaultTiming(), func(Step) { called = true })

	// Capture the timer callback as if it had been dequeued by the runtime
	// but not yet run when Stop is called.
	clock.mu.Lock()
	first := clock.timers[0]
	clock.mu.Unlock()

	seq.Stop()
	first.f()

	if called {
		t.Fatal("callback ran after Stop returned")
	}
}

func TestSequence_NilStop(t *testing.T) {
	var seq *Sequence
	seq.Stop()
}

func TestSequence_SystemClock(t *testing.T) {
	done := make(chan struct{})
	var mu sync.Mutex
	var got []Step
	seq := Start(nil, 2, Timing{Initial: time.Millisecond, Interval: time.Millisecond, Final: time.Millisecond}, func(s Step) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	go func() {
		<-seq.Done()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sequence did not finish")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("got %+v, want two flips and interpretation", got)
	}
}

func TestSequence_ZeroDelaysKeepOrder(t *testing.T) {
	clock := &fakeClock{}
	var got []Step
	Start(clock, 5, Timing{}, func(s Step) { got = append(got, s) })

	if clock.pending() != 1 {
		t.Fatalf("pending = %d, want one timer at a time", clock.pending())
	}
	clock.Advance(0)
	if len(got) != 6 {
		t.Fatalf("got %d steps, want 6", len(got))
	}
	for i := 0; i < 5; i++ {
		if got[i].Kind != StepFlip || got[i].Index != i {
			t.Fatalf("step %d = %+v, want flip %d", i, got[i], i)
		}
	}
	if got[5].Kind != StepInterpretation {
		t.Fatalf("last step = %+v, want interpretation", got[5])
	}
}

func TestSequence_ZeroDelaysSystemClock(t *testing.T) {
	for run := 0; run < 200; run++ {
		var mu sync.Mutex
		var got []Step
		seq := Start(nil, 10, Timing{Initial: time.Millisecond}, func(s Step) {
			mu.Lock()
			got = append(got, s)
			mu.Unlock()
		})

		select {
		case <-seq.Done():
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d: sequence did not finish", run)
		}

		mu.Lock()
		if len(got) != 11 {
			mu.Unlock()
			t.Fatalf("run %d: got %d steps, want 11", run, len(got))
		}
		for i := 0; i < 10; i++ {
			if got[i].Kind != StepFlip || got[i].Index != i {
				mu.Unlock()
				t.Fatalf("run %d: step %d = %+v, want flip %d", run, i, got[i], i)
			}
		}
		if got[10].Kind != StepInterpretation {
			mu.Unlock()
			t.Fatalf("run %d: interpretation was not last: %+v", run, got)
		}
		mu.Unlock()
	}
}
