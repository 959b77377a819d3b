package reading

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/host"
	mock_reading "github.com/luvo-tarot/luvo/internal/mocks/reading"
	"github.com/luvo-tarot/luvo/internal/reveal"
	"github.com/luvo-tarot/luvo/internal/state"
)

type manualTimer struct {
	at     time.Duration
	f      func()
	active bool
}

func (t *manualTimer) Stop() bool {
	was := t.active
	t.active = false
	return was
}

// manualClock fires due timers from Advance on the calling goroutine.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) reveal.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now + d, f: f, active: true}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.active && t.at <= c.now && (next == nil || t.at < next.at) {
				next = t
			}
		}
		if next == nil {
			c.mu.Unlock()
			return
		}
		next.active = false
		c.mu.Unlock()
		next.f()
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.active {
			n++
		}
	}
	return n
}

func twoSpreads() []api.Spread {
	return []api.Spread{
		{ID: "1", Name: "Одна карта", Description: "Быстрый ответ"},
		{ID: "2", Name: "Три карты", Description: "Прошлое, настоящее, будущее"},
	}
}

func threeCards() *api.Reading {
	return &api.Reading{
		SessionID:  "abc",
		Question:   "Will I find love?",
		SpreadType: "2",
		Cards: []api.Card{
			{NameRU: "Шут", Image: "00.jpg", Position: "Прошлое"},
			{NameRU: "Влюбленные", Image: "06.jpg", Position: "Настоящее"},
			{NameRU: "Звезда", Image: "17.jpg", Position: "Будущее", Reversed: true},
		},
		Interpretation: "Карты говорят...",
	}
}

type fixture struct {
	client  *mock_reading.MockClient
	alerter *mock_reading.MockAlerter
	store   *state.Store
	clock   *manualClock
	host    *host.Static
	wf      *Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		client:  mock_reading.NewMockClient(ctrl),
		alerter: mock_reading.NewMockAlerter(ctrl),
		store:   &state.Store{},
		clock:   &manualClock{},
		host: &host.Static{
			Identity: &host.User{ID: 42, Username: "seeker", FirstName: "Анна"},
			Size:     host.Viewport{Width: 80, Height: 24},
		},
	}
	wf, err := New(Options{
		Client:  f.client,
		Host:    f.host,
		Store:   f.store,
		Alerter: f.alerter,
		Clock:   f.clock,
	})
	require.NoError(t, err)
	t.Cleanup(wf.Close)
	f.wf = wf
	return f
}

// ready loads the catalog and fills the form.
func (f *fixture) ready(t *testing.T) {
	t.Helper()
	f.client.EXPECT().FetchSpreads(gomock.Any()).Return(twoSpreads(), nil)
	require.NoError(t, f.wf.Init(context.Background()))
	require.NoError(t, f.wf.SelectSpread("2"))
	f.wf.SetQuestion("Will I find love?")
}

func TestNew_RequiresClientAndStore(t *testing.T) {
	_, err := New(Options{Store: &state.Store{}})
	assert.Error(t, err)

	ctrl := gomock.NewController(t)
	_, err = New(Options{Client: mock_reading.NewMockClient(ctrl)})
	assert.Error(t, err)
}

func TestWorkflow_InitAttachesHost(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().FetchSpreads(gomock.Any()).Return(twoSpreads(), nil)

	require.NoError(t, f.wf.Init(context.Background()))

	snap := f.wf.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(42), snap.User.ID)
	assert.Equal(t, 80, snap.Viewport.Width)
	assert.True(t, f.host.Expanded())
	assert.Len(t, snap.Spreads, 2)
}

func TestWorkflow_LoadSpreadsFailure(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().FetchSpreads(gomock.Any()).Return(nil, errors.New("connection refused"))
	f.alerter.EXPECT().Alert(CatalogErrorMessage).Times(1)

	err := f.wf.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	snap := f.wf.Snapshot()
	assert.Empty(t, snap.Spreads)
	assert.False(t, snap.CanSubmit())
}

func TestWorkflow_SubmitRevealsThreeCards(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	require.True(t, f.wf.CanSubmit())

	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req api.ReadingRequest) (*api.Reading, error) {
			assert.Equal(t, "Will I find love?", req.Question)
			assert.Equal(t, "2", req.SpreadType)
			assert.Equal(t, "ru", req.Language)
			require.NotNil(t, req.UserID)
			assert.Equal(t, int64(42), *req.UserID)
			assert.Equal(t, "seeker", req.Username)
			return threeCards(), nil
		})

	require.NoError(t, f.wf.Submit(context.Background()))

	snap := f.wf.Snapshot()
	assert.Equal(t, state.PhaseRevealing, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Equal(t, 0, snap.FlippedCount())
	assert.Equal(t, 1, f.clock.Pending(), "one reveal timer armed at a time")

	// Record every observable transition.
	var flips []int
	interpretationAfter := -1
	for elapsed := 0; elapsed <= 3000; elapsed += 50 {
		f.clock.Advance(50 * time.Millisecond)
		snap := f.wf.Snapshot()
		if n := snap.FlippedCount(); len(flips) < n {
			flips = append(flips, n)
		}
		if snap.InterpretationVisible && interpretationAfter < 0 {
			interpretationAfter = len(flips)
			assert.True(t, snap.AllFlipped())
		}
	}

	assert.Equal(t, []int{1, 2, 3}, flips)
	assert.Equal(t, 3, interpretationAfter)
	assert.Equal(t, state.PhaseComplete, f.wf.Snapshot().Phase)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestWorkflow_InterpretationStrictlyAfterLastFlip(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(threeCards(), nil)
	require.NoError(t, f.wf.Submit(context.Background()))

	f.clock.Advance(1100 * time.Millisecond)
	snap := f.wf.Snapshot()
	assert.True(t, snap.AllFlipped())
	assert.False(t, snap.InterpretationVisible)

	// 500ms initial + 3*300ms + 500ms final.
	f.clock.Advance(799 * time.Millisecond)
	assert.False(t, f.wf.Snapshot().InterpretationVisible)

	f.clock.Advance(time.Millisecond)
	assert.True(t, f.wf.Snapshot().InterpretationVisible)
}

func TestWorkflow_SubmitFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(nil, &api.StatusError{Path: "/api/reading", Code: 500})
	f.alerter.EXPECT().Alert(ReadingErrorMessage).Times(1)

	err := f.wf.Submit(context.Background())
	require.Error(t, err)
	var statusErr *api.StatusError
	assert.True(t, errors.As(err, &statusErr))

	snap := f.wf.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "Will I find love?", snap.Question)
	assert.Equal(t, "2", snap.SpreadID)
	assert.Nil(t, snap.Reading)
	assert.Equal(t, state.PhaseError, snap.Phase)
	assert.True(t, snap.CanSubmit())
}

func TestWorkflow_SubmitGuards(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().FetchSpreads(gomock.Any()).Return(twoSpreads(), nil)
	require.NoError(t, f.wf.Init(context.Background()))

	// No spread, no question.
	assert.ErrorIs(t, f.wf.Submit(context.Background()), state.ErrCannotSubmit)

	f.wf.SetQuestion("   ")
	require.NoError(t, f.wf.SelectSpread("1"))
	assert.ErrorIs(t, f.wf.Submit(context.Background()), state.ErrCannotSubmit)

	assert.ErrorIs(t, f.wf.SelectSpread("9"), state.ErrUnknownSpread)
}

func TestWorkflow_SubmitRejectsLongQuestion(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.wf.SetQuestion(strings.Repeat("я", 501))

	var alerted string
	f.alerter.EXPECT().Alert(gomock.Any()).Do(func(msg string) { alerted = msg }).Times(1)

	err := f.wf.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, alerted, "Вопрос")
	assert.False(t, f.wf.Snapshot().Loading)
}

func TestWorkflow_QuestionOfFiveHundredRunesIsAccepted(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.wf.SetQuestion(strings.Repeat("я", 500))

	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(threeCards(), nil)
	assert.NoError(t, f.wf.Submit(context.Background()))
}

func TestWorkflow_ResetDuringReveal(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(threeCards(), nil)
	require.NoError(t, f.wf.Submit(context.Background()))

	f.clock.Advance(600 * time.Millisecond)
	require.Equal(t, 1, f.wf.Snapshot().FlippedCount())

	f.wf.Reset()
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(5 * time.Second)
	snap := f.wf.Snapshot()
	assert.Empty(t, snap.Question)
	assert.Empty(t, snap.SpreadID)
	assert.Nil(t, snap.Reading)
	assert.Equal(t, 0, snap.FlippedCount())
	assert.False(t, snap.InterpretationVisible)
	assert.Equal(t, state.PhaseIdle, snap.Phase)
	assert.Len(t, snap.Spreads, 2)
}

func TestWorkflow_ResubmitReplacesReveal(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(threeCards(), nil).Times(2)

	require.NoError(t, f.wf.Submit(context.Background()))
	f.clock.Advance(2 * time.Second)
	require.True(t, f.wf.Snapshot().InterpretationVisible)

	require.NoError(t, f.wf.Submit(context.Background()))
	snap := f.wf.Snapshot()
	assert.Equal(t, 0, snap.FlippedCount())
	assert.False(t, snap.InterpretationVisible)
	assert.Equal(t, 1, f.clock.Pending())
}

func TestWorkflow_CancelInFlight(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	started := make(chan struct{})
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ api.ReadingRequest) (*api.Reading, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	errCh := make(chan error, 1)
	go func() { errCh <- f.wf.Submit(context.Background()) }()

	<-started
	assert.True(t, f.wf.Snapshot().Loading)
	f.wf.Cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit did not return after Cancel")
	}

	snap := f.wf.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, state.PhaseIdle, snap.Phase)
	assert.Empty(t, snap.Alert)
	assert.Equal(t, "Will I find love?", snap.Question)
}

func TestWorkflow_LateResponseAfterResetIsDropped(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	started := make(chan struct{})
	release := make(chan struct{})
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, api.ReadingRequest) (*api.Reading, error) {
			close(started)
			<-release
			return threeCards(), nil
		})

	errCh := make(chan error, 1)
	go func() { errCh <- f.wf.Submit(context.Background()) }()
	<-started
	f.wf.Reset()
	close(release)

	require.NoError(t, <-errCh)
	snap := f.wf.Snapshot()
	assert.Nil(t, snap.Reading)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestWorkflow_CloseStopsReveal(t *testing.T) {
	f := newFixture(t)
	f.ready(t)
	f.client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).Return(threeCards(), nil)
	require.NoError(t, f.wf.Submit(context.Background()))

	f.wf.Close()
	assert.Equal(t, 0, f.clock.Pending())
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 0, f.wf.Snapshot().FlippedCount())

	assert.ErrorIs(t, f.wf.Submit(context.Background()), ErrClosed)
}

func TestWorkflow_ChangesCoalesce(t *testing.T) {
	f := newFixture(t)
	f.wf.SetQuestion("a")
	f.wf.SetQuestion("ab")

	select {
	case <-f.wf.Changes():
	default:
		t.Fatal("expected a pending change")
	}
	select {
	case <-f.wf.Changes():
		t.Fatal("changes should coalesce into one signal")
	default:
	}
}

func TestWorkflow_DefaultAlerterIsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_reading.NewMockClient(ctrl)
	store := &state.Store{}
	wf, err := New(Options{Client: client, Store: store})
	require.NoError(t, err)
	t.Cleanup(wf.Close)

	client.EXPECT().FetchSpreads(gomock.Any()).Return(nil, errors.New("down"))
	require.Error(t, wf.LoadSpreads(context.Background()))
	assert.Equal(t, CatalogErrorMessage, store.Snapshot().Alert)
}

func tenCards() *api.Reading {
	r := &api.Reading{SessionID: "celtic", Interpretation: "Крест"}
	for i := 0; i < 10; i++ {
		r.Cards = append(r.Cards, api.Card{ID: i, Name: "card"})
	}
	return r
}

func TestWorkflow_ZeroIntervalsStillShowInterpretation(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_reading.NewMockClient(ctrl)
	store := &state.Store{}
	wf, err := New(Options{
		Client: client,
		Store:  store,
		Clock:  reveal.SystemClock,
		Timing: reveal.Timing{Initial: time.Millisecond},
	})
	require.NoError(t, err)
	t.Cleanup(wf.Close)

	const runs = 100
	client.EXPECT().FetchSpreads(gomock.Any()).Return(twoSpreads(), nil)
	client.EXPECT().CreateReading(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, api.ReadingRequest) (*api.Reading, error) {
			return tenCards(), nil
		}).Times(runs)

	require.NoError(t, wf.LoadSpreads(context.Background()))
	require.NoError(t, wf.SelectSpread("1"))
	wf.SetQuestion("Что скажут карты?")

	for run := 0; run < runs; run++ {
		require.NoError(t, wf.Submit(context.Background()))
		require.Eventually(t, func() bool {
			return wf.Snapshot().InterpretationVisible
		}, 2*time.Second, time.Millisecond, "run %d: interpretation never shown", run)

		snap := wf.Snapshot()
		assert.True(t, snap.AllFlipped())
		assert.Equal(t, state.PhaseComplete, snap.Phase)
	}
}
