package state

import (
	"errors"
	"testing"
	"time"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/host"
)

func testSpreads() []api.Spread {
	return []api.Spread{
		{ID: "1", Name: "Одна карта"},
		{ID: "2", Name: "Три карты"},
	}
}

func threeCardReading() *api.Reading {
	return &api.Reading{
		Cards: []api.Card{
			{NameRU: "Шут"}, {NameRU: "Маг"}, {NameRU: "Луна", Reversed: true},
		},
		Interpretation: "Толкование",
	}
}

// beginReading fills the form and enters the loading phase.
func beginReading(t *testing.T, s *Store) uint64 {
	t.Helper()
	s.SetSpreads(testSpreads())
	s.SetQuestion("Will I find love?")
	if err := s.SelectSpread("2"); err != nil {
		t.Fatalf("SelectSpread: %v", err)
	}
	gen, err := s.BeginReading()
	if err != nil {
		t.Fatalf("BeginReading: %v", err)
	}
	return gen
}

func TestSnapshot_CanSubmitCombinations(t *testing.T) {
	questions := []struct {
		text  string
		valid bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Will I find love?", true},
		{"  вопрос  ", true},
	}
	spreads := []struct {
		id    string
		valid bool
	}{
		{"", false},
		{"2", true},
	}
	for _, q := range questions {
		for _, sp := range spreads {
			for _, loading := range []bool{false, true} {
				snap := Snapshot{Question: q.text, SpreadID: sp.id, Loading: loading}
				want := q.valid && sp.valid && !loading
				if got := snap.CanSubmit(); got != want {
					t.Errorf("CanSubmit(question=%q spread=%q loading=%v) = %v, want %v", q.text, sp.id, loading, got, want)
				}
			}
		}
	}
}

func TestStore_SelectSpreadRequiresCatalogEntry(t *testing.T) {
	var s Store
	s.SetSpreads(testSpreads())

	if err := s.SelectSpread("3"); !errors.Is(err, ErrUnknownSpread) {
		t.Fatalf("SelectSpread(3) error = %v, want ErrUnknownSpread", err)
	}
	if err := s.SelectSpread("2"); err != nil {
		t.Fatalf("SelectSpread(2) returned error: %v", err)
	}
	spread, ok := s.Snapshot().SelectedSpread()
	if !ok || spread.Name != "Три карты" {
		t.Fatalf("SelectedSpread = %#v, %v; want spread 2", spread, ok)
	}

	// A catalog without the selected id drops the selection.
	s.SetSpreads([]api.Spread{{ID: "1"}})
	if got := s.Snapshot().SpreadID; got != "" {
		t.Fatalf("SpreadID = %q after catalog change, want empty", got)
	}
}

func TestStore_BeginReadingGuards(t *testing.T) {
	var s Store
	s.SetSpreads(testSpreads())

	if _, err := s.BeginReading(); !errors.Is(err, ErrCannotSubmit) {
		t.Fatalf("BeginReading on empty form error = %v, want ErrCannotSubmit", err)
	}
	s.SetQuestion("   ")
	_ = s.SelectSpread("1")
	if _, err := s.BeginReading(); !errors.Is(err, ErrCannotSubmit) {
		t.Fatalf("BeginReading with blank question error = %v, want ErrCannotSubmit", err)
	}

	s.SetQuestion("q")
	if _, err := s.BeginReading(); err != nil {
		t.Fatalf("BeginReading returned error: %v", err)
	}
	if _, err := s.BeginReading(); !errors.Is(err, ErrCannotSubmit) {
		t.Fatalf("second BeginReading while loading error = %v, want ErrCannotSubmit", err)
	}
}

func TestStore_RevealLifecycle(t *testing.T) {
	var s Store
	gen := beginReading(t, &s)

	snap := s.Snapshot()
	if !snap.Loading || snap.Phase != PhaseLoading || snap.Reading != nil {
		t.Fatalf("after BeginReading snapshot = %+v, want loading without reading", snap)
	}

	if !s.FinishReading(gen, threeCardReading()) {
		t.Fatal("FinishReading returned false")
	}
	snap = s.Snapshot()
	if snap.Loading || snap.Phase != PhaseRevealing || len(snap.Reading.Cards) != 3 {
		t.Fatalf("after FinishReading snapshot = %+v, want revealing 3 cards", snap)
	}

	// Interpretation cannot show before every card is flipped.
	if s.ShowInterpretation(gen) {
		t.Fatal("ShowInterpretation succeeded with no cards flipped")
	}
	for i := 0; i < 3; i++ {
		if !s.Flip(gen, i) {
			t.Fatalf("Flip(%d) returned false", i)
		}
		if i < 2 && s.ShowInterpretation(gen) {
			t.Fatalf("ShowInterpretation succeeded after %d flips", i+1)
		}
	}
	if s.Flip(gen, 3) || s.Flip(gen, -1) {
		t.Fatal("Flip accepted an index outside the reading")
	}
	if !s.ShowInterpretation(gen) {
		t.Fatal("ShowInterpretation returned false after all flips")
	}
	snap = s.Snapshot()
	if !snap.InterpretationVisible || snap.Phase != PhaseComplete || snap.FlippedCount() != 3 {
		t.Fatalf("final snapshot = %+v, want complete with 3 flips", snap)
	}
}

func TestStore_StaleGenerationIgnored(t *testing.T) {
	var s Store
	gen := beginReading(t, &s)
	s.FinishReading(gen, threeCardReading())

	s.Reset()

	if s.Flip(gen, 0) {
		t.Fatal("Flip with stale generation mutated state")
	}
	if s.ShowInterpretation(gen) {
		t.Fatal("ShowInterpretation with stale generation mutated state")
	}
	if s.FinishReading(gen, threeCardReading()) {
		t.Fatal("FinishReading with stale generation mutated state")
	}
	snap := s.Snapshot()
	if snap.Reading != nil || snap.FlippedCount() != 0 || snap.InterpretationVisible {
		t.Fatalf("snapshot after stale updates = %+v, want clean form", snap)
	}
}

func TestStore_ResetClearsEverythingButCatalog(t *testing.T) {
	var s Store
	s.SetEnvironment(&host.User{ID: 1}, host.Viewport{Width: 80})
	gen := beginReading(t, &s)
	s.FinishReading(gen, threeCardReading())
	s.Flip(gen, 0)
	s.Flip(gen, 1)

	s.Reset()

	snap := s.Snapshot()
	if snap.Question != "" || snap.SpreadID != "" || snap.Reading != nil {
		t.Fatalf("Reset left form data: %+v", snap)
	}
	if snap.FlippedCount() != 0 || snap.InterpretationVisible || snap.Loading {
		t.Fatalf("Reset left reveal data: %+v", snap)
	}
	if snap.Phase != PhaseIdle {
		t.Fatalf("Phase = %v, want idle", snap.Phase)
	}
	if len(snap.Spreads) != 2 || snap.User == nil || snap.Viewport.Width != 80 {
		t.Fatalf("Reset dropped catalog or environment: %+v", snap)
	}
}

func TestStore_FailReadingKeepsForm(t *testing.T) {
	var s Store
	gen := beginReading(t, &s)

	before := time.Now()
	origErr := errors.New("boom")
	if !s.FailReading(gen, origErr) {
		t.Fatal("FailReading returned false")
	}
	s.Alert("Ошибка")

	snap := s.Snapshot()
	if snap.Loading {
		t.Fatal("Loading still set after failure")
	}
	if snap.Question != "Will I find love?" || snap.SpreadID != "2" {
		t.Fatalf("form changed on failure: question=%q spread=%q", snap.Question, snap.SpreadID)
	}
	if snap.Phase != PhaseError || snap.Alert != "Ошибка" {
		t.Fatalf("phase=%v alert=%q, want error with alert", snap.Phase, snap.Alert)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != origErr {
		t.Fatalf("LastError = %v, want the error passed to FailReading", snap.LastError)
	}
	if !snap.CanSubmit() {
		t.Fatal("form should allow resubmission after failure")
	}

	s.DismissAlert()
	snap = s.Snapshot()
	if snap.Alert != "" || snap.Phase != PhaseIdle {
		t.Fatalf("after DismissAlert phase=%v alert=%q, want idle", snap.Phase, snap.Alert)
	}
}

func TestStore_CancelReading(t *testing.T) {
	var s Store
	gen := beginReading(t, &s)

	if !s.CancelReading(gen) {
		t.Fatal("CancelReading returned false")
	}
	snap := s.Snapshot()
	if snap.Loading || snap.Phase != PhaseIdle || snap.Alert != "" {
		t.Fatalf("after cancel snapshot = %+v, want idle without alert", snap)
	}
	if s.CancelReading(gen) {
		t.Fatal("CancelReading succeeded twice")
	}
}

func TestStore_SnapshotClone(t *testing.T) {
	var s Store
	gen := beginReading(t, &s)
	s.FinishReading(gen, threeCardReading())
	s.Flip(gen, 0)

	snap := s.Snapshot()
	snap.Spreads[0].ID = "999"
	snap.Reading.Cards[0].NameRU = "changed"
	snap.Flipped[2] = true

	snap2 := s.Snapshot()
	if snap2.Spreads[0].ID != "1" {
		t.Fatalf("Snapshot should clone spreads; got id %q", snap2.Spreads[0].ID)
	}
	if snap2.Reading.Cards[0].NameRU != "Шут" {
		t.Fatalf("Snapshot should clone reading; got %q", snap2.Reading.Cards[0].NameRU)
	}
	if snap2.IsFlipped(2) {
		t.Fatal("Snapshot should clone flipped set")
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		PhaseIdle:      "idle",
		PhaseLoading:   "loading",
		PhaseError:     "error",
		PhaseRevealing: "revealing",
		PhaseComplete:  "complete",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
