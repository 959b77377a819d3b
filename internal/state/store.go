package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/host"
)

// Phase is the stage of the current reading cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseRevealing
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseRevealing:
		return "revealing"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

var (
	// ErrCannotSubmit is returned when the question or spread is missing,
	// or a reading is already loading.
	ErrCannotSubmit = errors.New("question and spread are required")
	// ErrUnknownSpread is returned when selecting an id not in the catalog.
	ErrUnknownSpread = errors.New("unknown spread")
)

// Snapshot represents the latest workflow state available to the UI.
type Snapshot struct {
	User     *host.User
	Viewport host.Viewport

	Spreads  []api.Spread
	Question string
	SpreadID string

	Loading               bool
	Reading               *api.Reading
	Flipped               map[int]bool
	InterpretationVisible bool
	Phase                 Phase

	Alert       string
	LastError   error
	LastUpdated time.Time
	// Generation changes whenever a reading starts or the form resets.
	Generation uint64
}

// CanSubmit reports whether a reading request may be issued.
func (s Snapshot) CanSubmit() bool {
	return strings.TrimSpace(s.Question) != "" && s.SpreadID != "" && !s.Loading
}

// HasReading reports whether a reading result is being shown.
func (s Snapshot) HasReading() bool {
	return s.Reading != nil
}

// IsFlipped reports whether card idx is face up.
func (s Snapshot) IsFlipped(idx int) bool {
	return s.Flipped[idx]
}

// FlippedCount returns the number of face-up cards.
func (s Snapshot) FlippedCount() int {
	return len(s.Flipped)
}

// AllFlipped reports whether every card of the reading is face up.
func (s Snapshot) AllFlipped() bool {
	return s.Reading != nil && len(s.Flipped) == len(s.Reading.Cards)
}

// SelectedSpread returns the catalog entry for SpreadID.
func (s Snapshot) SelectedSpread() (api.Spread, bool) {
	return findSpread(s.Spreads, s.SpreadID)
}

// Store coordinates concurrent updates to the snapshot. Reading-scoped
// mutations take the generation returned by BeginReading and are ignored
// once a newer reading or a reset has replaced it.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetEnvironment records the host identity and viewport.
func (s *Store) SetEnvironment(user *host.User, viewport host.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user != nil {
		u := *user
		s.snapshot.User = &u
	} else {
		s.snapshot.User = nil
	}
	s.snapshot.Viewport = viewport
	s.touch()
}

// SetViewport records a new viewport size.
func (s *Store) SetViewport(viewport host.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Viewport = viewport
}

// SetSpreads replaces the spread catalog.
func (s *Store) SetSpreads(spreads []api.Spread) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Spreads = cloneSpreads(spreads)
	if _, ok := findSpread(s.snapshot.Spreads, s.snapshot.SpreadID); !ok {
		s.snapshot.SpreadID = ""
	}
	s.touch()
}

// SetQuestion updates the question text.
func (s *Store) SetQuestion(question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Question = question
	s.touch()
}

// SelectSpread selects a catalog spread by id.
func (s *Store) SelectSpread(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := findSpread(s.snapshot.Spreads, id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSpread, id)
	}
	s.snapshot.SpreadID = id
	s.touch()
	return nil
}

// BeginReading enters the loading phase, discarding the previous reading and
// its flip state. It returns the generation of the new reading.
func (s *Store) BeginReading() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.CanSubmit() {
		return 0, ErrCannotSubmit
	}
	s.snapshot.Generation++
	s.snapshot.Loading = true
	s.snapshot.Reading = nil
	s.snapshot.Flipped = nil
	s.snapshot.InterpretationVisible = false
	s.snapshot.Phase = PhaseLoading
	s.snapshot.Alert = ""
	s.snapshot.LastError = nil
	s.touch()
	return s.snapshot.Generation, nil
}

// FinishReading stores a successful reading and enters the reveal phase.
func (s *Store) FinishReading(gen uint64, reading *api.Reading) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) || !s.snapshot.Loading {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.Reading = reading.Clone()
	s.snapshot.Flipped = make(map[int]bool)
	s.snapshot.Phase = PhaseRevealing
	s.touch()
	return true
}

// FailReading records a failed request. The form is left untouched.
func (s *Store) FailReading(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) || !s.snapshot.Loading {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.Phase = PhaseError
	s.snapshot.LastError = err
	s.touch()
	return true
}

// CancelReading abandons an in-flight request without an alert.
func (s *Store) CancelReading(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) || !s.snapshot.Loading {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.Phase = PhaseIdle
	s.touch()
	return true
}

// Flip turns card idx face up.
func (s *Store) Flip(gen uint64, idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) || s.snapshot.Reading == nil {
		return false
	}
	if idx < 0 || idx >= len(s.snapshot.Reading.Cards) {
		return false
	}
	s.snapshot.Flipped[idx] = true
	s.touch()
	return true
}

// ShowInterpretation reveals the interpretation once every card is face up.
func (s *Store) ShowInterpretation(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(gen) || !s.snapshot.AllFlipped() {
		return false
	}
	s.snapshot.InterpretationVisible = true
	s.snapshot.Phase = PhaseComplete
	s.touch()
	return true
}

// Alert records a user-facing alert. Only one alert is pending at a time.
func (s *Store) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Alert = message
	s.touch()
}

// DismissAlert clears the pending alert; an errored cycle returns to idle.
func (s *Store) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Alert = ""
	if s.snapshot.Phase == PhaseError {
		s.snapshot.Phase = PhaseIdle
	}
	s.touch()
}

// Reset returns to the form stage: question, spread, reading and flip
// state are cleared. The catalog and host environment are kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Generation++
	s.snapshot.Question = ""
	s.snapshot.SpreadID = ""
	s.snapshot.Loading = false
	s.snapshot.Reading = nil
	s.snapshot.Flipped = nil
	s.snapshot.InterpretationVisible = false
	s.snapshot.Phase = PhaseIdle
	s.snapshot.LastError = nil
	s.touch()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Spreads = cloneSpreads(s.snapshot.Spreads)
	snap.Reading = s.snapshot.Reading.Clone()
	if s.snapshot.Flipped != nil {
		snap.Flipped = make(map[int]bool, len(s.snapshot.Flipped))
		for idx := range s.snapshot.Flipped {
			snap.Flipped[idx] = true
		}
	}
	if s.snapshot.User != nil {
		u := *s.snapshot.User
		snap.User = &u
	}
	return snap
}

func (s *Store) current(gen uint64) bool {
	return gen != 0 && gen == s.snapshot.Generation
}

func (s *Store) touch() {
	s.snapshot.LastUpdated = time.Now()
}

func findSpread(spreads []api.Spread, id string) (api.Spread, bool) {
	if id == "" {
		return api.Spread{}, false
	}
	for _, spread := range spreads {
		if spread.ID == id {
			return spread, true
		}
	}
	return api.Spread{}, false
}

func cloneSpreads(spreads []api.Spread) []api.Spread {
	if len(spreads) == 0 {
		return nil
	}
	dup := make([]api.Spread, len(spreads))
	copy(dup, spreads)
	return dup
}
