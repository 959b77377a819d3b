// Package state provides thread-safe state management for the reading workflow.
//
// # Overview
//
// This package holds the transient state of one reading session: the spread
// catalog, the question form, the current reading and which of its cards
// are face up. It is the coordination point between the workflow
// goroutines (network requests, reveal timers) and the UI.
//
// # Architecture
//
//	Producers:                      Consumer (UI):
//	┌──────────────────────┐       ┌──────────────────┐
//	│ catalog fetch        │       │                  │
//	│ reading request      │──────→│ store.Snapshot() │
//	│ reveal timers (Flip) │(mutex)│       ↓          │
//	└──────────────────────┘       │   render view    │
//	                               └──────────────────┘
//
// # Core Types
//
// Store:
//   - Thread-safe container guarded by sync.RWMutex
//   - Transition methods enforce the form and reveal invariants
//
// Snapshot:
//   - Copy of the state at a point in time, safe to keep and mutate
//
// # Phases
//
//	Idle → Loading → Error → Idle          (request failed, alert dismissed)
//	Idle → Loading → Revealing → Complete  (cards flipped, interpretation shown)
//	any  → Idle                            (Reset)
//
// # Generations
//
// BeginReading and Reset bump Snapshot.Generation. Every reading-scoped
// mutation (FinishReading, FailReading, Flip, ShowInterpretation) carries
// the generation it was started with and is dropped when it no longer
// matches, so a late timer or response can never touch a newer form.
//
// # Invariants
//
//   - CanSubmit requires a non-blank question, a selected catalog spread and
//     no request in flight
//   - Flipped only holds indices of the current reading's cards
//   - InterpretationVisible becomes true only after every card is flipped
//   - FailReading leaves the question and spread untouched
package state
