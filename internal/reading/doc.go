// Package reading orchestrates a tarot reading session.
//
// A Workflow ties the backend client, the host provider and the state store
// together:
//
//	Init ──→ Attach (identity, viewport, expand)
//	     └─→ LoadSpreads ──→ catalog | single alert
//	Submit ──→ validate ──→ BeginReading ──→ CreateReading
//	                                   ├─→ FailReading + single alert
//	                                   └─→ FinishReading ──→ reveal.Sequence
//	Reset / Close ──→ stop sequence synchronously, cancel request
//
// Every state change is published on Changes so the UI can re-render
// without polling.
package reading
