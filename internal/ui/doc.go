// Package ui provides the Bubble Tea terminal interface of luvo.
//
// # Architecture Overview
//
// The Model renders a reading.Workflow. It never mutates reading state
// itself: keystrokes call workflow methods, and the workflow's Changes
// channel wakes the Model to pull a fresh snapshot.
//
//	keys ──→ Workflow (SetQuestion, SelectSpread, Submit, Reset)
//	                 │
//	          Changes channel
//	                 ↓
//	Model.sync ──→ Snapshot ──→ View
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and commands, Run
//   - form.go: question textarea, spread list, submit button
//   - cards.go: card faces and the responsive card grid
//   - reading.go: reveal stage and the glamour-rendered interpretation
//   - header.go: title, tagline, user name and the key hint bar
//   - modal.go: alert and card-of-the-day dialogs
//   - help.go: key binding overlay
//   - theme.go: Noir and Amethyst palettes
//
// # Stages
//
//   - Form: no reading yet. The question textarea has focus; tab cycles
//     to the spread list and the submit button. While a request is in
//     flight the button shows a spinner and esc cancels.
//   - Reveal: cards appear face down and flip one by one as the workflow
//     reports them. Once the interpretation is visible, n starts over.
//
// # Layout
//
// Below LayoutCompactWidth columns the grid uses two columns and hides the
// position labels; wider terminals fit as many cards per row as possible.
//
// # Themes
//
// Press T (ctrl+t while typing) to cycle themes. The choice is stored in
// prefs.toml. A host background color replaces the theme background.
package ui
