// Package ui contains the Bubble Tea program for the configuration
// inspector. The Model focuses on message orchestration; dedicated helpers
// own navigation, input, rendering, and edit actions.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - While a rename prompt or a delete confirmation is active, the message
//     goes to that mode's handler first. Otherwise the message is routed
//     through a typed handler registry so each tea.Msg kind is handled by a
//     focused function.
//   - Navigation helpers (levels.go) manage the stack of list levels, one
//     per tree depth: owners, categories, rows, button entries. Filter and
//     text entry concerns live in input.go.
//
// State ownership:
//   - List state (items, filter, cursor, viewport) lives in
//     internal/ui/state.Level.
//   - The tree itself is owned by the structural editor; every mutation the
//     inspector performs goes through internal/editor, and the level items
//     are rebuilt from the tree afterwards.
//   - A backend.Watcher polls the settings snapshot so edits made by another
//     process show up; the model reloads only while it has no unsaved
//     changes of its own.
package ui
