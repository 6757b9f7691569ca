// Package history implements linear undo over full drawing snapshots.
package history

import "github.com/example/mediastudio/internal/shape"

// Stack is an ordered list of snapshots with a cursor on the current one.
// Committing after an undo discards every entry past the cursor.
type Stack struct {
	entries []shape.DrawingState
	cursor  int
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{cursor: -1}
}

// Commit stores a deep copy of st after the cursor and moves onto it.
func (s *Stack) Commit(st shape.DrawingState) {
	s.entries = append(s.entries[:s.cursor+1], st.Clone())
	s.cursor = len(s.entries) - 1
}

// Undo steps back one entry. It reports false, and leaves the cursor
// alone, when already at the first entry or when the stack is empty.
func (s *Stack) Undo() (shape.DrawingState, bool) {
	if !s.CanUndo() {
		return shape.DrawingState{}, false
	}
	s.cursor--
	return s.entries[s.cursor].Clone(), true
}

// Redo steps forward one entry. It reports false at the last entry.
func (s *Stack) Redo() (shape.DrawingState, bool) {
	if !s.CanRedo() {
		return shape.DrawingState{}, false
	}
	s.cursor++
	return s.entries[s.cursor].Clone(), true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }

func (s *Stack) CanRedo() bool { return s.cursor >= 0 && s.cursor < len(s.entries)-1 }

// Len is the number of reachable and redoable entries.
func (s *Stack) Len() int { return len(s.entries) }

// Cursor is the index of the current entry, -1 when empty.
func (s *Stack) Cursor() int { return s.cursor }

// Current returns a copy of the entry at the cursor.
func (s *Stack) Current() (shape.DrawingState, bool) {
	if s.cursor < 0 {
		return shape.DrawingState{}, false
	}
	return s.entries[s.cursor].Clone(), true
}
