package project

import "fmt"

// StructuralError reports a document whose shape does not match any
// accepted form for a field: wrong node kind, conflicting aliases, a
// forbidden character in a name, or a layout/split conflict. Path is the
// dotted location of the offending field, e.g. "windows[2].panes[0].split".
type StructuralError struct {
	Path string
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ReferenceError reports a field that names a window or pane that will not
// exist in the compiled session: a startup selector out of range, an
// unknown window name, or a split_from pointing at a pane that is not
// created yet.
type ReferenceError struct {
	Path string
	Msg  string
}

func (e *ReferenceError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}
