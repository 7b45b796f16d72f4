package reconcile

import (
	"fmt"

	"view-sync/core/sectioned"
)

// recordingSink is a MutationSink that records every call it receives, in
// order, as printable op strings. Cells are scripted per path.
type recordingSink struct {
	ops   []string
	cells map[sectioned.IndexPath]Cell
}

func newRecordingSink() *recordingSink {
	return &recordingSink{cells: make(map[sectioned.IndexPath]Cell)}
}

func (s *recordingSink) InsertSections(indexes []int) {
	s.ops = append(s.ops, fmt.Sprintf("insert_sections %v", indexes))
}

func (s *recordingSink) DeleteSections(indexes []int) {
	s.ops = append(s.ops, fmt.Sprintf("delete_sections %v", indexes))
}

func (s *recordingSink) InsertItems(paths []sectioned.IndexPath) {
	s.ops = append(s.ops, fmt.Sprintf("insert_items %v", paths))
}

func (s *recordingSink) DeleteItems(paths []sectioned.IndexPath) {
	s.ops = append(s.ops, fmt.Sprintf("delete_items %v", paths))
}

func (s *recordingSink) CellAt(path sectioned.IndexPath) (Cell, bool) {
	cell, ok := s.cells[path]
	return cell, ok
}

func (s *recordingSink) ReloadAll() {
	s.ops = append(s.ops, "reload_all")
}

// recordingBatchSink adds the atomic batch capability. Completion runs
// synchronously inside EndBatch unless holdCompletion is set, in which case
// it is parked in pending for the test to fire later.
type recordingBatchSink struct {
	recordingSink
	holdCompletion bool
	pending        func()
}

func newRecordingBatchSink() *recordingBatchSink {
	return &recordingBatchSink{recordingSink: *newRecordingSink()}
}

func (s *recordingBatchSink) BeginBatch() {
	s.ops = append(s.ops, "begin_batch")
}

func (s *recordingBatchSink) EndBatch(completion func()) {
	s.ops = append(s.ops, "end_batch")
	if completion == nil {
		return
	}
	if s.holdCompletion {
		s.pending = completion
		return
	}
	completion()
}

// path is shorthand for sectioned.Path in tests.
func path(section, item int) *sectioned.IndexPath {
	p := sectioned.Path(section, item)
	return &p
}
