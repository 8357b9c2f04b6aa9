package store

import (
	"slices"

	"student-directory/internal/model"
)

// State is the whole directory view state. Transitions below never mutate
// their input; each returns the next State.
type State struct {
	Records   []model.Record
	Loading   bool
	Error     string
	Alert     string
	PageIndex int
	PageSize  int
	Delete    DeleteIntent

	loads int
}

func initialState(pageSize int) State {
	return State{
		Records:  []model.Record{},
		PageSize: pageSize,
		Delete:   Idle{},
	}
}

func (s State) indexOf(id model.RecordID) int {
	return slices.IndexFunc(s.Records, func(r model.Record) bool { return r.ID == id })
}

func (s State) has(id model.RecordID) bool {
	return s.indexOf(id) >= 0
}

func loadStarted(s State) State {
	s.loads++
	s.Loading = true
	s.Error = ""
	return s
}

// loadSucceeded replaces the sequence in arrival order, dropping repeated ids.
func loadSucceeded(s State, records []model.Record) State {
	seen := make(map[model.RecordID]struct{}, len(records))
	next := make([]model.Record, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		next = append(next, r)
	}

	s = loadSettled(s)
	s.Records = next
	s.Error = ""
	if p, ok := s.Delete.(Pending); ok && !s.has(p.ID) {
		s.Delete = p.Cancel()
	}
	return s
}

func loadFailed(s State, msg string) State {
	s = loadSettled(s)
	s.Error = msg
	return s
}

func loadSettled(s State) State {
	if s.loads > 0 {
		s.loads--
	}
	s.Loading = s.loads > 0
	return s
}

// created appends rec and rewinds to the first page. A record whose id is
// already present replaces the existing entry instead.
func created(s State, rec model.Record) State {
	if i := s.indexOf(rec.ID); i >= 0 {
		s.Records = slices.Clone(s.Records)
		s.Records[i] = rec
	} else {
		s.Records = append(slices.Clone(s.Records), rec)
	}
	s.PageIndex = 0
	return s
}

func updated(s State, id model.RecordID, rec model.Record) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}
	rec.ID = id
	s.Records = slices.Clone(s.Records)
	s.Records[i] = rec
	return s
}

func removed(s State, id model.RecordID) State {
	s.Records = slices.DeleteFunc(slices.Clone(s.Records), func(r model.Record) bool { return r.ID == id })
	return s
}

func mutationFailed(s State, msg string) State {
	s.Alert = msg
	return s
}

func deleteSettled(s State, id model.RecordID) State {
	if f, ok := s.Delete.(InFlight); ok && f.ID == id {
		s.Delete = f.Done()
	}
	return s
}

func pageSet(s State, index int) State {
	s.PageIndex = index
	return s
}

func pageSizeSet(s State, size int) State {
	s.PageSize = size
	s.PageIndex = 0
	return s
}

func errorDismissed(s State) State {
	s.Error = ""
	return s
}

func alertAcknowledged(s State) State {
	s.Alert = ""
	return s
}

// Page returns the contiguous slice [index*size, index*size+size) of records,
// clamped to its bounds.
func Page(records []model.Record, index, size int) []model.Record {
	if index < 0 || size <= 0 || index >= pageCount(len(records), size) {
		return []model.Record{}
	}
	start := index * size
	end := min(start+size, len(records))
	return slices.Clone(records[start:end])
}

func pageCount(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
