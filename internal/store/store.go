// Package store keeps a local, paginated mirror of the remote users
// collection. Every operation performs at most one remote call and applies
// its local transition only once that call has succeeded.
package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"student-directory/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const DefaultPageSize = 10

var PageSizeOptions = []int{10, 25, 100}

var validate = validator.New()

// Remote is the collection the store mirrors.
type Remote interface {
	ListUsers(ctx context.Context) ([]model.Record, error)
	CreateUser(ctx context.Context, draft model.Draft) (model.Record, error)
	UpdateUser(ctx context.Context, id model.RecordID, draft model.Draft) (model.Record, error)
	DeleteUser(ctx context.Context, id model.RecordID) error
}

type RecordSyncStore struct {
	remote Remote
	logger *slog.Logger
	now    func() time.Time

	// mu is never held across a remote call.
	mu    sync.Mutex
	state State
}

// NewRecordSyncStore starts empty. An unsupported pageSize falls back to
// DefaultPageSize; a nil logger uses slog.Default().
func NewRecordSyncStore(remote Remote, pageSize int, logger *slog.Logger) *RecordSyncStore {
	if logger == nil {
		logger = slog.Default()
	}
	if err := validatePageSize(pageSize); err != nil {
		logger.Warn("unsupported page size, using default", "page_size", pageSize, "default", DefaultPageSize)
		pageSize = DefaultPageSize
	}
	return &RecordSyncStore{
		remote: remote,
		logger: logger.With(slog.String("component", "record_sync_store")),
		now:    time.Now,
		state:  initialState(pageSize),
	}
}

func validatePageSize(size int) error {
	if err := validate.Var(size, "oneof=10 25 100"); err != nil {
		return ErrInvalidPageSize
	}
	return nil
}

func (s *RecordSyncStore) apply(transition func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = transition(s.state)
	return s.state
}

func (s *RecordSyncStore) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadAll replaces the local sequence with the remote one. On failure the
// previous sequence is kept and the error banner is set.
func (s *RecordSyncStore) LoadAll(ctx context.Context) error {
	s.apply(loadStarted)

	records, err := s.remote.ListUsers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "loading users failed", "error", err)
		s.apply(func(st State) State { return loadFailed(st, LoadFailureMessage) })
		return &LoadError{Err: err}
	}

	st := s.apply(func(st State) State { return loadSucceeded(st, records) })
	s.logger.InfoContext(ctx, "users loaded", "count", len(st.Records))
	return nil
}

// Create is a no-op returning ErrNameRequired when the draft has no name.
func (s *RecordSyncStore) Create(ctx context.Context, draft model.Draft) (model.Record, error) {
	d := draft.Clean()
	if !d.HasName() {
		return model.Record{}, ErrNameRequired
	}
	s.warnUnusual(ctx, d)
	d = d.WithDefaults(s.now())

	rec, err := s.remote.CreateUser(ctx, d)
	if err == nil && rec.ID == "" {
		err = errMissingID
	}
	if err != nil {
		return model.Record{}, s.mutationFailed(ctx, OpCreate, "", err)
	}

	s.apply(func(st State) State { return created(st, rec) })
	s.logger.InfoContext(ctx, "user created", "id", rec.ID)
	return rec, nil
}

// Update sends the full cleaned draft for an existing local record and
// replaces it in place with the remote answer.
func (s *RecordSyncStore) Update(ctx context.Context, id model.RecordID, draft model.Draft) (model.Record, error) {
	if !s.snapshot().has(id) {
		return model.Record{}, ErrNotFound
	}
	d := draft.Clean()
	if !d.HasName() {
		return model.Record{}, ErrNameRequired
	}
	s.warnUnusual(ctx, d)

	rec, err := s.remote.UpdateUser(ctx, id, d)
	if err != nil {
		return model.Record{}, s.mutationFailed(ctx, OpUpdate, id, err)
	}
	rec.ID = id

	s.apply(func(st State) State { return updated(st, id, rec) })
	s.logger.InfoContext(ctx, "user updated", "id", id)
	return rec, nil
}

// warnUnusual logs advisory draft findings; the draft is sent unchanged.
func (s *RecordSyncStore) warnUnusual(ctx context.Context, d model.Draft) {
	if err := d.Validate(); err != nil {
		s.logger.WarnContext(ctx, "draft has unusual fields", "error", err)
	}
}

func (s *RecordSyncStore) remove(ctx context.Context, id model.RecordID) error {
	if err := s.remote.DeleteUser(ctx, id); err != nil {
		return s.mutationFailed(ctx, OpDelete, id, err)
	}
	s.apply(func(st State) State { return removed(st, id) })
	s.logger.InfoContext(ctx, "user deleted", "id", id)
	return nil
}

func (s *RecordSyncStore) mutationFailed(ctx context.Context, op string, id model.RecordID, err error) error {
	s.logger.ErrorContext(ctx, "user mutation failed", "op", op, "id", id, "error", err)
	s.apply(func(st State) State { return mutationFailed(st, mutationFailureMessages[op]) })
	return &MutationError{Op: op, ID: id, Err: err}
}

// MarkDelete records id as the pending delete target and returns the token
// ConfirmDelete expects.
func (s *RecordSyncStore) MarkDelete(id model.RecordID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.has(id) {
		return uuid.Nil, ErrNotFound
	}

	var next Pending
	switch v := s.state.Delete.(type) {
	case InFlight:
		return uuid.Nil, ErrDeleteInFlight
	case Pending:
		next = v.Mark(id)
	default:
		next = Idle{}.Mark(id)
	}
	s.state.Delete = next
	return next.Token, nil
}

func (s *RecordSyncStore) CancelDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch v := s.state.Delete.(type) {
	case InFlight:
		return ErrDeleteInFlight
	case Pending:
		s.state.Delete = v.Cancel()
	}
	return nil
}

// ConfirmDelete issues the pending delete. The intent returns to idle once
// the request completes, whatever its outcome.
func (s *RecordSyncStore) ConfirmDelete(ctx context.Context, token uuid.UUID) error {
	s.mu.Lock()
	var flight InFlight
	switch v := s.state.Delete.(type) {
	case Pending:
		if v.Token != token {
			s.mu.Unlock()
			return ErrTokenMismatch
		}
		flight = v.Confirm()
		s.state.Delete = flight
	case InFlight:
		s.mu.Unlock()
		return ErrDeleteInFlight
	default:
		s.mu.Unlock()
		return ErrNoPendingDelete
	}
	s.mu.Unlock()

	err := s.remove(ctx, flight.ID)
	s.apply(func(st State) State { return deleteSettled(st, flight.ID) })
	return err
}

func (s *RecordSyncStore) SetPage(index int) error {
	if index < 0 {
		return ErrInvalidPage
	}
	s.apply(func(st State) State { return pageSet(st, index) })
	return nil
}

func (s *RecordSyncStore) SetPageSize(size int) error {
	if err := validatePageSize(size); err != nil {
		return err
	}
	s.apply(func(st State) State { return pageSizeSet(st, size) })
	return nil
}

func (s *RecordSyncStore) DismissError() {
	s.apply(errorDismissed)
}

func (s *RecordSyncStore) AcknowledgeAlert() {
	s.apply(alertAcknowledged)
}

// Records returns a copy of the whole local sequence.
func (s *RecordSyncStore) Records() []model.Record {
	return slices.Clone(s.snapshot().Records)
}

// View is an immutable snapshot of what the presentation layer renders.
type View struct {
	Records   []model.Record   `json:"records"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	PageCount int              `json:"page_count"`
	PageSizes []int            `json:"page_size_options"`
	Loading   bool             `json:"loading"`
	Empty     bool             `json:"empty"`
	Error     string           `json:"error,omitempty"`
	Alert     string           `json:"alert,omitempty"`
	Delete    DeleteIntentView `json:"delete"`
}

func (s *RecordSyncStore) View() View {
	st := s.snapshot()
	return View{
		Records:   Page(st.Records, st.PageIndex, st.PageSize),
		Total:     len(st.Records),
		Page:      st.PageIndex,
		PageSize:  st.PageSize,
		PageCount: pageCount(len(st.Records), st.PageSize),
		PageSizes: slices.Clone(PageSizeOptions),
		Loading:   st.Loading,
		Empty:     len(st.Records) == 0 && !st.Loading && st.Error == "",
		Error:     st.Error,
		Alert:     st.Alert,
		Delete:    viewOf(st.Delete),
	}
}
