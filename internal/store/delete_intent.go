package store

import (
	"student-directory/internal/model"

	"github.com/google/uuid"
)

const (
	DeleteIdle     = "idle"
	DeletePending  = "pending"
	DeleteInFlight = "in_flight"
)

// DeleteIntent is one of Idle, Pending or InFlight. Each transition is a
// method of the state it leaves, so e.g. confirming from Idle cannot be written.
type DeleteIntent interface {
	Status() string
	isDeleteIntent()
}

type Idle struct{}

type Pending struct {
	ID    model.RecordID
	Token uuid.UUID
}

type InFlight struct {
	ID model.RecordID
}

func (Idle) Status() string     { return DeleteIdle }
func (Pending) Status() string  { return DeletePending }
func (InFlight) Status() string { return DeleteInFlight }

func (Idle) isDeleteIntent()     {}
func (Pending) isDeleteIntent()  {}
func (InFlight) isDeleteIntent() {}

func (Idle) Mark(id model.RecordID) Pending {
	return Pending{ID: id, Token: uuid.New()}
}

// Mark retargets a pending delete; the previous token is invalidated.
func (Pending) Mark(id model.RecordID) Pending {
	return Pending{ID: id, Token: uuid.New()}
}

func (Pending) Cancel() Idle {
	return Idle{}
}

func (p Pending) Confirm() InFlight {
	return InFlight{ID: p.ID}
}

func (InFlight) Done() Idle {
	return Idle{}
}

// DeleteIntentView is the renderable form of a DeleteIntent. The token is
// handed out only by MarkDelete.
type DeleteIntentView struct {
	Status string         `json:"status"`
	ID     model.RecordID `json:"id,omitempty"`
}

func viewOf(d DeleteIntent) DeleteIntentView {
	switch v := d.(type) {
	case Pending:
		return DeleteIntentView{Status: v.Status(), ID: v.ID}
	case InFlight:
		return DeleteIntentView{Status: v.Status(), ID: v.ID}
	default:
		return DeleteIntentView{Status: DeleteIdle}
	}
}
