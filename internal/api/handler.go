package api

import (
	"context"
	"errors"

	"student-directory/internal/model"
	"student-directory/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// Directory is the set of intents the HTTP surface dispatches.
type Directory interface {
	LoadAll(ctx context.Context) error
	Create(ctx context.Context, draft model.Draft) (model.Record, error)
	Update(ctx context.Context, id model.RecordID, draft model.Draft) (model.Record, error)
	MarkDelete(id model.RecordID) (uuid.UUID, error)
	CancelDelete() error
	ConfirmDelete(ctx context.Context, token uuid.UUID) error
	SetPage(index int) error
	SetPageSize(size int) error
	DismissError()
	AcknowledgeAlert()
	View() store.View
}

type DirectoryHandler struct {
	directory Directory
	validate  *validator.Validate
}

func NewDirectoryHandler(directory Directory) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		validate:  validator.New(),
	}
}

type RecordResponse struct {
	ID        model.RecordID `json:"id"`
	Name      string         `json:"name"`
	Avatar    string         `json:"avatar"`
	CreatedAt string         `json:"createdAt"`
}

type DirectoryResponse struct {
	store.View
	Records []RecordResponse `json:"records"`
}

type MarkDeleteResponse struct {
	ID    model.RecordID `json:"id"`
	Token uuid.UUID      `json:"token"`
}

type PageRequest struct {
	Page *int `json:"page" validate:"omitempty,min=0"`
	Size *int `json:"size" validate:"omitempty,oneof=10 25 100"`
}

type ConfirmDeleteRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

func toRecordResponse(r model.Record) RecordResponse {
	return RecordResponse{ID: r.ID, Name: r.Name, Avatar: r.DisplayAvatar(), CreatedAt: r.CreatedAt}
}

func toDirectoryResponse(v store.View) DirectoryResponse {
	rows := make([]RecordResponse, 0, len(v.Records))
	for _, r := range v.Records {
		rows = append(rows, toRecordResponse(r))
	}
	return DirectoryResponse{View: v, Records: rows}
}

// recordID copies the route param out of the request buffer, which fiber
// reuses once the handler returns.
func recordID(c *fiber.Ctx) model.RecordID {
	return model.RecordID(utils.CopyString(c.Params("id")))
}

// detached keeps an issued remote call running when the client goes away.
func detached(c *fiber.Ctx) context.Context {
	return context.WithoutCancel(c.UserContext())
}

func (h *DirectoryHandler) GetView(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(toDirectoryResponse(h.directory.View()))
}

// SetPage applies a new page size before the page index, since changing the
// size resets the index.
func (h *DirectoryHandler) SetPage(c *fiber.Ctx) error {
	var req PageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if req.Size != nil {
		if err := h.directory.SetPageSize(*req.Size); err != nil {
			return h.fail(c, err)
		}
	}
	if req.Page != nil {
		if err := h.directory.SetPage(*req.Page); err != nil {
			return h.fail(c, err)
		}
	}
	return c.Status(fiber.StatusOK).JSON(toDirectoryResponse(h.directory.View()))
}

func (h *DirectoryHandler) Reload(c *fiber.Ctx) error {
	if err := h.directory.LoadAll(detached(c)); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toDirectoryResponse(h.directory.View()))
}

func (h *DirectoryHandler) CreateRecord(c *fiber.Ctx) error {
	var draft model.Draft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	rec, err := h.directory.Create(detached(c), draft)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(rec))
}

func (h *DirectoryHandler) UpdateRecord(c *fiber.Ctx) error {
	id := recordID(c)

	var draft model.Draft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	rec, err := h.directory.Update(detached(c), id, draft)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toRecordResponse(rec))
}

func (h *DirectoryHandler) MarkDelete(c *fiber.Ctx) error {
	id := recordID(c)

	token, err := h.directory.MarkDelete(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(MarkDeleteResponse{ID: id, Token: token})
}

func (h *DirectoryHandler) ConfirmDelete(c *fiber.Ctx) error {
	var req ConfirmDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if err := h.directory.ConfirmDelete(detached(c), uuid.MustParse(req.Token)); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toDirectoryResponse(h.directory.View()))
}

func (h *DirectoryHandler) CancelDelete(c *fiber.Ctx) error {
	if err := h.directory.CancelDelete(); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DirectoryHandler) DismissError(c *fiber.Ctx) error {
	h.directory.DismissError()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DirectoryHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	h.directory.AcknowledgeAlert()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DirectoryHandler) fail(c *fiber.Ctx, err error) error {
	var (
		merr *store.MutationError
		lerr *store.LoadError
	)

	switch {
	case errors.Is(err, store.ErrNameRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Name is required"})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, store.ErrNoPendingDelete),
		errors.Is(err, store.ErrDeleteInFlight),
		errors.Is(err, store.ErrTokenMismatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidPage), errors.Is(err, store.ErrInvalidPageSize):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &merr), errors.As(err, &lerr):
		view := toDirectoryResponse(h.directory.View())
		msg := view.Alert
		if lerr != nil {
			msg = view.Error
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg, "details": err.Error(), "view": view})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
