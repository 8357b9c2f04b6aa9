// Package remotetest provides an in-memory twin of the remote users
// collection. It keeps insertion order, assigns sequential string ids the way
// mockapi does, and supports per-operation fault injection.
package remotetest

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"student-directory/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type Server struct {
	URL string

	srv     *httptest.Server
	mu      sync.Mutex
	records []model.Record
	counter int
	faults  map[string][]int
	calls   map[string]int
	now     func() time.Time
}

// NewServer starts the twin and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		faults: make(map[string][]int),
		calls:  make(map[string]int),
		now:    time.Now,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(s.faultInjection)
	app.Get("/users", s.list)
	app.Post("/users", s.create)
	app.Put("/users/:id", s.update)
	app.Delete("/users/:id", s.delete)

	s.srv = httptest.NewServer(adaptor.FiberApp(app))
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Seed replaces the collection. Records without an id are assigned one, and
// later ids are issued past the largest numeric id seeded.
func (s *Server) Seed(records ...model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if n, err := strconv.Atoi(string(r.ID)); err == nil && n > s.counter {
			s.counter = n
		}
	}
	s.records = make([]model.Record, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = s.nextID()
		}
		s.records = append(s.records, r)
	}
}

func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.counter = 0
	s.faults = make(map[string][]int)
	s.calls = make(map[string]int)
}

// FailNext makes the next request for op answer with status.
func (s *Server) FailNext(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], status)
}

// Calls returns how many requests reached op, including injected failures.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *Server) Records() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Server) nextID() model.RecordID {
	s.counter++
	return model.RecordID(strconv.Itoa(s.counter))
}

func (s *Server) indexOf(id string) int {
	for i, r := range s.records {
		if string(r.ID) == id {
			return i
		}
	}
	return -1
}

func opFor(c *fiber.Ctx) string {
	switch c.Method() {
	case fiber.MethodGet:
		return OpList
	case fiber.MethodPost:
		return OpCreate
	case fiber.MethodPut:
		return OpUpdate
	case fiber.MethodDelete:
		return OpDelete
	}
	return ""
}

func (s *Server) faultInjection(c *fiber.Ctx) error {
	op := opFor(c)

	s.mu.Lock()
	s.calls[op]++
	var status int
	if queued := s.faults[op]; len(queued) > 0 {
		status = queued[0]
		s.faults[op] = queued[1:]
	}
	s.mu.Unlock()

	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": "injected failure"})
	}
	return c.Next()
}

func (s *Server) list(c *fiber.Ctx) error {
	return c.JSON(s.Records())
}

func (s *Server) create(c *fiber.Ctx) error {
	var d model.Draft
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	s.mu.Lock()
	rec := model.Record{ID: s.nextID(), Name: d.Name, Avatar: d.Avatar, CreatedAt: d.CreatedAt}
	if rec.CreatedAt == "" {
		rec.CreatedAt = model.Timestamp(s.now())
	}
	s.records = append(s.records, rec)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (s *Server) update(c *fiber.Ctx) error {
	var d model.Draft
	if err := json.Unmarshal(c.Body(), &d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(c.Params("id"))
	if i < 0 {
		return c.Status(fiber.StatusNotFound).JSON("Not found")
	}
	rec := s.records[i]
	rec.Name, rec.Avatar, rec.CreatedAt = d.Name, d.Avatar, d.CreatedAt
	s.records[i] = rec
	return c.JSON(rec)
}

func (s *Server) delete(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(c.Params("id"))
	if i < 0 {
		return c.Status(fiber.StatusNotFound).JSON("Not found")
	}
	rec := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return c.JSON(rec)
}
