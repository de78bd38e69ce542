package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/courierround/internal/ingest"
	"github.com/katalvlaran/courierround/internal/store"
	"github.com/katalvlaran/courierround/mutation"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/session"
	"github.com/katalvlaran/courierround/tsp"
)

// MaxTimeLimit is the largest per-courier budget a solve request may ask for.
const MaxTimeLimit = 2 * time.Minute

// writeMargin covers matrix builds and encoding on top of solver time.
const writeMargin = time.Minute

// SnapshotStore persists rounds. *store.SnapshotRepo implements it.
type SnapshotStore interface {
	Save(ctx context.Context, snap session.Snapshot) (store.SnapshotInfo, error)
	Load(ctx context.Context, id uuid.UUID) (session.Snapshot, error)
}

// Handler serves the session API.
type Handler struct {
	sessions  *session.Manager
	snapshots SnapshotStore
	validate  *validator.Validate
}

// NewHandler returns a Handler. snapshots may be nil: the snapshot routes
// then answer 501.
func NewHandler(sessions *session.Manager, snapshots SnapshotStore) *Handler {
	return &Handler{
		sessions:  sessions,
		snapshots: snapshots,
		validate:  validator.New(),
	}
}

// RegisterRoutes mounts every route on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	// Session lifecycle.
	g.POST("/sessions", h.CreateSession)
	g.DELETE("/sessions/:id", h.DeleteSession)

	// Round setup and solve.
	g.POST("/sessions/:id/deliveries", h.LoadDeliveries)
	g.PUT("/sessions/:id/couriers", h.SetCourierCount)
	g.POST("/sessions/:id/round", h.ComputeRound)
	g.GET("/sessions/:id/round", h.GetRound)
	g.GET("/sessions/:id/report", h.GetReport)

	// Edits.
	g.POST("/sessions/:id/mutations", h.ApplyMutation)
	g.POST("/sessions/:id/undo", h.Undo)
	g.POST("/sessions/:id/redo", h.Redo)
	g.GET("/sessions/:id/history", h.GetHistory)

	// Diagnostics.
	g.GET("/shortest-path", h.ShortestPath)

	// Persistence.
	g.POST("/sessions/:id/snapshots", h.SaveSnapshot)
	g.POST("/snapshots/:sid/restore", h.RestoreSnapshot)
}

func (h *Handler) session(c echo.Context) (*session.Session, error) {
	return h.sessions.Lookup(c.Param("id"))
}

// CreateSession reads a map file from the body and opens a session on it.
func (h *Handler) CreateSession(c echo.Context) error {
	g, err := ingest.LoadMap(c.Request().Body)
	if err != nil {
		return fail(c, err)
	}
	s, err := h.sessions.Create(g)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, SessionResponse{ID: s.ID.String(), Stats: g.Stats()})
}

// DeleteSession tears a session down.
func (h *Handler) DeleteSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	if err = h.sessions.Delete(s.ID); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LoadDeliveries reads a delivery file from the body. History is reset.
func (h *Handler) LoadDeliveries(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := ingest.LoadDeliveries(c.Request().Body, s.Graph())
	if err != nil {
		return fail(c, err)
	}
	if err = s.LoadDeliveries(d.Depot, d.Points); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, roundResponse(s, nil))
}

// SetCourierCount applies {count}.
func (h *Handler) SetCourierCount(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var req CourierCountRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = h.validate.Struct(req); err != nil {
		return badRequest(c, "validation failed: "+err.Error())
	}
	if err = s.SetCourierCount(req.Count); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, roundResponse(s, nil))
}

// ComputeRound solves the round. Couriers whose points are unreachable are
// listed in failures next to the tours of the others.
func (h *Handler) ComputeRound(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var req ComputeRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = h.validate.Struct(req); err != nil {
		return badRequest(c, "validation failed: "+err.Error())
	}
	kind, err := tsp.ParseKind(req.Strategy)
	if err != nil {
		return fail(c, err)
	}
	if req.Strategy == "" {
		kind = ""
	}

	budget := time.Duration(req.TimeLimitMs) * time.Millisecond
	// Solves run in waves; the server-wide write timeout may be shorter.
	deadline := time.Now().Add(s.SolveWindow(budget) + writeMargin)
	_ = http.NewResponseController(c.Response()).SetWriteDeadline(deadline)

	tours, err := s.ComputeRound(c.Request().Context(), budget, kind)
	if err != nil && tours == nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, roundResponse(s, err))
}

// GetRound returns the requests and the live tours.
func (h *Handler) GetRound(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, roundResponse(s, nil))
}

// GetReport returns the plain-text itinerary of every tour.
func (h *Handler) GetReport(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}

	return c.String(http.StatusOK, s.Report())
}

// ApplyMutation runs one edit through the session's undo log.
func (h *Handler) ApplyMutation(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	var req MutationRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = h.validate.Struct(req); err != nil {
		return badRequest(c, "validation failed: "+err.Error())
	}

	var cmd mutation.Command
	switch req.Kind {
	case "add":
		if req.Courier != nil {
			cmd = mutation.AddToCourier(req.Address, *req.Courier)
		} else {
			cmd = mutation.Add(req.Address)
		}
	case "delete":
		cmd = mutation.Delete(req.RequestID)
	case "depot":
		cmd = mutation.Depot(req.Address)
	}

	out, err := s.Apply(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// Undo reverts the last edit.
func (h *Handler) Undo(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := s.Undo(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// Redo re-applies the last undone edit.
func (h *Handler) Redo(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := s.Redo(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// GetHistory lists the undoable edits.
func (h *Handler) GetHistory(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]string{"history": s.History()})
}

// ShortestPath answers ?session=&from=&to= without solving anything.
func (h *Handler) ShortestPath(c echo.Context) error {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return badRequest(c, "from and to are required")
	}
	s, err := h.sessions.Lookup(c.QueryParam("session"))
	if err != nil {
		return fail(c, err)
	}
	length, secs, err := s.ShortestPath(from, to)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, PathResponse{From: from, To: to, Length: length, Sections: secs})
}

// SaveSnapshot persists the session's round.
func (h *Handler) SaveSnapshot(c echo.Context) error {
	if h.snapshots == nil {
		return c.JSON(http.StatusNotImplemented, ErrorResponse{Message: "snapshots are disabled"})
	}
	s, err := h.session(c)
	if err != nil {
		return fail(c, err)
	}
	info, err := h.snapshots.Save(c.Request().Context(), s.Snapshot())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, info)
}

// RestoreSnapshot opens a new session on the map of {session} and restores
// the snapshot into it.
func (h *Handler) RestoreSnapshot(c echo.Context) error {
	if h.snapshots == nil {
		return c.JSON(http.StatusNotImplemented, ErrorResponse{Message: "snapshots are disabled"})
	}
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		return badRequest(c, "invalid snapshot id")
	}
	var req RestoreRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = h.validate.Struct(req); err != nil {
		return badRequest(c, "validation failed: "+err.Error())
	}
	src, err := h.sessions.Lookup(req.Session)
	if err != nil {
		return fail(c, err)
	}
	snap, err := h.snapshots.Load(c.Request().Context(), sid)
	if err != nil {
		return fail(c, err)
	}

	s, err := h.sessions.Create(src.Graph())
	if err != nil {
		return fail(c, err)
	}
	if err = s.Restore(snap); err != nil {
		_ = h.sessions.Delete(s.ID)
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, roundResponse(s, nil))
}

func roundResponse(s *session.Session, solveErr error) RoundResponse {
	r := s.Round()
	resp := RoundResponse{
		Session:  s.ID.String(),
		Depot:    r.Depot,
		Couriers: len(r.Couriers),
		Requests: r.Requests,
		Tours:    r.Tours,
	}
	for _, e := range unwrapAll(solveErr) {
		var ce *round.CourierError
		if errors.As(e, &ce) {
			resp.Failures = append(resp.Failures, CourierFailure{Courier: ce.Courier, Message: ce.Err.Error()})
		}
	}

	return resp
}

func unwrapAll(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}

	return []error{err}
}
