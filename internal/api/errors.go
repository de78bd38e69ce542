package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/dijkstra"
	"github.com/katalvlaran/courierround/internal/ingest"
	"github.com/katalvlaran/courierround/internal/obs"
	"github.com/katalvlaran/courierround/internal/store"
	"github.com/katalvlaran/courierround/mutation"
	"github.com/katalvlaran/courierround/round"
	"github.com/katalvlaran/courierround/session"
	"github.com/katalvlaran/courierround/tsp"
)

// statusOf maps a domain error to an HTTP status and a retry hint.
func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, store.ErrSnapshotNotFound):
		return http.StatusNotFound, false

	case errors.Is(err, ingest.ErrMalformed),
		errors.Is(err, ingest.ErrNoWarehouse),
		errors.Is(err, ingest.ErrNoDeliveries),
		errors.Is(err, core.ErrEmptyGraph),
		errors.Is(err, core.ErrEmptyIntersectionID),
		errors.Is(err, core.ErrDuplicateIntersection),
		errors.Is(err, core.ErrBadLength),
		errors.Is(err, core.ErrUnknownIntersection),
		errors.Is(err, round.ErrUnknownRequest),
		errors.Is(err, round.ErrUnknownCourier),
		errors.Is(err, tsp.ErrUnknownStrategy),
		errors.Is(err, tsp.ErrBadOptions):
		return http.StatusBadRequest, false

	case errors.Is(err, mutation.ErrNothingToUndo),
		errors.Is(err, mutation.ErrNothingToRedo),
		errors.Is(err, session.ErrFingerprintMismatch):
		return http.StatusConflict, false

	case errors.Is(err, round.ErrInvalidCourierCount),
		errors.Is(err, round.ErrNoDepot),
		errors.Is(err, dijkstra.ErrUnreachable),
		errors.Is(err, tsp.ErrIncompleteGraph):
		return http.StatusUnprocessableEntity, false

	case errors.Is(err, tsp.ErrNoFeasibleSolutionWithinBudget):
		// A larger budget succeeds.
		return http.StatusUnprocessableEntity, true

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, true
	}

	return http.StatusInternalServerError, true
}

// fail writes err as an ErrorResponse.
func fail(c echo.Context, err error) error {
	status, retry := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] req_id=%s %s %s: %v", obs.RequestID(c.Request().Context()), c.Request().Method, c.Path(), err)
	}

	return c.JSON(status, ErrorResponse{Message: err.Error(), Retryable: retry})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}
