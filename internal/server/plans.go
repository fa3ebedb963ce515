package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/export"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
	"github.com/dusk-indust/eventplan/internal/status"
)

var (
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrListPlans   = errors.New("failed to list plans")
	ErrGetPlan     = errors.New("failed to get plan")
	ErrBatchSize   = errors.New("invalid batch size")
	ErrDeletePlan  = errors.New("failed to delete plan")
)

// createPlan runs one pipeline. A failed pipeline answers 502 with the
// error report so clients can tell provider failures from bad requests.
func (s *Server) createPlan(c *gin.Context) {
	var params orchestrator.EventParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	rec, err := s.planner.Plan(c.Request.Context(), params)
	if err != nil {
		s.writePlannerError(c, err)
		return
	}

	c.Header("X-Plan-ID", rec.ID)
	code := http.StatusOK
	if !rec.Succeeded() {
		code = http.StatusBadGateway
	}
	c.JSON(code, planBody(rec))
}

func (s *Server) createPlans(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}
	if len(req.Events) == 0 || len(req.Events) > s.maxBatch {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  fmt.Sprintf("%s: need 1 to %d events, got %d", ErrBatchSize, s.maxBatch, len(req.Events)),
			Status: http.StatusBadRequest,
		})
		return
	}

	results, err := s.planner.PlanBatch(c.Request.Context(), req.Events, req.Concurrency)
	if err != nil {
		s.writePlannerError(c, err)
		return
	}

	resp := BatchResponse{Plans: make([]map[string]string, 0, len(results))}
	for _, r := range results {
		resp.Plans = append(resp.Plans, planBody(r.Record))
	}
	resp.Count = len(resp.Plans)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listPlans(c *gin.Context) {
	recs, err := s.planner.List(c.Request.Context())
	if err != nil {
		s.writePlannerError(c, fmt.Errorf("%w: %w", ErrListPlans, err))
		return
	}

	resp := PlansListResponse{Plans: make([]PlanSummary, 0, len(recs))}
	for _, sum := range status.Summarize(recs) {
		resp.Plans = append(resp.Plans, PlanSummary{
			ID:        sum.ID,
			Topic:     sum.Topic,
			City:      sum.City,
			Date:      sum.Date,
			Status:    sum.Status,
			Detail:    sum.Detail,
			CreatedAt: sum.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	resp.Count = len(resp.Plans)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getPlan(c *gin.Context) {
	rec, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getPlanMarkdown(c *gin.Context) {
	rec, ok := s.lookup(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8",
		[]byte(export.Markdown(rec.Params, rec.Report)))
}

func (s *Server) deletePlan(c *gin.Context) {
	if err := s.planner.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writePlannerError(c, fmt.Errorf("%w: %w", ErrDeletePlan, err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) lookup(c *gin.Context) (*archive.Record, bool) {
	rec, err := s.planner.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writePlannerError(c, fmt.Errorf("%w: %w", ErrGetPlan, err))
		return nil, false
	}
	return rec, true
}

func (s *Server) writePlannerError(c *gin.Context, err error) {
	var ve *planner.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid event parameters",
			Status:  http.StatusBadRequest,
			Details: ve.Problems,
		})
	case errors.Is(err, archive.ErrInvalidID):
		writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, archive.ErrNotFound):
		writeError(c, http.StatusNotFound, err)
	case errors.Is(err, planner.ErrNoArchive):
		writeError(c, http.StatusNotImplemented, err)
	default:
		writeError(c, http.StatusInternalServerError, err)
	}
}

func writeError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{
		Error:  err.Error(),
		Status: code,
	})
}

// planBody is the report plus the run id.
func planBody(rec *archive.Record) map[string]string {
	body := rec.Report.AsMap()
	body["id"] = rec.ID
	return body
}
