package workout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/shared/server/middleware"
	"fms-backend/internal/shared/server/respond"
	"fms-backend/internal/upstream"
)

// Reader is the read-only slice of the persistence service the proxy
// endpoints need.
type Reader interface {
	Assessments(ctx context.Context, studentID string) (json.RawMessage, error)
	Workouts(ctx context.Context, studentID string) (json.RawMessage, error)
	Student(ctx context.Context, studentID string) (json.RawMessage, error)
}

type Handler struct {
	Saga    *Coordinator
	Records Reader
}

func NewHandler(saga *Coordinator, records Reader) *Handler {
	return &Handler{Saga: saga, Records: records}
}

// RegisterRoutes mounts the workflow endpoints. throttle guards the two
// saga entry points; read-backs stay unthrottled.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, throttle gin.HandlerFunc) {
	rg.POST("/students/:id/assessments/submit", throttle, h.submit)
	rg.POST("/students/:id/workouts/generate", throttle, h.generate)
	rg.GET("/students/:id", h.student)
	rg.GET("/students/:id/assessments", h.assessments)
	rg.GET("/students/:id/workouts", h.workouts)
}

func (h *Handler) submit(c *gin.Context) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	c.Set("sagaStage", string(StageSubmitting))

	result, err := h.Saga.Submit(h.upstreamContext(c), studentID)
	if err != nil {
		h.sagaError(c, err)
		return
	}
	c.Set("sagaStage", string(result.Stage))
	respond.OK(c, result)
}

type generateRequest struct {
	CalculatedScores map[string]any `json:"calculated_scores"`
}

func (h *Handler) generate(c *gin.Context) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid scores payload", nil)
			return
		}
	}
	c.Set("sagaStage", string(StageGenerating))

	result, err := h.Saga.Generate(h.upstreamContext(c), studentID, req.CalculatedScores)
	if err != nil {
		h.sagaError(c, err)
		return
	}
	c.Set("sagaStage", string(result.Stage))
	respond.OK(c, result)
}

func (h *Handler) student(c *gin.Context) {
	h.proxy(c, h.Records.Student)
}

func (h *Handler) assessments(c *gin.Context) {
	h.proxy(c, h.Records.Assessments)
}

func (h *Handler) workouts(c *gin.Context) {
	h.proxy(c, h.Records.Workouts)
}

func (h *Handler) proxy(c *gin.Context, fetch func(context.Context, string) (json.RawMessage, error)) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	raw, err := fetch(h.upstreamContext(c), studentID)
	if err != nil {
		h.sagaError(c, err)
		return
	}
	respond.Raw(c, http.StatusOK, raw)
}

// upstreamContext forwards the coach's own bearer token so upstream audit
// trails show the coach, not the service account.
func (h *Handler) upstreamContext(c *gin.Context) context.Context {
	return upstream.ContextWithToken(c.Request.Context(), middleware.BearerTokenFromContext(c))
}

func (h *Handler) sagaError(c *gin.Context, err error) {
	var orphan *OrphanedGenerationError
	if errors.As(err, &orphan) {
		details := gin.H{"workout": orphan.Workout}
		var stageErr *StageError
		if errors.As(orphan.Err, &stageErr) {
			details["stage"] = stageErr.Stage
			details["return_to"] = stageErr.ReturnTo
		}
		respond.Error(c, http.StatusBadGateway, "orphaned_generation",
			"workout generated but could not be linked to a saved assessment; review and retry", details)
		return
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		details := gin.H{"stage": stageErr.Stage, "return_to": stageErr.ReturnTo}
		if stageErr.Hint != "" {
			details["hint"] = stageErr.Hint
		}
		var upErr *upstream.Error
		if errors.As(stageErr.Err, &upErr) {
			details["service"] = upErr.Service
			if upErr.Transport() {
				respond.Error(c, http.StatusBadGateway, "upstream_unreachable",
					upErr.Service+" could not be reached", details)
				return
			}
			details["upstream_status"] = upErr.Status
			respond.Error(c, http.StatusBadGateway, "upstream_failure",
				upErr.Service+" rejected the request", details)
			return
		}
		respond.Error(c, http.StatusBadGateway, "stage_failed", stageErr.Error(), details)
		return
	}

	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		if upErr.Transport() {
			respond.Error(c, http.StatusBadGateway, "upstream_unreachable",
				upErr.Service+" could not be reached", gin.H{"service": upErr.Service})
			return
		}
		respond.Error(c, http.StatusBadGateway, "upstream_failure",
			upErr.Service+" rejected the request",
			gin.H{"service": upErr.Service, "upstream_status": upErr.Status})
		return
	}

	switch {
	case errors.Is(err, ErrBusy):
		respond.Error(c, http.StatusConflict, "run_in_flight", err.Error(), nil)
	case errors.Is(err, ErrNoScores):
		respond.Error(c, http.StatusConflict, "no_reviewed_scores", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "workflow failed", nil)
	}
}

func studentIDParam(c *gin.Context) (string, bool) {
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing student id", []map[string]string{
			{"field": "id", "issue": "required"},
		})
		return "", false
	}
	c.Set("studentId", studentID)
	return studentID, true
}
