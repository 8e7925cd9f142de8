package assessment

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/shared/server/respond"
	"fms-backend/internal/shared/telemetry"
)

// Handler exposes the draft store over HTTP so the web client can read and
// write in-progress assessments.
type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/students/:id/draft", h.getDraft)
	rg.PUT("/students/:id/draft", h.putDraft)
	rg.DELETE("/students/:id/draft", h.deleteDraft)
}

func (h *Handler) getDraft(c *gin.Context) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	d, err := h.Store.Load(c.Request.Context(), studentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load draft", nil)
		return
	}
	respond.OK(c, d)
}

func (h *Handler) putDraft(c *gin.Context) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	var d Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid draft payload", nil)
		return
	}
	if err := h.Store.Save(c.Request.Context(), studentID, d); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save draft", nil)
		return
	}
	telemetry.Info("draft.saved", map[string]any{
		"student_id": studentID,
		"request_id": c.GetString("requestId"),
	})
	respond.OK(c, Normalize(d))
}

func (h *Handler) deleteDraft(c *gin.Context) {
	studentID, ok := studentIDParam(c)
	if !ok {
		return
	}
	if err := h.Store.Discard(c.Request.Context(), studentID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to discard draft", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func studentIDParam(c *gin.Context) (string, bool) {
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing student id", []map[string]string{
			{"field": "id", "issue": "required"},
		})
		return "", false
	}
	return studentID, true
}
