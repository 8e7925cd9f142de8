package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/shared/server/middleware"
	"fms-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	coachID := middleware.CoachIDFromContext(c)
	if coachID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"coachId": coachID,
	}
	if email := middleware.CoachEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.CoachNameFromContext(c); name != "" {
		response["name"] = name
	}

	respond.JSON(c, http.StatusOK, response)
}
