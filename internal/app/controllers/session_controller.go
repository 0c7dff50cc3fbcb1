package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/app/services"
	"github.com/mberk/coursedex/internal/middleware"
)

// SessionController handles session listing and lookup
type SessionController struct {
	catalogService *services.CatalogService
}

// NewSessionController creates a new SessionController
func NewSessionController(catalogService *services.CatalogService) *SessionController {
	return &SessionController{
		catalogService: catalogService,
	}
}

// GetSessions lists the active sessions of a network. With an explicit
// session parameter it returns that session's indexed document instead.
func (c *SessionController) GetSessions(ctx *gin.Context) {
	network := ctx.Query("network")
	if network == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "network parameter is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if session := ctx.Query("session"); session != "" {
		doc, err := c.catalogService.SessionDocument(ctx, network, session)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respond(ctx, doc)
		return
	}

	sessions, err := c.catalogService.Sessions(ctx, network)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, dto.NewAPIResponse(sessions))
}
