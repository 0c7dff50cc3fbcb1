package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/app/services"
	"github.com/mberk/coursedex/internal/middleware"
)

// NetworkController handles network listing
type NetworkController struct {
	catalogService *services.CatalogService
}

// NewNetworkController creates a new NetworkController
func NewNetworkController(catalogService *services.CatalogService) *NetworkController {
	return &NetworkController{
		catalogService: catalogService,
	}
}

// GetNetworks lists every known catalog network.
func (c *NetworkController) GetNetworks(ctx *gin.Context) {
	networks, err := c.catalogService.Networks(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, dto.NewAPIResponse(networks))
}
