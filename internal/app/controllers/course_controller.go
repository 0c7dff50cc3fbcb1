package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/app/services"
	"github.com/mberk/coursedex/internal/middleware"
)

// CourseController handles course search requests
type CourseController struct {
	searchService *services.SearchService
}

// NewCourseController creates a new CourseController
func NewCourseController(searchService *services.SearchService) *CourseController {
	return &CourseController{
		searchService: searchService,
	}
}

// SearchCourses answers a faceted course search. The response is the paging
// envelope around pre-rendered course documents; a callback query parameter
// switches the response to JSONP for cross-origin embedding.
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid search parameters")
		errorDetail = errorDetail.WithDebugInfo("%v", err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// page is the offset expressed in pages; offset wins when both are set.
	if req.Offset == 0 {
		if page, ok := pageParam(ctx); ok {
			limit := req.Limit
			if limit <= 0 {
				limit = services.DefaultResultsPerPage
			}
			req.Offset = (page - 1) * limit
		}
	}

	envelope, err := c.searchService.Search(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, envelope)
}

// pageParam reads the 1-based page query parameter.
func pageParam(ctx *gin.Context) (int, bool) {
	var q struct {
		Page int `form:"page"`
	}
	if err := ctx.ShouldBindQuery(&q); err != nil || q.Page < 1 {
		return 0, false
	}
	return q.Page, true
}

// respond renders obj as JSON, or as JSONP when the request carries a
// callback parameter.
func respond(ctx *gin.Context, obj interface{}) {
	if ctx.Query("callback") != "" {
		ctx.JSONP(http.StatusOK, obj)
		return
	}
	ctx.JSON(http.StatusOK, obj)
}
