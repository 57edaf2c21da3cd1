package report

import (
	"errors"
	"net/http"

	httperr "github.com/aevon-lab/toppick/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all report API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/reports", s.HandleListReports)
	r.GET("/v1/reports/:name", s.HandleRunReport)
}

// HandleListReports handles GET /v1/reports
func (s *Service) HandleListReports(c *gin.Context) {
	defs, err := s.Definitions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list reports",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ListReportsResponse{Reports: defs})
}

// HandleRunReport handles GET /v1/reports/:name
// Query parameters: limit
func (s *Service) HandleRunReport(c *gin.Context) {
	var uri struct {
		Name string `uri:"name" binding:"required"`
	}
	var query struct {
		Limit int `form:"limit" binding:"min=0"`
	}

	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid path parameters",
			Details:   err.Error(),
		})
		return
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	result, err := s.Run(c.Request.Context(), uri.Name, query.Limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownReport):
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpReportNotFoundError,
				Message:   "Report not found",
				Details:   err.Error(),
			})
		case errors.Is(err, ErrInvalidQuery):
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid report query",
				Details:   err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   "Failed to run report",
				Details:   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
