package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/validation"
)

const defaultResultsPerPage = 20

type SearchRequest struct {
	Query   string `form:"query" validate:"required,valid_query,min=1,max=1000"`
	PerPage int    `form:"per_page" validate:"min=0,max=100"`
	Page    int    `form:"page" validate:"min=0"`
}

func (r *SearchRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

type SearchResponse struct {
	Results     []directory.SearchHit `json:"results"`
	PageDetails Pagination            `json:"page_details"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *directory.Service, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))
}

func handleSearch(service *directory.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}
		request.setDefaults()

		limit := request.PerPage
		offset := (request.Page - 1) * request.PerPage
		results, err := service.Search(request.Query, limit, offset)
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			writeError(c, err)
			return
		}

		searchResponse := SearchResponse{
			Results:     results.Hits,
			PageDetails: calculatePagination(results.Total, limit, offset),
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
