package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/services/directory"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// writeError aborts the request with the status that matches err.
func writeError(c *gin.Context, err error) {
	c.Abort()
	writeResponse(c, nil, statusForError(err), []string{messageForError(err)})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, directory.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, directory.ErrDoctorNotFound), errors.Is(err, directory.ErrRefreshNotFound):
		return http.StatusNotFound
	case errors.Is(err, directory.ErrRefreshInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Known errors are reported without the wrapped detail.
func messageForError(err error) string {
	for _, known := range []error{
		directory.ErrNotLoaded,
		directory.ErrDoctorNotFound,
		directory.ErrRefreshNotFound,
		directory.ErrRefreshInProgress,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func calculatePagination(total, limit, offset int) Pagination {
	pageSize := limit
	currentPage := (offset / limit) + 1
	totalPages := (total + pageSize - 1) / pageSize

	if totalPages == 0 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		TotalResults: total,
	}
}
