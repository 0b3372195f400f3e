package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/validation"
)

// HeaderCanonicalQuery carries the normalized filter query for bookmarking.
const HeaderCanonicalQuery = "X-Canonical-Query"

type ListDoctorsRequest struct {
	Search           string   `form:"search" validate:"max=200"`
	ConsultationType string   `form:"consultationType" validate:"valid_consultation"`
	Specialties      []string `form:"specialty" validate:"max=50,dive,max=200"`
	SortBy           string   `form:"sortBy" validate:"valid_sort"`
}

func newListDoctorsRequest(filters directory.FilterState) ListDoctorsRequest {
	return ListDoctorsRequest{
		Search:           filters.SearchQuery,
		ConsultationType: filters.ConsultationType,
		Specialties:      filters.Specialties,
		SortBy:           string(filters.SortBy),
	}
}

type DoctorResponse struct {
	Doctor directory.Doctor `json:"doctor"`
}

func SetupDoctors(router *gin.Engine, logger logger.Logger, service *directory.Service, validator *validation.Validator) {
	router.GET("/doctors", handleListDoctors(service, logger, validator))
	router.GET("/doctors/:id", handleGetDoctor(service, logger))
}

func handleListDoctors(service *directory.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := directory.ParseFilters(c.Request.URL.Query())

		if err := validator.Validate(newListDoctorsRequest(filters)); err != nil {
			logger.Warn("could not validate list doctors request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		result, err := service.List(filters)
		if err != nil {
			logger.Error("could not list doctors", "err", err.Error())
			writeError(c, err)
			return
		}

		c.Header(HeaderCanonicalQuery, result.Query)
		writeResponse(c, result, http.StatusOK, nil)
	}
}

func handleGetDoctor(service *directory.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		doctor, err := service.Get(id)
		if err != nil {
			logger.Warn("could not get doctor", "id", id, "err", err.Error())
			writeError(c, err)
			return
		}

		writeResponse(c, DoctorResponse{Doctor: doctor}, http.StatusOK, nil)
	}
}
