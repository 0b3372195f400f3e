package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/validation"
)

type SuggestionsRequest struct {
	Query string `form:"query" validate:"max=200"`
}

type SuggestionsResponse struct {
	Suggestions []directory.Suggestion `json:"suggestions"`
}

func SetupSuggestions(router *gin.Engine, logger logger.Logger, service *directory.Service, validator *validation.Validator) {
	router.GET("/suggestions", handleSuggestions(service, logger, validator))
}

func handleSuggestions(service *directory.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SuggestionsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from suggestions request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate suggestions request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		suggestions, err := service.Suggest(request.Query)
		if err != nil {
			logger.Error("could not suggest doctors", "err", err.Error())
			writeError(c, err)
			return
		}

		writeResponse(c, SuggestionsResponse{Suggestions: suggestions}, http.StatusOK, nil)
	}
}
