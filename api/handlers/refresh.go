package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
)

type RefreshResponse struct {
	ID string `json:"id"`
}

type RefreshStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

func SetupRefresh(router *gin.Engine, logger logger.Logger, service *directory.Service) {
	router.POST("/refresh", handleRefresh(service, logger))
	router.GET("/refresh/:id", handleGetRefreshStatus(service, logger))
	router.GET("/status", handleStatus(service))
}

func handleRefresh(service *directory.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		if err := service.Refresh(requestID); err != nil {
			logger.Warn("could not start refresh", "request_id", requestID, "err", err.Error())
			writeError(c, err)
			return
		}

		writeResponse(c, RefreshResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleGetRefreshStatus(service *directory.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")
		if _, err := uuid.Parse(requestID); err != nil {
			logger.Warn("invalid refresh request id", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{"invalid refresh request id"})
			return
		}

		progress, err := service.RefreshStatus(requestID)
		if err != nil {
			logger.Warn("could not get refresh status", "request_id", requestID, "err", err.Error())
			writeError(c, err)
			return
		}

		writeResponse(c, RefreshStatusResponse{ID: requestID, Progress: progress}, http.StatusOK, nil)
	}
}

func handleStatus(service *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, service.Status(), http.StatusOK, nil)
	}
}
