package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/api/handlers"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, service *directory.Service, validator *validation.Validator) {
	router.GET("/health", health())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/doctors")
	})

	handlers.SetupDoctors(router, logger, service, validator)
	handlers.SetupSuggestions(router, logger, service, validator)
	handlers.SetupSearch(router, logger, service, validator)
	handlers.SetupRefresh(router, logger, service)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
