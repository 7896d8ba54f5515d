package api

import (
	"net/http"

	"dispatch-server/internal/auth"
	callsHandler "dispatch-server/internal/calls/handler"
	configurationsHandler "dispatch-server/internal/configurations/handler"
	webhooksHandler "dispatch-server/internal/webhooks/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router                *gin.RouterGroup
	authMiddleware        auth.Middleware
	callsHandler          callsHandler.Handler
	webhooksHandler       webhooksHandler.Handler
	configurationsHandler configurationsHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authMiddleware auth.Middleware,
	callsHandler callsHandler.Handler,
	webhooksHandler webhooksHandler.Handler,
	configurationsHandler configurationsHandler.Handler,
) API {
	return API{
		router:                router,
		authMiddleware:        authMiddleware,
		callsHandler:          callsHandler,
		webhooksHandler:       webhooksHandler,
		configurationsHandler: configurationsHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		callsGroup := apiGroup.Group("/calls")
		callsGroup.POST("/initiate", a.callsHandler.HandleInitiatePhoneCall)
		callsGroup.POST("/initiate-web", a.callsHandler.HandleInitiateWebCall)
		callsGroup.GET("", a.callsHandler.HandleListCalls)
		callsGroup.GET("/:call_id", a.callsHandler.HandleGetCall)
	}
	{
		webhooksGroup := apiGroup.Group("/webhooks")
		webhooksGroup.POST("/provider", a.webhooksHandler.HandleProviderEvent)
	}
	{
		configurationsGroup := apiGroup.Group("/configurations")
		configurationsGroup.GET("", a.configurationsHandler.HandleListConfigurations)
		configurationsGroup.GET("/:scenario_type", a.configurationsHandler.HandleGetConfiguration)
		configurationsGroup.POST("", a.authMiddleware.Handle, a.configurationsHandler.HandleSaveConfiguration)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
