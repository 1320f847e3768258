package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vladislavdragonenkov/orders-api/internal/service/orders"
	"github.com/vladislavdragonenkov/orders-api/internal/transport/ws"
)

// RouterConfig — настройки HTTP-роутера.
type RouterConfig struct {
	CORSOrigin string
}

// NewRouter собирает gin-роутер со всеми маршрутами API.
func NewRouter(svc *orders.Service, wsHandler *ws.Handler, cfg RouterConfig, logger *log.Entry) *gin.Engine {
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))
	if cfg.CORSOrigin != "" {
		router.Use(CORS(cfg.CORSOrigin))
	}

	handler := NewOrdersHandler(svc, logger)
	router.GET("/orders", handler.List)
	router.POST("/orders", handler.Create)
	router.GET("/orders/:id", handler.FindOne)
	router.PATCH("/orders/:id", handler.UpdateStatus)
	router.DELETE("/orders/:id", handler.Delete)

	if wsHandler != nil {
		router.GET("/ws/orders", gin.WrapF(wsHandler.ServeWS))
	}

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	return router
}
