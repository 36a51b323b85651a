package rest

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/pkg/httpx"
)

// Options — настройки маршрутизатора.
type Options struct {
	StaticDir    string   // пусто — статика не отдаётся
	ServiceName  string   // пусто — без otelgin
	CORSOrigins  []string // пусто — все origins
	RefreshRPS   float64  // лимит POST /api/feed/refresh; <= 0 — без лимита
	RefreshBurst int
}

type Handler struct {
	feed    ports.FeedService
	log     ports.Logger
	timeout time.Duration // на запросы, которые идут во внешнее API
}

func NewHandler(feed ports.FeedService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{feed: feed, log: log, timeout: timeout}
}

func NewRouter(h *Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	r.Use(httpx.CORS(opts.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	orders := api.Group("/orders")
	orders.GET("", h.listOrders)
	orders.GET("/assigned", h.assignedOrders)
	orders.GET("/:id", h.getOrder)
	orders.DELETE("/:id", h.removeOrder)
	orders.POST("/:id/accept", h.acceptOrder)

	notifications := api.Group("/notifications")
	notifications.GET("", h.listNotifications)
	notifications.GET("/active", h.activeNotification)
	notifications.POST("/active/dismiss", h.dismissActive)
	notifications.POST("/active/read", h.markActiveRead)
	notifications.POST("/active/accept", h.acceptActive)

	feed := api.Group("/feed")
	feed.POST("/refresh", httpx.RateLimit(opts.RefreshRPS, opts.RefreshBurst, h.log), h.refresh)
	feed.PUT("/service-area", h.changeServiceArea)
	feed.GET("/status", h.status)

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		r.StaticFile("/", filepath.Join(opts.StaticDir, "index.html"))
	}

	return r
}
