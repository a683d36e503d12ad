// Package api exposes the table tools and persistence over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/ai"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/export"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/middleware"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

// Options configures the router.
type Options struct {
	Store repository.Store
	AI    *ai.Service
	// Rasterizer renders PNG exports. Nil disables the png format.
	Rasterizer export.Rasterizer
	Logger     *zap.Logger
	// Registry receives the HTTP collectors and backs the metrics endpoint.
	// Nil disables metrics.
	Registry     *prometheus.Registry
	MetricsPath  string
	MaxBodyBytes int64
}

// Handler serves every API route.
type Handler struct {
	store      repository.Store
	ai         *ai.Service
	rasterizer export.Rasterizer
	metrics    *middleware.Metrics
	logger     *zap.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		store:      opts.Store,
		ai:         opts.AI,
		rasterizer: opts.Rasterizer,
		logger:     logger,
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(logger), middleware.Logger(logger))
	if opts.Registry != nil {
		h.metrics = middleware.NewMetrics(opts.Registry)
		r.Use(h.metrics.Handler())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	r.Use(middleware.BodyLimit(opts.MaxBodyBytes))

	h.RegisterRoutes(r.Group("/api"))
	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not found")
	})
	return r
}

// RegisterRoutes mounts the API on g.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/health", h.Health)

	tables := g.Group("/tables")
	tables.GET("", h.ListTables)
	tables.GET("/:id", h.GetTable)
	tables.POST("", h.CreateTable)
	tables.PUT("/:id", h.UpdateTable)
	tables.DELETE("/:id", h.DeleteTable)

	themes := g.Group("/themes")
	themes.GET("", h.ListThemes)
	themes.GET("/:id", h.GetTheme)
	themes.POST("", h.CreateTheme)
	themes.DELETE("/:id", h.DeleteTheme)

	g.POST("/ai/style-suggestions", h.StyleSuggestions)
	g.POST("/ai/analyze-table", h.AnalyzeTable)

	g.GET("/markdown/sample", h.SampleTable)
	g.POST("/markdown/parse", h.ParseMarkdown)
	g.POST("/markdown/reorder", h.ReorderTable)

	g.GET("/presets", h.ListPresets)
	g.GET("/presets/:key", h.GetPreset)
	g.POST("/render", h.Render)
	g.POST("/export/:format", h.Export)
}
