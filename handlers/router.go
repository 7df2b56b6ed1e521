package handlers

import (
	"net/http"

	"legalinsight-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router holds the handlers served by the API
type Router struct {
	Insights  *InsightHandler
	Assistant *AssistantHandler
	Library   *LibraryHandler
	History   *HistoryHandler
	Logger    *zap.Logger
}

// Engine builds the gin engine with every route registered
func (rt Router) Engine() *gin.Engine {
	log := rt.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", SessionMiddleware())
	{
		api.POST("/insights", rt.Insights.GetInsights)

		api.POST("/documents/summarize", rt.Assistant.Summarize)
		api.POST("/advice", rt.Assistant.Advise)

		api.POST("/library/documents", rt.Library.AddDocument)
		api.GET("/library/documents", rt.Library.ListDocuments)
		api.DELETE("/library/documents", rt.Library.ClearDocuments)
		api.POST("/library/upload", rt.Library.UploadFile)
		api.GET("/library/files", rt.Library.ListFiles)
		api.GET("/library/files/:id", rt.Library.GetFile)

		api.GET("/history", rt.History.ListHistory)
		api.DELETE("/history/:id", rt.History.DeleteHistory)
	}

	return r
}
