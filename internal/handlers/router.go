package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	linkHandler *LinkHandler
	quizHandler *QuizHandler
}

func NewHandlerManager(
	linkService services.LinkService,
	quizService services.QuizService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		linkHandler: NewLinkHandler(linkService, logger),
		quizHandler: NewQuizHandler(quizService, importExportService, logger),
	}
}

// NewRouter builds the engine with the shared middleware stack.
func NewRouter(logger utils.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))
	router.Use(cors.New(corsConfig(corsOrigins)))
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "Retry-After", utils.RequestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		links := v1.Group("/links")
		{
			links.POST("", hm.linkHandler.CreateLink)
			links.GET("/resolve", hm.linkHandler.ResolveLink)
		}

		quiz := v1.Group("/quiz")
		{
			quiz.POST("/answer", hm.quizHandler.AnswerQuestion)
			quiz.POST("/hint", hm.quizHandler.RevealHint)
			quiz.POST("/import", hm.quizHandler.ImportQuiz)
			quiz.POST("/export", hm.quizHandler.ExportQuiz)
			quiz.GET("/template", hm.quizHandler.DownloadTemplate)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "valentine-service",
	})
}
