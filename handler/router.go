package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/middleware"
	"github.com/venkatramks/legal-ai-frontend/store"
)

// NewRouter builds the reference backend's HTTP surface.
func NewRouter(cfg *config.ServerConfig, st *store.Store, objects store.ObjectStore) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(300, time.Minute))

	documents := NewDocumentHandler(st, objects)
	process := NewProcessHandler(st, objects, cfg.Processing)
	chat := NewChatHandler(st, cfg.OpenAI)
	analysis := NewAnalysisHandler(st)
	auth := NewAuthHandler(cfg)

	api := r.Group("/api")
	api.POST("/auth/login", auth.Login)

	protected := api.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(&cfg.Auth))
		protected.GET("/auth/me", auth.GetCurrentUser)
	}

	protected.GET("/documents", documents.List)
	protected.POST("/upload", documents.Upload)

	protected.POST("/process/:fileId", process.Start)
	protected.GET("/process/status/:fileId", process.Status)

	protected.GET("/chat/:documentId/history", chat.History)
	protected.POST("/chat/:documentId", chat.Send)
	protected.DELETE("/chats/:documentId", chat.Delete)

	protected.GET("/analysis/clauses/:documentId", analysis.Analyze)
	protected.GET("/analysis/clauses/:documentId/persisted", analysis.Persisted)
	protected.POST("/analysis/clauses/:documentId/persist", analysis.Persist)
	protected.POST("/analysis/clauses/:documentId/undo", analysis.Undo)

	protected.POST("/what-if-scenarios", analysis.WhatIfScenarios)
	protected.POST("/legal-knowledge-graph", analysis.LegalReferences)

	return r
}
