// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package api exposes the inference pipeline over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/platewise/internal/buildinfo"
	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/inference"
	"github.com/platewise/platewise/internal/metrics"
)

// Server hosts the HTTP surface over one pipeline.
type Server struct {
	cfg      *config.Config
	pipeline *inference.Pipeline
	metrics  *metrics.Metrics
}

// NewServer creates the HTTP server wrapper.
func NewServer(cfg *config.Config, p *inference.Pipeline, m *metrics.Metrics) *Server {
	return &Server{cfg: cfg, pipeline: p, metrics: m}
}

// Engine builds the gin engine with all routes and middleware attached.
func (s *Server) Engine() *gin.Engine {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware())

	engine.GET("/health", s.handleHealth)

	v1 := engine.Group("/v1")
	if s.cfg.AuthRequired() {
		v1.Use(s.authMiddleware())
	}
	v1.POST("/inference", s.handleInference)
	v1.GET("/metrics", s.handleMetrics)

	return engine
}

// requestIDMiddleware tags every request with an ID, honoring one supplied
// by the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// authMiddleware enforces the configured inbound API keys.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !s.cfg.HasAPIKey(strings.TrimSpace(token)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}

// handleInference runs the pipeline. The pipeline never fails outright, so
// this endpoint answers 200 with a structured body even when the payload
// degraded to fallback; only malformed request bodies get a 400.
func (s *Server) handleInference(c *gin.Context) {
	var req inference.InferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	resp := s.pipeline.RunInference(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}
