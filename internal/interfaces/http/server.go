// Package http exposes the document wizard over a JSON API.
// It only translates requests into store, wizard and export calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-wizard/internal/application/docsync"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/application/validation"
	"github.com/garyjia/invoice-wizard/internal/application/wizard"
	"github.com/garyjia/invoice-wizard/internal/export"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Navigable is a history the client can step through
type Navigable interface {
	Back() (url.Values, bool)
	Forward() (url.Values, bool)
}

// Services are the application components behind the routes.
// Exports may be nil when no export log is configured. Ready reports whether
// the process has finished starting; nil means always ready.
type Services struct {
	Store      store.Store
	Navigator  wizard.Navigator
	Validator  validation.Validator
	Codec      *sharelink.Codec
	Reconciler *docsync.Reconciler
	History    Navigable
	Exporter   *export.Exporter
	Exports    port.ExportLog
	Ready      func() bool
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     port.Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger port.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// corsMiddleware lets a browser front end on another origin drive the wizard
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		doc := api.Group("/document")
		doc.GET("", h.GetDocument)
		doc.GET("/validation", h.ValidateDocument)
		doc.GET("/export.xlsx", h.ExportWorkbook)
		doc.POST("/reset", h.ResetDocument)
		doc.PUT("/type", h.SetDocumentType)
		doc.PUT("/step", h.SetStep)
		doc.PATCH("/meta", h.UpdateMeta)
		doc.POST("/invoice-number", h.GenerateInvoiceNumber)
		doc.PATCH("/client", h.UpdateClientInfo)
		doc.PATCH("/service", h.UpdateServiceDetails)
		doc.PATCH("/terms", h.UpdateTerms)
		doc.PATCH("/company", h.UpdateCompanyInfo)
		doc.PUT("/discount", h.SetDiscount)
		doc.POST("/line-items", h.AddLineItem)
		doc.PATCH("/line-items/:id", h.UpdateLineItem)
		doc.DELETE("/line-items/:id", h.RemoveLineItem)

		wiz := api.Group("/wizard")
		wiz.POST("/next", h.NextStep)
		wiz.POST("/back", h.PreviousStep)
		wiz.POST("/edit", h.EditStep)

		hist := api.Group("/history")
		hist.POST("/back", h.HistoryBack)
		hist.POST("/forward", h.HistoryForward)

		api.GET("/exports", h.ListExports)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
