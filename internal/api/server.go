// Package api exposes caption editing sessions over HTTP. Each session owns
// one editor.Store and requests against it are serialized.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/captionflow/captionflow/internal/config"
	"github.com/captionflow/captionflow/internal/logging"
)

type Server struct {
	cfg      *config.Config
	logger   *logging.Logger
	sessions *Sessions
	router   *gin.Engine
}

func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: NewSessions(cfg.ReadingSpeed, logger),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(corsMiddleware())

	r.GET("/health", s.healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions", s.createSession)
		v1.DELETE("/sessions/:sid", s.deleteSession)

		sess := v1.Group("/sessions/:sid")
		sess.GET("/captions", s.listCaptions)
		sess.POST("/captions", s.createCaption)
		sess.POST("/timed-captions", s.addTimed)
		sess.GET("/captions/:cid", s.getCaption)
		sess.PATCH("/captions/:cid/text", s.updateText)
		sess.PATCH("/captions/:cid/timing", s.updateTiming)
		sess.PATCH("/captions/:cid/style", s.updateStyle)
		sess.PATCH("/captions/:cid/speaker", s.updateSpeaker)
		sess.POST("/captions/:cid/split", s.split)
		sess.PUT("/style", s.updateGlobalStyle)
		sess.POST("/delete", s.deleteCaptions)

		sess.GET("/selection", s.getSelection)
		sess.PUT("/selection", s.setSelection)
		sess.DELETE("/selection", s.clearSelection)
		sess.POST("/merge", s.merge)

		sess.POST("/shift", s.shift)
		sess.POST("/stretch", s.stretch)
		sess.POST("/sort", s.sortByStart)
		sess.POST("/punctuate", s.autoPunctuate)
		sess.POST("/find-replace", s.findReplace)
		sess.POST("/profanity", s.profanity)

		sess.GET("/analysis", s.analysis)
		sess.POST("/undo", s.undo)
		sess.POST("/redo", s.redo)

		sess.POST("/import", s.importCaptions)
		sess.GET("/export", s.exportCaptions)

		v1.POST("/waveform", s.waveform)
		v1.POST("/timeline/time", s.timelineTime)
		v1.POST("/timeline/wheel", s.timelineWheel)
		v1.POST("/timeline/pan", s.timelinePan)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Server starting", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Infow("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("Request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
