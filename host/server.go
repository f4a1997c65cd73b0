package host

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripscheduler/db"
	"tripscheduler/logging"
)

// Server exposes a Registry over local HTTP, the bridge a desktop shell uses
// to trigger commands.
type Server struct {
	Registry *Registry
	Store    db.Store
	log      *zap.SugaredLogger
}

func NewServer(reg *Registry, store db.Store, log *zap.SugaredLogger) *Server {
	return &Server{Registry: reg, Store: store, log: logging.OrNop(log)}
}

// Handler returns the routes of the bridge.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), requestLogging(s.log), gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/commands", s.handleCommands)
	r.POST("/invoke/:name", s.handleInvoke)
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("host listening", "addr", addr, "commands", s.Registry.Names())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.Store.Ping(c.Request.Context()); err != nil {
		s.log.Errorw("health check: db ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": s.Registry.Names()})
}

func (s *Server) handleInvoke(c *gin.Context) {
	name := c.Param("name")
	if !s.Registry.Has(name) {
		c.JSON(http.StatusNotFound, Result{Error: name + ": " + ErrUnknownCommand.Error()})
		return
	}
	// Commands outlive the request that started them.
	res := s.Registry.Invoke(context.WithoutCancel(c.Request.Context()), name)
	if !res.OK {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
