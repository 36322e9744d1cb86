// Package daemon is the local HTTP relay started by "atlantic watch --serve".
// It exposes the watcher's last known status, the favorite locations and
// the recent log buffer to local tools such as a tray icon or a browser tab.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/atlanticproxy/atlantic/internal/common"
	"github.com/atlanticproxy/atlantic/internal/config"
	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatusProvider is implemented by *agent.Watcher.
type StatusProvider interface {
	Snapshot() models.WatchSnapshot
}

// FavoritesStore is implemented by *sessions.Session.
type FavoritesStore interface {
	Favorites() ([]string, error)
	AddFavorite(code string) ([]string, error)
	RemoveFavorite(code string) ([]string, error)
}

// LogSource is implemented by the config ring logger.
type LogSource interface {
	GetEventsWithFilter(filter config.LogFilter) []*models.LogEntry
}

type Server struct {
	config    *config.Config
	status    StatusProvider
	favorites FavoritesStore
	logs      LogSource
	limiter   *RateLimiter

	startTime     time.Time
	totalRequests int64

	server *http.Server
}

func NewServer(cfg *config.Config, status StatusProvider, favorites FavoritesStore, logs LogSource) *Server {
	return &Server{
		config:    cfg,
		status:    status,
		favorites: favorites,
		logs:      logs,
		limiter:   NewRateLimiter(5.0, 10, nil),
		startTime: time.Now().UTC(),
	}
}

func (s *Server) TotalRequests() int64 {
	return atomic.LoadInt64(&s.totalRequests)
}

// Router builds the gin engine without binding a listener.
func (s *Server) Router() *gin.Engine {

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithField("panic", recovered).Errorln("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}))
	router.Use(requestIDMiddleware())
	router.Use(s.requestCounterMiddleware())
	router.Use(corsMiddleware(s.config.Server.CORS.AllowedOrigins))

	router.GET("/health", s.healthHandler)
	router.GET("/status", s.statusHandler)
	router.GET("/logs", s.logsHandler)

	router.GET("/favorites", s.getFavorites)
	router.POST("/favorites", s.limiter.Middleware(), s.postFavorite)
	router.DELETE("/favorites/:code", s.limiter.Middleware(), s.deleteFavorite)

	return router
}

// Start binds the relay address and serves in the background.
func (s *Server) Start() error {

	gin.SetMode(gin.ReleaseMode)

	addr := s.config.GetServerAddress()

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.server = server

	errChan := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start relay on %s: %w", addr, err)
	case <-time.After(100 * time.Millisecond):
		logrus.WithField("address", addr).Infoln("Local relay listening")
		return nil
	}
}

func (s *Server) Stop() {

	s.limiter.Stop()

	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warnln("Relay shutdown did not complete cleanly")
	}
	logrus.Infoln("Local relay stopped")
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  common.GetVersion(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
		"requests": s.TotalRequests(),
	})
}
