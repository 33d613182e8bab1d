// Package api exposes the policy table and the pipeline counters over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/xerrors"

	"xdpwall/config"
	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/handler"
	"xdpwall/infrastructure/log"
)

// PolicyView is the read side of the policy table.
type PolicyView interface {
	Entries() []entity.PolicyEntry
	Len() int
	Capacity() int
}

// Updater accepts policy commands on behalf of the single writer.
type Updater interface {
	Submit(ctx context.Context, cmd valueobject.Command) error
	Stats() handler.UpdaterStats
}

// Dataplane reports the state of the record source.
type Dataplane interface {
	Attached() bool
	Lost() uint64
	Decisions() map[string]uint64
}

type Server struct {
	ctx        context.Context
	addr       string
	policies   PolicyView
	updater    Updater
	dataplane  Dataplane
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer builds the API. Requests still waiting on the updater are released once ctx is done.
func NewServer(ctx context.Context, addr string, policies PolicyView, updater Updater, dataplane Dataplane) *Server {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		ctx:       ctx,
		addr:      addr,
		policies:  policies,
		updater:   updater,
		dataplane: dataplane,
		router:    gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background. A listen failure is reported on the returned channel.
func (s *Server) Start() <-chan error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	log.Logger.Infof("starting API server on %s", s.addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !xerrors.Is(err, http.ErrServerClosed) {
			errCh <- xerrors.Errorf("failed to serve API: %w", err)
		}
		close(errCh)
	}()
	return errCh
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Logger.Infof("shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return xerrors.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.getHealth)

		policies := v1.Group("/policies")
		{
			policies.GET("", s.listPolicies)
			policies.POST("", s.createPolicy)
		}

		v1.GET("/stats", s.getStats)
	}
}
