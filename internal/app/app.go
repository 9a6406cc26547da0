package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/spendcast/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, record store, router, and server lifecycle.
type Application struct {
	cfg        config.Application
	deps       *Dependencies
	router     *mux.Router
	srv        *http.Server
	closeStore func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	repo, closeStore, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(ctx, repo, cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r, deps)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv, closeStore: closeStore}, nil
}

func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully and releases the store.
func (a *Application) Run(ctx context.Context) error {
	defer a.closeStore()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the store of an application that is never Run.
func (a *Application) Close() {
	a.closeStore()
}
