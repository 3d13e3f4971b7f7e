package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"academy/internal/app/config"
	"academy/internal/app/handler"
	"academy/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handler.Handler
	Auth    *middleware.AuthMiddleware

	shutdown []func(ctx context.Context) error
}

// NewApp restricts client IP resolution to Config.TrustedProxies. An empty
// list trusts no proxy, so forwarded headers never override RemoteAddr.
func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, auth *middleware.AuthMiddleware) (*Application, error) {
	if err := r.SetTrustedProxies(c.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return &Application{
		Config:  c,
		Router:  r,
		Handler: h,
		Auth:    auth,
	}, nil
}

// OnShutdown registers cleanup run after the HTTP server stops, in order
func (a *Application) OnShutdown(fn func(ctx context.Context) error) {
	a.shutdown = append(a.shutdown, fn)
}

// RunApp serves until SIGINT/SIGTERM, then drains in-flight requests and
// runs the shutdown hooks within Config.ShutdownTimeout.
func (a *Application) RunApp() error {
	logrus.Info("Server start up")

	a.Router.Use(middleware.CORS(a.Config.CORS))
	a.Handler.RegisterRoutes(a.Router, a.Auth)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:    serverAddress,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, fn := range a.shutdown {
		if err := fn(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	logrus.Info("Server down")
	return errors.Join(errs...)
}
