// Package server runs the public API, the ops endpoints and the weekly
// scheduler until the context is cancelled.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"luckystat/internal/config"
	"luckystat/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful stop of the servers and the scheduler
const shutdownTimeout = 15 * time.Second

// Run serves until ctx is done or a server fails
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	gin.SetMode(cfg.Server.GinMode)

	c, err := container.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	apiServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.APIServer().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	opsServer := &http.Server{
		Addr:              ":" + cfg.Server.OpsPort,
		Handler:           c.OpsApp().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if c.Scheduler != nil {
		c.Scheduler.Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listen(apiServer, log.WithField("server", "api")) })
	g.Go(func() error { return listen(opsServer, log.WithField("server", "ops")) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		var firstErr error
		for _, srv := range []*http.Server{apiServer, opsServer} {
			if err := srv.Shutdown(stopCtx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if err := c.Shutdown(stopCtx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	})

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listen(srv *http.Server, log logrus.FieldLogger) error {
	log.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
