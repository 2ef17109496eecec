package main

import (
	"context"
	"fmt"

	"github.com/nikbrunner/sl/internal/httpapi"
	"golang.org/x/sync/errgroup"
)

// runServe serves the HTTP API until ctx is cancelled.
func runServe(ctx context.Context) error {
	a, err := setup(ctx, setupParams{logNotices: true})
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log.Named("http")
	srv := httpapi.NewServer(a.cfg.HTTP.Addr, httpapi.NewRouter(a.svc, log), log)

	changes, err := a.svc.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to changes: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				log.Debug("shortlinks changed")
			}
		}
	})

	return g.Wait()
}
