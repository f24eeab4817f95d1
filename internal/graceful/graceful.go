package graceful

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Operation releases one resource during shutdown.
type Operation func(ctx context.Context) error

// Shutdown waits for ctx to be cancelled, usually by signal.NotifyContext,
// then runs every operation concurrently with timeout to finish. The
// returned channel is closed once all operations have returned.
func Shutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, logger *slog.Logger) <-chan struct{} {
	log := logger.With(slog.String("op", "graceful.Shutdown"))

	wait := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info("shutting down", slog.Duration("timeout", timeout))

		ctxTimeout, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		var wg sync.WaitGroup
		for key, op := range ops {
			wg.Add(1)
			go func() {
				defer wg.Done()

				if err := op(ctxTimeout); err != nil {
					log.Error("clean up failed", slog.String("process", key), slog.String("error", err.Error()))
					return
				}
				log.Info("shutdown gracefully", slog.String("process", key))
			}()
		}

		wg.Wait()
		log.Info("graceful shutdown completed")
		close(wait)
	}()

	return wait
}
