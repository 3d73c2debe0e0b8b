// Package metrics publishes session counters and a health probe over a
// small ops HTTP endpoint, separate from the SSH listener.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements the application metrics sink on a prometheus
// registry.
type Recorder struct {
	active   prometheus.Gauge
	started  prometheus.Counter
	rejected prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "refinery",
			Name:      "sessions_active",
			Help:      "Sessions currently refining.",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "refinery",
			Name:      "sessions_started_total",
			Help:      "Sessions admitted since start.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "refinery",
			Name:      "sessions_rejected_total",
			Help:      "Connections refused because the floor was full.",
		}),
	}
	reg.MustRegister(r.active, r.started, r.rejected)
	return r
}

func (r *Recorder) SessionStarted(string) {
	r.active.Inc()
	r.started.Inc()
}

func (r *Recorder) SessionEnded(string) { r.active.Dec() }
func (r *Recorder) SessionRejected()    { r.rejected.Inc() }

// Router serves /healthz and /metrics for the given registry.
func Router(reg *prometheus.Registry, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(log.Handler(), slog.LevelError),
	}))
	return r
}

// Serve runs the ops endpoint until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(reg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ops endpoint: %w", err)
	}
}
