// Package metrics counts and times the requests huectl makes to the bridge.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/dokzlo13/huectl/internal/hue"
)

const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeCanceled       = "canceled"
)

// Recorder holds the bridge request metrics on its own registry
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huectl_bridge_requests_total",
				Help: "Requests sent to the Hue bridge.",
			},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "huectl_bridge_request_duration_seconds",
				Help:    "Round trip time of Hue bridge requests.",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
	}
	r.registry.MustRegister(r.requests)
	r.registry.MustRegister(r.duration)
	return r
}

// Registry exposes the underlying registry for gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Requests returns the request counter
func (r *Recorder) Requests() *prometheus.CounterVec {
	return r.requests
}

// Observe records one finished request
func (r *Recorder) Observe(method string, took time.Duration, err error) {
	r.requests.WithLabelValues(method, outcomeOf(err)).Inc()
	r.duration.WithLabelValues(method).Observe(took.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeTransportError
	}
}

// Push sends the collected metrics to a Prometheus Pushgateway
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(r.registry).PushContext(ctx)
}

type instrumented struct {
	next     hue.Transport
	recorder *Recorder
}

// Instrument wraps t so every request is counted and timed
func Instrument(t hue.Transport, r *Recorder) hue.Transport {
	return &instrumented{next: t, recorder: r}
}

func (i *instrumented) Get(ctx context.Context, path string) ([]byte, error) {
	return i.observe(http.MethodGet, func() ([]byte, error) { return i.next.Get(ctx, path) })
}

func (i *instrumented) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return i.observe(http.MethodPost, func() ([]byte, error) { return i.next.Post(ctx, path, body) })
}

func (i *instrumented) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	return i.observe(http.MethodPut, func() ([]byte, error) { return i.next.Put(ctx, path, body) })
}

func (i *instrumented) Delete(ctx context.Context, path string) ([]byte, error) {
	return i.observe(http.MethodDelete, func() ([]byte, error) { return i.next.Delete(ctx, path) })
}

func (i *instrumented) observe(method string, call func() ([]byte, error)) ([]byte, error) {
	start := time.Now()
	resp, err := call()
	i.recorder.Observe(method, time.Since(start), err)
	return resp, err
}
