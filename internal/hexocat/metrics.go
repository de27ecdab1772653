package hexocat

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type outcome string

const (
	outcomeHelp          outcome = "help"
	outcomeResults       outcome = "results"
	outcomeEmpty         outcome = "empty"
	outcomeUpstreamError outcome = "upstream_error"
	outcomeForbidden     outcome = "forbidden"
	outcomeBadRequest    outcome = "bad_request"
)

var (
	metricsOnce     sync.Once
	requestCounter  metric.Int64Counter
	searchHistogram metric.Float64Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter("hexocat/handler")

		var err error
		requestCounter, err = meter.Int64Counter(
			"hexocat.requests.total",
			metric.WithDescription("Slash command requests by outcome"),
		)
		if err != nil {
			log.Printf("observability: failed to create request counter: %v", err)
		}

		searchHistogram, err = meter.Float64Histogram(
			"hexocat.search.duration",
			metric.WithDescription("GitHub repository search latency (ms)"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			log.Printf("observability: failed to create search histogram: %v", err)
		}
	})
}

func recordOutcome(ctx context.Context, o outcome) {
	initMetrics()
	if requestCounter != nil {
		requestCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(o))))
	}
}

func recordSearchDuration(ctx context.Context, d time.Duration, failed bool) {
	initMetrics()
	if searchHistogram != nil {
		searchHistogram.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(attribute.Bool("error", failed)))
	}
}
