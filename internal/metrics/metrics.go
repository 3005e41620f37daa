// Package metrics exposes request and domain counters in Prometheus format
// through the OpenTelemetry metric SDK.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var latencyBoundaries = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

var (
	methodKey = attribute.Key("method")
	routeKey  = attribute.Key("route")
	statusKey = attribute.Key("status")
	kindKey   = attribute.Key("kind")
)

type Metrics struct {
	exporter *prometheus.Exporter

	requests        metric.Int64Counter
	latency         metric.Float64ValueRecorder
	articlesCreated metric.Int64Counter
	commentsCreated metric.Int64Counter
}

// New builds a pull based exporter. Nothing is registered globally; the
// returned value is the only handle to the instruments.
func New(serviceName string) (*Metrics, error) {
	config := prometheus.Config{DefaultHistogramBoundaries: latencyBoundaries}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}

	meter := metric.Must(exporter.MeterProvider().Meter(serviceName))

	return &Metrics{
		exporter: exporter,
		requests: meter.NewInt64Counter(
			"http_server_requests",
			metric.WithDescription("Count of completed requests, by method, route and response status"),
		),
		latency: meter.NewFloat64ValueRecorder(
			"http_server_duration_seconds",
			metric.WithDescription("Request handling time in seconds"),
		),
		articlesCreated: meter.NewInt64Counter(
			"blog_articles_created",
			metric.WithDescription("Articles stored"),
		),
		commentsCreated: meter.NewInt64Counter(
			"blog_comments_created",
			metric.WithDescription("Comments stored, by root or reply"),
		),
	}, nil
}

func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	labels := []attribute.KeyValue{
		methodKey.String(method),
		routeKey.String(route),
		statusKey.String(strconv.Itoa(status)),
	}
	m.requests.Add(ctx, 1, labels...)
	m.latency.Record(ctx, elapsed.Seconds(), labels...)
}

func (m *Metrics) ArticleCreated(ctx context.Context) {
	m.articlesCreated.Add(ctx, 1)
}

func (m *Metrics) CommentCreated(ctx context.Context, reply bool) {
	kind := "root"
	if reply {
		kind = "reply"
	}
	m.commentsCreated.Add(ctx, 1, kindKey.String(kind))
}

// ServeHTTP renders the current values for a Prometheus scrape.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.exporter.ServeHTTP(w, r)
}
