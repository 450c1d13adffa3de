package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/versioning"
	"github.com/armon/go-metrics"
	prometheusMetrics "github.com/armon/go-metrics/prometheus"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

const (
	serviceName        = "bridge-transparency"
	metricsServiceName = "bridge_transparency"
	defaultMetricsPath = "/metrics"

	inmemInterval  = 10 * time.Second
	inmemRetention = time.Minute
	readTimeout    = 60 * time.Second
)

// TelemetryConfig selects where dashboard metrics are exposed. Empty addresses disable the exporter.
type TelemetryConfig struct {
	PrometheusAddr string `json:"prometheusAddr"` // e.g. 0.0.0.0:5001
	MetricsPath    string `json:"metricsPath"`
	DataDogAddr    string `json:"dataDogAddr"` // e.g. localhost:8126
}

func (c *TelemetryConfig) FillOut() {
	if c.MetricsPath == "" {
		c.MetricsPath = defaultMetricsPath
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		c.MetricsPath = "/" + c.MetricsPath
	}
}

// Telemetry publishes the refresh cycle gauges to prometheus and profiles the process on datadog
type Telemetry struct {
	prometheusServer *http.Server
	config           TelemetryConfig
	logger           hclog.Logger
}

func NewTelemetry(config TelemetryConfig, logger hclog.Logger) *Telemetry {
	config.FillOut()

	return &Telemetry{
		config: config,
		logger: logger,
	}
}

func (t *Telemetry) Start() error {
	if !t.IsEnabled() {
		return nil
	}

	if err := setupMetrics(); err != nil {
		return fmt.Errorf("could not setup metrics sink: %w", err)
	}

	if t.config.DataDogAddr != "" {
		if err := t.startDataDog(); err != nil {
			return err
		}
	}

	if t.config.PrometheusAddr != "" {
		t.prometheusServer = newPrometheusServer(t.config.PrometheusAddr, t.config.MetricsPath)

		go t.servePrometheus()
	}

	return nil
}

func (t *Telemetry) Close(ctx context.Context) error {
	if t.config.DataDogAddr != "" {
		profiler.Stop()
		tracer.Stop()
	}

	if t.prometheusServer == nil {
		return nil
	}

	t.logger.Info("Stopping metrics server", "addr", t.prometheusServer.Addr)

	return t.prometheusServer.Shutdown(ctx)
}

func (t *Telemetry) IsEnabled() bool {
	return t.config.DataDogAddr != "" || t.config.PrometheusAddr != ""
}

func (t *Telemetry) servePrometheus() {
	t.logger.Info("Serving dashboard metrics", "addr", t.config.PrometheusAddr, "path", t.config.MetricsPath)

	err := t.prometheusServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.logger.Error("Metrics server failed", "err", err)
	}
}

func (t *Telemetry) startDataDog() error {
	err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithVersion(versioning.Version),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			profiler.GoroutineProfile,
			profiler.MetricsProfile,
		),
		profiler.WithAgentAddr(t.config.DataDogAddr),
	)
	if err != nil {
		return fmt.Errorf("could not start datadog profiler: %w", err)
	}

	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithServiceVersion(versioning.Version),
		tracer.WithAgentAddr(t.config.DataDogAddr),
	)

	t.logger.Info("DataDog profiler started", "addr", t.config.DataDogAddr)

	return nil
}

// setupMetrics routes go-metrics gauges to an in-memory sink (dumped on SIGUSR1) and to prometheus
func setupMetrics() error {
	inm := metrics.NewInmemSink(inmemInterval, inmemRetention)
	metrics.DefaultInmemSignal(inm)

	promSink, err := prometheusMetrics.NewPrometheusSinkFrom(prometheusMetrics.PrometheusOpts{
		Name: metricsServiceName + "_prometheus_sink",
	})
	if err != nil {
		return err
	}

	metricsConf := metrics.DefaultConfig(metricsServiceName)
	metricsConf.EnableHostname = false
	metricsConf.EnableRuntimeMetrics = false

	_, err = metrics.NewGlobal(metricsConf, metrics.FanoutSink{inm, promSink})

	return err
}

func newPrometheusServer(addr string, metricsPath string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}),
	))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
	}
}
