package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/config"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/teststubs"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/testutil"
)

func TestNewServerWithMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	cfg := config.Config{
		Metrics:  config.MetricsConfig{Enabled: true},
		Provider: "mock",
	}

	srv := newServerWithMetrics(cfg, nil, &teststubs.StubGateway{}, nil)
	if srv.metrics == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server after setup failure")
	}
}

func TestNewServerWithMetricsEnabledBuildsServer(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}

	cfg := config.Config{Metrics: config.MetricsConfig{Enabled: true, Port: "9999"}}
	srv := newServerWithMetrics(cfg, nil, &teststubs.StubGateway{}, nil)
	if srv.metricsServer == nil || srv.metricsServer.Addr() != ":9999" {
		t.Fatalf("expected metrics server on :9999, got %+v", srv.metricsServer)
	}
	if srv.metricsStop == nil {
		t.Fatalf("expected metrics shutdown hook")
	}
}

func TestNewServerWithMetricsDisabledSkipsSetup(t *testing.T) {
	cfg := config.Config{
		Metrics:  config.MetricsConfig{Enabled: false},
		Provider: "mock",
	}

	srv := newServerWithMetrics(cfg, nil, &teststubs.StubGateway{}, nil)
	if srv.metrics == nil {
		t.Fatalf("expected recorder to be set even when metrics disabled")
	}
}

func TestNewServerWithMetricsUsesInjectedRecorder(t *testing.T) {
	rec, shutdown := testutil.NewRecorderWithShutdown()
	cfg := config.Config{
		Metrics:  config.MetricsConfig{Enabled: true},
		Provider: "mock",
	}

	srv := newServerWithMetrics(cfg, nil, &teststubs.StubGateway{}, rec)
	if srv.metrics != rec {
		t.Fatalf("expected injected recorder to be used")
	}
	if srv.metricsStop != nil {
		t.Fatalf("expected no shutdown hook for injected recorder")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected injected shutdown to succeed, got %v", err)
	}
}
