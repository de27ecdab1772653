package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ca-srg/hexocat/internal/types"
)

func TestInitExportsToOTLPHTTP(t *testing.T) {
	var traceRequests atomic.Int32
	var metricRequests atomic.Int32

	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/traces":
			traceRequests.Add(1)
		case "/v1/metrics":
			metricRequests.Add(1)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(collector.Close)

	cfg := &types.Config{
		OTelEnabled:              true,
		OTelServiceName:          "hexocat-test",
		OTelExporterOTLPEndpoint: collector.URL,
		OTelExporterOTLPProtocol: "http/protobuf",
		OTelResourceAttributes:   "deployment.environment=test",
		OTelTracesSampler:        "always_on",
	}

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)

	ctx := context.Background()
	_, span := otel.Tracer("hexocat/test").Start(ctx, "test-span")
	span.End()

	counter, err := otel.Meter("hexocat/test").Int64Counter("hexocat.test.counter", metric.WithDescription("test counter"))
	require.NoError(t, err)
	counter.Add(ctx, 1)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, shutdown(shutdownCtx))

	require.GreaterOrEqual(t, traceRequests.Load(), int32(1), "no trace export received")
	require.GreaterOrEqual(t, metricRequests.Load(), int32(1), "no metric export received")
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), &types.Config{OTelEnabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := LoadConfig(&types.Config{})
		require.NoError(t, err)
		assert.Equal(t, "hexocat", c.ServiceName)
		assert.Equal(t, "http/protobuf", c.Protocol)
		assert.Equal(t, "always_on", c.Sampler)
		assert.Equal(t, "hexocat", c.ResourceAttributes["service.name"])
	})

	t.Run("enabled requires endpoint", func(t *testing.T) {
		_, err := LoadConfig(&types.Config{OTelEnabled: true})
		require.Error(t, err)
	})

	t.Run("http protocol requires scheme", func(t *testing.T) {
		_, err := LoadConfig(&types.Config{OTelEnabled: true, OTelExporterOTLPEndpoint: "collector:4318"})
		require.Error(t, err)
	})

	t.Run("grpc accepts host port", func(t *testing.T) {
		c, err := LoadConfig(&types.Config{
			OTelEnabled:              true,
			OTelExporterOTLPEndpoint: "collector:4317",
			OTelExporterOTLPProtocol: "GRPC",
		})
		require.NoError(t, err)
		assert.Equal(t, "grpc", c.Protocol)
	})

	t.Run("unsupported protocol", func(t *testing.T) {
		_, err := LoadConfig(&types.Config{
			OTelEnabled:              true,
			OTelExporterOTLPEndpoint: "http://collector:4318",
			OTelExporterOTLPProtocol: "http/json",
		})
		require.Error(t, err)
	})

	t.Run("ratio sampler bounds", func(t *testing.T) {
		_, err := LoadConfig(&types.Config{
			OTelEnabled:              true,
			OTelExporterOTLPEndpoint: "http://collector:4318",
			OTelTracesSampler:        "traceidratio",
			OTelTracesSamplerArg:     1.5,
		})
		require.Error(t, err)
	})

	t.Run("bad resource attribute", func(t *testing.T) {
		_, err := LoadConfig(&types.Config{OTelResourceAttributes: "novalue"})
		require.Error(t, err)
	})
}

func TestSignalURL(t *testing.T) {
	testcases := []struct {
		name     string
		endpoint string
		suffix   string
		want     string
		wantErr  bool
	}{
		{name: "no path appends suffix", endpoint: "https://collector:4318", suffix: "/v1/metrics", want: "https://collector:4318/v1/metrics"},
		{name: "prefix path kept", endpoint: "https://example.com/otlp", suffix: "/v1/traces", want: "https://example.com/otlp/v1/traces"},
		{name: "trailing slash ignored", endpoint: "https://example.com/otlp/", suffix: "/v1/metrics", want: "https://example.com/otlp/v1/metrics"},
		{name: "suffix already present", endpoint: "https://example.com/v1/metrics", suffix: "/v1/metrics", want: "https://example.com/v1/metrics"},
		{name: "query string preserved", endpoint: "https://example.com/otlp?token=abc", suffix: "/v1/traces", want: "https://example.com/otlp/v1/traces?token=abc"},
		{name: "empty endpoint", endpoint: "", suffix: "/v1/metrics", wantErr: true},
	}

	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := signalURL(tt.endpoint, tt.suffix)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGRPCEndpoint(t *testing.T) {
	endpoint, insecure, err := parseGRPCEndpoint("collector:4317")
	require.NoError(t, err)
	assert.Equal(t, "collector:4317", endpoint)
	assert.True(t, insecure)

	endpoint, insecure, err = parseGRPCEndpoint("https://collector:4317")
	require.NoError(t, err)
	assert.Equal(t, "collector:4317", endpoint)
	assert.False(t, insecure)

	_, _, err = parseGRPCEndpoint("ftp://collector:4317")
	require.Error(t, err)

	_, _, err = parseGRPCEndpoint("collector")
	require.Error(t, err)
}
