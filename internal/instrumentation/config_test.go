package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER", "TRACING_EXPORTER",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_TRACES_SAMPLER_ARG",
		"METRICS_DETAILED_LABELS",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "mcp-k8s-workloads" {
		t.Errorf("expected ServiceName to be 'mcp-k8s-workloads', got %s", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter to be 'prometheus', got %s", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter to be 'none', got %s", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate to be 0.1, got %f", config.TraceSamplingRate)
	}
	if config.DetailedLabels {
		t.Error("expected DetailedLabels to be false by default")
	}
}

func TestDefaultConfigWithEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("METRICS_DETAILED_LABELS", "1")

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName to be 'test-service', got %s", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true")
	}
	if config.MetricsExporter != "stdout" {
		t.Errorf("expected MetricsExporter to be 'stdout', got %s", config.MetricsExporter)
	}
	if config.TracingExporter != "otlp" {
		t.Errorf("expected TracingExporter to be 'otlp', got %s", config.TracingExporter)
	}
	if config.OTLPEndpoint != "http://localhost:4318" {
		t.Errorf("unexpected OTLPEndpoint %s", config.OTLPEndpoint)
	}
	if !config.OTLPInsecure {
		t.Error("expected OTLPInsecure to be true")
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate to be 0.5, got %f", config.TraceSamplingRate)
	}
	if !config.DetailedLabels {
		t.Error("expected DetailedLabels to be true")
	}
}

func TestDefaultConfigInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "maybe")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "lots")

	config := DefaultConfig()
	if config.Enabled {
		t.Error("invalid bool should fall back to false")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("invalid float should fall back to 0.1, got %f", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "disabled ignores everything", config: Config{Enabled: false, MetricsExporter: "bogus"}},
		{name: "prometheus", config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone}},
		{name: "stdout both", config: Config{Enabled: true, MetricsExporter: ExporterStdout, TracingExporter: ExporterStdout, TraceSamplingRate: 1}},
		{name: "otlp with endpoint", config: Config{Enabled: true, MetricsExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"}},
		{name: "otlp without endpoint", config: Config{Enabled: true, TracingExporter: ExporterOTLP}, wantErr: true},
		{name: "unknown metrics exporter", config: Config{Enabled: true, MetricsExporter: "statsd"}, wantErr: true},
		{name: "unknown tracing exporter", config: Config{Enabled: true, TracingExporter: "jaeger"}, wantErr: true},
		{name: "sampling above one", config: Config{Enabled: true, TraceSamplingRate: 1.5}, wantErr: true},
		{name: "negative sampling", config: Config{Enabled: true, TraceSamplingRate: -0.1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
