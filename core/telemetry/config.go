package telemetry

// Config holds metrics and tracing settings.
type Config struct {
	// MetricsEnabled exposes /metrics on the HTTP server.
	MetricsEnabled bool `mapstructure:"metrics_enabled" default:"true"`
	// OTLPEndpoint is the OTLP/gRPC collector address. Empty disables tracing.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" default:""`
	// Insecure disables TLS to the collector.
	Insecure bool `mapstructure:"insecure" default:"true"`
	// ServiceName is reported on every span.
	ServiceName string `mapstructure:"service_name" default:"presence-sync"`
	// SampleRatio is the fraction of traces kept.
	SampleRatio float64 `mapstructure:"sample_ratio" default:"1" validate:"gte=0,lte=1"`
}
