package config

// Data source defaults.
const (
	DefaultDataSource  = "data.json"
	DefaultDataTimeout = 30
)

// Server defaults.
const (
	DefaultServerListen = ":8080"
	DefaultServerTitle  = "Sprint Metrics"
)

// Dashboard defaults.
const (
	DefaultDashboardTheme = ThemeDark
)

// Telemetry defaults.
const (
	DefaultTelemetryLogLevel    = LogLevelInfo
	DefaultTelemetrySampleRatio = 0.0
)
