package plotpage

// Theme represents a color theme for the dashboard.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background   string
	Surface      string
	SurfaceHover string
	Border       string
	BorderSubtle string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent colors.
	Accent       string
	AccentHover  string
	AccentSubtle string
	AccentText   string

	// Semantic colors.
	Success       string
	SuccessSubtle string
	Warning       string
	WarningSubtle string
	Error         string
	ErrorSubtle   string
	Info          string
	InfoSubtle    string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// SeriesColors fixes the chart color per series role. Roles, not series
// names, own their color: earned effort is always sky, actual cost rose,
// planned emerald, the ideal reference amber.
type SeriesColors struct {
	Earned  string
	Cost    string
	Planned string
	Ideal   string
	Marker  string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

// GetSeriesColors returns the fixed series role colors for a given theme.
func GetSeriesColors(theme Theme) SeriesColors {
	switch theme {
	case ThemeDark:
		return darkSeriesColors
	case ThemeLight:
		return lightSeriesColors
	default:
		return lightSeriesColors
	}
}

var lightTheme = ThemeConfig{
	// Base - warm neutrals.
	Background:   "#fafaf9", // stone-50.
	Surface:      "#ffffff",
	SurfaceHover: "#f5f5f4", // stone-100.
	Border:       "#e7e5e4", // stone-200.
	BorderSubtle: "#d6d3d1", // stone-300.

	// Text.
	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.

	// Accent.
	Accent:       "#a16207", // amber-700.
	AccentHover:  "#854d0e", // amber-800.
	AccentSubtle: "#fef3c7", // amber-100.
	AccentText:   "#ffffff",

	// Semantic.
	Success:       "#16a34a", // green-600.
	SuccessSubtle: "#dcfce7", // green-100.
	Warning:       "#ca8a04", // yellow-600.
	WarningSubtle: "#fef9c3", // yellow-100.
	Error:         "#dc2626", // red-600.
	ErrorSubtle:   "#fee2e2", // red-100.
	Info:          "#2563eb", // blue-600.
	InfoSubtle:    "#dbeafe", // blue-100.

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4", // stone-200.
	ChartAxis:       "#a8a29e", // stone-400.
	ChartText:       "#44403c", // stone-700.
	ChartTextMuted:  "#78716c", // stone-500.

	EChartsTheme: "",
}

var darkTheme = ThemeConfig{
	// Base - dark warm neutrals.
	Background:   "#0c0a09", // stone-950.
	Surface:      "#1c1917", // stone-900.
	SurfaceHover: "#292524", // stone-800.
	Border:       "#44403c", // stone-700.
	BorderSubtle: "#57534e", // stone-600.

	// Text.
	TextPrimary:   "#fafaf9", // stone-50.
	TextSecondary: "#d6d3d1", // stone-300.
	TextMuted:     "#a8a29e", // stone-400.

	// Accent.
	Accent:       "#d97706", // amber-600.
	AccentHover:  "#f59e0b", // amber-500.
	AccentSubtle: "#451a03", // amber-950.
	AccentText:   "#ffffff",

	// Semantic.
	Success:       "#22c55e", // green-500.
	SuccessSubtle: "#14532d", // green-900.
	Warning:       "#eab308", // yellow-500.
	WarningSubtle: "#422006", // yellow-950.
	Error:         "#ef4444", // red-500.
	ErrorSubtle:   "#450a0a", // red-950.
	Info:          "#3b82f6", // blue-500.
	InfoSubtle:    "#1e3a8a", // blue-900.

	// Chart.
	ChartBackground: "transparent",
	ChartGrid:       "#44403c", // stone-700.
	ChartAxis:       "#57534e", // stone-600.
	ChartText:       "#d6d3d1", // stone-300.
	ChartTextMuted:  "#a8a29e", // stone-400.

	EChartsTheme: "",
}

var lightSeriesColors = SeriesColors{
	Earned:  "#0284c7", // sky-600.
	Cost:    "#e11d48", // rose-600.
	Planned: "#059669", // emerald-600.
	Ideal:   "#d97706", // amber-600.
	Marker:  "#78716c", // stone-500.
}

var darkSeriesColors = SeriesColors{
	Earned:  "#38bdf8", // sky-400.
	Cost:    "#fb7185", // rose-400.
	Planned: "#34d399", // emerald-400.
	Ideal:   "#fbbf24", // amber-400.
	Marker:  "#a8a29e", // stone-400.
}
