package charts

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 20

// MaxBins caps user-supplied bin counts.
const MaxBins = 500

// defaultColors is the palette chart kinds draw from when no color is chosen.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#06B6D4",
}

// Option configures a chart build via the functional options pattern.
type Option func(*config)

type config struct {
	bins  int
	color string
}

// WithBins overrides the histogram bin count. Values below 1 keep the default.
func WithBins(n int) Option {
	return func(c *config) {
		if n >= 1 {
			if n > MaxBins {
				n = MaxBins
			}
			c.bins = n
		}
	}
}

// WithColor overrides the palette color
func WithColor(color string) Option {
	return func(c *config) {
		if color != "" {
			c.color = color
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{bins: DefaultBins}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
