package radar

// Options holds the engine tuning values. Every field has a working default;
// construct overrides with the WithX option funcs.
type Options struct {
	FontSize        float64 // label text size in pixels
	CharWidthRatio  float64 // estimated glyph width as a fraction of FontSize
	LineHeightRatio float64 // line height as a fraction of FontSize
	Padding         float64 // inner padding between text and box edge

	CalloutThreshold        int // cluster size at which a callout forms
	CalloutReleaseThreshold int // size an existing callout may shrink to before releasing
	MaxCalloutLabels        int // callsigns shown per callout before "+N more"

	LeaderMargin            float64 // base anchor→label distance for leader slots
	ClusterHysteresisMargin float64 // extra movement needed to leave a cluster cell
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		FontSize:                12,
		CharWidthRatio:          0.6,
		LineHeightRatio:         1.3,
		Padding:                 4,
		CalloutThreshold:        4,
		CalloutReleaseThreshold: 3,
		MaxCalloutLabels:        5,
		LeaderMargin:            12,
		ClusterHysteresisMargin: 16,
	}
}

// Option mutates a single configuration value. Options are applied in order
// at construction (NewEngine) or merged later (UpdateOptions).
type Option func(*Options)

// WithFontSize sets the label text size in pixels. Default 12.
func WithFontSize(px float64) Option {
	return func(o *Options) { o.FontSize = px }
}

// WithCharWidthRatio sets the estimated glyph width as a fraction of the font
// size, used when no measure function is installed. Default 0.6.
func WithCharWidthRatio(r float64) Option {
	return func(o *Options) { o.CharWidthRatio = r }
}

// WithLineHeightRatio sets the line height as a fraction of the font size.
// Default 1.3.
func WithLineHeightRatio(r float64) Option {
	return func(o *Options) { o.LineHeightRatio = r }
}

// WithPadding sets the inner padding between text and box edge. Default 4.
func WithPadding(px float64) Option {
	return func(o *Options) { o.Padding = px }
}

// WithCalloutThreshold sets the cluster size at which a stacked callout
// forms. Default 4.
func WithCalloutThreshold(n int) Option {
	return func(o *Options) { o.CalloutThreshold = n }
}

// WithCalloutReleaseThreshold sets the size an existing callout may shrink to
// before it releases back to individual labels. Must be at most the formation
// threshold for the hysteresis to bite. Default 3.
func WithCalloutReleaseThreshold(n int) Option {
	return func(o *Options) { o.CalloutReleaseThreshold = n }
}

// WithMaxCalloutLabels sets how many callsigns a callout shows before the
// remainder folds into a "+N more" line. Default 5.
func WithMaxCalloutLabels(n int) Option {
	return func(o *Options) { o.MaxCalloutLabels = n }
}

// WithLeaderMargin sets the base anchor→label distance for leader-line
// candidate slots; the search rings are multiples of it. Default 12.
func WithLeaderMargin(px float64) Option {
	return func(o *Options) { o.LeaderMargin = px }
}

// WithClusterHysteresisMargin sets how far past the half-cell boundary an
// anchor must move before it is reassigned to a new cluster cell. Default 16.
func WithClusterHysteresisMargin(px float64) Option {
	return func(o *Options) { o.ClusterHysteresisMargin = px }
}
