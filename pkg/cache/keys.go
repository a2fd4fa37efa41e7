package cache

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// LayoutKey identifies a placement result for a scene.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered layout in one format.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the placement parameters that change a layout.
type LayoutKeyOpts struct {
	MaxAttempts  int     `json:"max_attempts"`
	GrowthFactor float64 `json:"growth_factor"`
	MinHeight    float64 `json:"min_height"`
	MinWidth     float64 `json:"min_width"`
	MaxHeight    float64 `json:"max_height"`
	MaxWidth     float64 `json:"max_width"`
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
	Labels bool    `json:"labels"`
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
