package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered tree.
	ArtifactKey(opts ArtifactKeyOpts) string
	// DataKey identifies a derived table (such as a usage table) computed
	// from formula data with the given hash.
	DataKey(kind, dataHash string) string
}

// ArtifactKeyOpts lists everything that changes the bytes of a rendered tree.
type ArtifactKeyOpts struct {
	DataHash  string // Hash of the formula data the tree was built from
	Kind      string // "recipe" or "usage"
	Component string // Canonical component name
	Format    string // "svg" or "dot"
	Direction string // Graph rank direction, e.g. "TB"
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts.DataHash, opts.Kind, opts.Component, opts.Format, opts.Direction)
}

// DataKey returns "data:<kind>:<sha256>".
func (DefaultKeyer) DataKey(kind, dataHash string) string {
	return hashKey("data:"+kind, dataHash)
}
