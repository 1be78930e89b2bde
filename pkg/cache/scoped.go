package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Servers sharing one
// Redis database use it to keep their namespaces apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "anemcalc:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}

// DataKey returns the prefixed data key.
func (k *ScopedKeyer) DataKey(kind, dataHash string) string {
	return k.prefix + k.inner.DataKey(kind, dataHash)
}
