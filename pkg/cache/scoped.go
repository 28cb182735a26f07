package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each server
// instance or tenant its own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MatrixKey implements Keyer.
func (k *ScopedKeyer) MatrixKey(scenarioHash string, opts MatrixKeyOpts) string {
	return k.prefix + k.inner.MatrixKey(scenarioHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(matrixHash, opts)
}
