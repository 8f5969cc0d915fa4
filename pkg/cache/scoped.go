package cache

// ScopedKeyer prefixes every key of an inner Keyer. Servers sharing one Redis
// use it to keep deployments (or catalog versions) apart:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "floorgen:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey implements Keyer.
func (k *ScopedKeyer) GraphKey(configHash string, rooms []string) string {
	return k.prefix + k.inner.GraphKey(configHash, rooms)
}

// RenderKey implements Keyer.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
