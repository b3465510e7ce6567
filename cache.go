package configmapper

import (
	"reflect"
	"sync"
)

type catalogKey struct {
	typ reflect.Type
	tag string
}

// catalogCache shares catalogs between ConfigMaps of the same type.
// Only catalogs built from zero values with the default formatter are
// cached: anything else depends on caller-provided state.
type catalogCache struct {
	cache sync.Map // map[catalogKey]Catalog
}

var catalogs = &catalogCache{}

// getOrBuild returns the cached catalog, building and storing it if
// needed.  Build errors are not cached.  Concurrent first calls may
// each build; the first one stored wins.
func (c *catalogCache) getOrBuild(key catalogKey, build func() (Catalog, error)) (Catalog, error) {
	if v, ok := c.cache.Load(key); ok {
		return v.(Catalog), nil
	}
	catalog, err := build()
	if err != nil {
		return Catalog{}, err
	}
	actual, _ := c.cache.LoadOrStore(key, catalog)
	return actual.(Catalog), nil
}
