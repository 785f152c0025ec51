package zxing

import "sync"

// AssetResolver maps a runtime asset request to the path the engine should
// load it from. requested is the bare asset filename, defaultPrefix the
// location the engine would use on its own.
type AssetResolver func(requested, defaultPrefix string) string

var (
	assetMu       sync.RWMutex
	assetResolver AssetResolver
)

// SetRuntimeAssetOverride registers a process-wide resolver consulted when an
// engine locates its binary runtime assets at initialization time.
//
// The registration is global: it affects every engine instance in the
// process, has no undo, and calling it again is last-write-wins. Callers that
// need an override must register it before constructing any engine.
func SetRuntimeAssetOverride(r AssetResolver) {
	assetMu.Lock()
	defer assetMu.Unlock()
	assetResolver = r
}

// ResolveRuntimeAsset resolves an asset request through the registered
// resolver, or returns defaultPrefix+requested when none is registered.
// Engines backed by a native runtime call this while initializing; the
// bundled pure-Go engine has no runtime asset to load.
func ResolveRuntimeAsset(requested, defaultPrefix string) string {
	assetMu.RLock()
	r := assetResolver
	assetMu.RUnlock()
	if r == nil {
		return defaultPrefix + requested
	}
	return r(requested, defaultPrefix)
}
