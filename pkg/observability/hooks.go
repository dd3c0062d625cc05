// Package observability provides hooks for metrics and logging integrations.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hosts can register hooks
// at startup to receive events about ingestion, layout computation, engine
// transitions, and persistence operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by the host (main), never by library packages, which
// avoids import cycles and keeps the engine free of observability framework
// dependencies.
//
// # Usage
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    // ... run application
//	}
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Ingest Hooks
// =============================================================================

// IngestHooks receives events from data ingestion.
type IngestHooks interface {
	// OnIngestStart records the beginning of a data load.
	OnIngestStart(projectCount int)

	// OnIngestComplete records a finished data load with canonical counts.
	OnIngestComplete(clusters, nodes, edges, droppedEdges int)
}

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the transform state machine.
type EngineHooks interface {
	// OnTransform records a mode or collapse transition and its generation token.
	OnTransform(mode string, collapsed bool, generation uint64)

	// OnAnimationComplete records the settling of all in-flight animations.
	OnAnimationComplete(generation uint64, duration time.Duration)

	// OnQuery records a query/filter evaluation and its match count.
	OnQuery(query, filter string, matched int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from persistence operations.
type StoreHooks interface {
	// OnStoreGet records a read, with whether the key was present.
	OnStoreGet(key string, found bool)

	// OnStoreSet records a write and its payload size.
	OnStoreSet(key string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopIngestHooks is a no-op implementation of IngestHooks.
type NoopIngestHooks struct{}

func (NoopIngestHooks) OnIngestStart(int)                   {}
func (NoopIngestHooks) OnIngestComplete(int, int, int, int) {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnTransform(string, bool, uint64)          {}
func (NoopEngineHooks) OnAnimationComplete(uint64, time.Duration) {}
func (NoopEngineHooks) OnQuery(string, string, int)               {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreGet(string, bool) {}
func (NoopStoreHooks) OnStoreSet(string, int)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	ingestHooks IngestHooks = NoopIngestHooks{}
	engineHooks EngineHooks = NoopEngineHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetIngestHooks registers custom ingest hooks.
// This should be called once at application startup before any data loads.
func SetIngestHooks(h IngestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ingestHooks = h
	}
}

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before engine use.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before store use.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Ingest returns the registered ingest hooks.
func Ingest() IngestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ingestHooks
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	ingestHooks = NoopIngestHooks{}
	engineHooks = NoopEngineHooks{}
	storeHooks = NoopStoreHooks{}
}
