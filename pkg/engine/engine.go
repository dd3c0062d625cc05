// Package engine owns the interactive state of the spatial graph: the
// canonical model, the transform mode and collapse flag, the live search
// state, and the in-flight animations between layouts.
//
// # Event model
//
// The engine is event-driven and never blocks: every mutation (keystroke,
// filter click, transform request, drag, data load) is a discrete call, and
// animation advances only when the host invokes Tick from its frame loop.
// The engine starts no goroutines of its own.
//
// State is guarded by a single RWMutex so hosts that call in from multiple
// goroutines still observe consistent snapshots; there is one logical writer
// at a time. Every mutation is a total function over (state, event): the
// edge-visibility invariant holds when the call returns, with no observable
// intermediate state.
//
// # Supersession
//
// Each transform or collapse request carries a generation token. Enqueuing
// targets for an entity replaces any in-flight animation for that entity;
// the superseded animation is discarded and never mutates state again.
package engine

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pow3r-build/constellation/pkg/layout"
	"github.com/pow3r-build/constellation/pkg/model"
	"github.com/pow3r-build/constellation/pkg/persist"
	"github.com/pow3r-build/constellation/pkg/query"
	"github.com/pow3r-build/constellation/pkg/visibility"
)

// Animation duration bounds. The configured duration is clamped into this
// band so transitions stay perceptibly smooth without dragging.
const (
	MinAnimationDuration = 800 * time.Millisecond
	MaxAnimationDuration = 1000 * time.Millisecond

	// DefaultAnimationDuration sits in the middle of the band.
	DefaultAnimationDuration = 900 * time.Millisecond
)

// Config holds the injected engine constants. The engine is an embedded
// library: there is no ambient configuration, everything arrives here.
type Config struct {
	// AnimationDuration for mode and collapse transitions,
	// clamped to [MinAnimationDuration, MaxAnimationDuration].
	AnimationDuration time.Duration

	// HistorySize bounds the committed-query history.
	HistorySize int

	// Layout holds the geometry constants for the layout engine.
	Layout layout.Config
}

// Option customizes engine construction.
type Option func(*Engine)

// WithLogger injects a structured logger. Without it the engine is silent.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStore injects the persistence collaborator used to save and restore
// the committed-query history. The engine only ever calls Get and Set.
func WithStore(s persist.Store) Option {
	return func(e *Engine) { e.store = s }
}

// Engine is the spatial graph engine facade.
type Engine struct {
	mu     sync.RWMutex
	logger *log.Logger
	store  persist.Store

	cfg     Config
	layouts *layout.Engine

	m         *model.Model
	mode      layout.Mode
	collapsed bool
	search    query.SearchState

	anims      map[string]*animation
	generation uint64

	// precollapse holds each node's captured position, recorded lazily on
	// first collapse and cleared when an expand hands the positions back.
	precollapse map[string]model.Position

	// hiddenByCollapse marks nodes hidden because their collapse animation
	// arrived. Visibility propagation re-applies these after every query
	// mutation while collapsed.
	hiddenByCollapse map[string]bool
}

// New creates an engine with the given configuration.
// The initial state is Free3D, expanded, empty query, all filter, and no
// model loaded; queries and frames over the unloaded engine are safe no-ops.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.AnimationDuration == 0 {
		cfg.AnimationDuration = DefaultAnimationDuration
	}
	if cfg.AnimationDuration < MinAnimationDuration {
		cfg.AnimationDuration = MinAnimationDuration
	}
	if cfg.AnimationDuration > MaxAnimationDuration {
		cfg.AnimationDuration = MaxAnimationDuration
	}

	e := &Engine{
		logger:           log.New(io.Discard),
		cfg:              cfg,
		layouts:          layout.New(cfg.Layout),
		mode:             layout.ModeFree3D,
		search:           query.NewSearchState(cfg.HistorySize),
		anims:            make(map[string]*animation),
		precollapse:      make(map[string]model.Position),
		hiddenByCollapse: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the canonical model wholesale. Entity positions snap to the
// current mode's layout with no animation; visibility derives from the
// current search state. Any in-flight animations and captured collapse
// positions belong to the previous model and are discarded.
//
// Load(nil) clears the engine back to the empty state.
func (e *Engine) Load(m *model.Model) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.m = m
	e.anims = make(map[string]*animation)
	e.precollapse = make(map[string]model.Position)
	e.hiddenByCollapse = make(map[string]bool)
	e.collapsed = false
	e.generation++

	if m.Empty() {
		e.logger.Debug("loaded empty model")
		return nil
	}

	targets, err := e.layouts.Compute(e.mode, m, false)
	if err != nil {
		return err
	}
	e.applyInstantly(targets)
	e.refreshLocked()

	e.logger.Info("loaded model",
		"clusters", m.ClusterCount(),
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"mode", e.mode)
	return nil
}

// Mode returns the active transform mode.
func (e *Engine) Mode() layout.Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Collapsed reports whether clusters are collapsed.
func (e *Engine) Collapsed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collapsed
}

// Generation returns the current supersession token. Each transform,
// collapse, or data load increments it.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Empty reports whether no model is loaded or the model has no entities.
func (e *Engine) Empty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.m.Empty()
}

// Model returns the loaded canonical model, or nil when nothing is loaded.
// The model is shared with the engine: callers read it for exports and
// snapshots but must not mutate it.
func (e *Engine) Model() *model.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.m
}

// Frame emits the complete render payload as a consistent snapshot.
// An unloaded engine yields an empty frame.
func (e *Engine) Frame() model.Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.m == nil {
		return model.Frame{}
	}
	return e.m.Snapshot()
}

// applyInstantly writes targets straight into the model without animating.
func (e *Engine) applyInstantly(targets layout.Targets) {
	for _, c := range e.m.Clusters {
		if p, ok := targets[c.ID]; ok {
			c.Center = p
		}
	}
	for _, n := range e.m.Nodes {
		if p, ok := targets[n.ID]; ok {
			n.Position = p
		}
	}
}

// refreshLocked re-derives visibility from the current search state and
// re-applies collapse hiding, returning the match count. Callers must hold
// the write lock.
func (e *Engine) refreshLocked() int {
	if e.m.Empty() {
		return 0
	}
	matched := query.Match(e.m, e.search.Query)
	visibility.Apply(e.m, e.search.Query, matched)
	if e.collapsed && len(e.hiddenByCollapse) > 0 {
		for id := range e.hiddenByCollapse {
			if n, ok := e.m.Node(id); ok {
				n.Visible = false
			}
		}
		visibility.RefreshEdges(e.m)
	}
	return len(matched)
}
