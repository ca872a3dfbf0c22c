package bgew

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Debug selects the debug aids. Enabled turns on the structural checks; the
// other flags add overlays and logging.
type Debug struct {
	Enabled bool `yaml:"enabled"`
	// Collision strokes every collision body after the entities are drawn.
	Collision bool `yaml:"collision"`
	// Skeleton strokes every entity's unrotated bounds.
	Skeleton bool `yaml:"skeleton"`
	// Stats logs per-tick timings at debug level.
	Stats bool `yaml:"stats"`
}

// SetDebug replaces the debug settings.
func (b *Board) SetDebug(d Debug) {
	b.debug = d
	globalDebug = d.Enabled
}

// Debug returns the debug settings.
func (b *Board) Debug() Debug { return b.debug }

// globalDebug mirrors the most recently set Board debug flag so that entity
// operations on detached entities (which lack a Board pointer) can check it
// cheaply. Only valid with a single Board.
var globalDebug bool

// tickStats holds per-tick timing metrics. Only populated when Debug.Stats
// is set.
type tickStats struct {
	update    time.Duration
	collision time.Duration
	draw      time.Duration
	entities  int
	bodies    int
}

func (b *Board) logStats(s tickStats) {
	b.log.Debug("tick",
		zap.Duration("update", s.update),
		zap.Duration("collision", s.collision),
		zap.Duration("draw", s.draw),
		zap.Duration("total", s.update+s.collision+s.draw),
		zap.Int("entities", s.entities),
		zap.Int("bodies", s.bodies))
}

// debugCheckAttached panics when a detached or destroyed entity is drawn in
// debug mode. In release mode the call does nothing.
func debugCheckAttached(e *Entity, op string) {
	if !globalDebug {
		return
	}
	state := "detached"
	if e.state == stateDestroyed {
		state = "destroyed"
	}
	panic(fmt.Sprintf("bgew debug: %s on %s entity %q", op, state, e.id))
}

// debugMaxTreeDepth is the nesting depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(b *Board, e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		b.log.Warn("entity tree too deep",
			zap.String("entity", e.id),
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(b *Board, e *Entity) {
	if len(e.children) > debugMaxChildCount {
		b.log.Warn("container has many children",
			zap.String("entity", e.id),
			zap.Int("children", len(e.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}
