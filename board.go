package bgew

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/bgew/collision"
	"github.com/phanxgames/bgew/network"
)

var (
	// ErrStepNotFound is returned when a transition names an unknown step.
	ErrStepNotFound = errors.New("bgew: step not found")
	// ErrNoActiveStep is returned by Start when no step has been selected.
	ErrNoActiveStep = errors.New("bgew: no active step")
)

// NetworkPoller delivers queued network messages to step hooks. It is
// satisfied by *network.Manager.
type NetworkPoller interface {
	Poll(h network.Hooks) int
}

// EventStore is the interface for optional ECS integration.
// When set on a Board, entity-level input and collision events are
// forwarded to it.
type EventStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      string
	EntityID  string
	OtherID   string
	X, Y      float64
	Button    MouseButton
	Key       string
	Modifiers KeyModifiers
}

func interactionFromInput(name string, e *Entity, ev InputEvent) InteractionEvent {
	return InteractionEvent{
		Type:      name,
		EntityID:  e.id,
		X:         ev.X,
		Y:         ev.Y,
		Button:    ev.Button,
		Key:       ev.Key,
		Modifiers: ev.Modifiers,
	}
}

func interactionFromCollision(ev CollisionEvent) InteractionEvent {
	ie := InteractionEvent{Type: EventCollision, EntityID: ev.Entity.id, X: ev.Point.X, Y: ev.Point.Y}
	if ev.Other != nil {
		ie.OtherID = ev.Other.id
	}
	return ie
}

// Board is the top-level runtime: it owns the canvas, the tick loop, the
// top-level entities, the steps, and the collision index.
type Board struct {
	name       string
	version    string
	width      float64
	height     float64
	scale      float64
	gravity    float64
	fps        int
	background Color
	paused     bool
	cursor     Cursor

	canvas   Canvas
	entities []*Entity
	steps    map[string]*GameStep
	step     *GameStep
	events   *Dispatcher[InputEvent]

	collision     *collision.System
	collisionOpts []collision.Option
	result        *collision.Result

	queueMu sync.Mutex
	queue   []InputEvent
	spare   []InputEvent
	inject  [][]InputEvent

	sounds map[string]*Sound
	audio  AudioBackend

	log       *zap.Logger
	clock     Clock
	scheduler Scheduler
	lastTick  time.Time
	ticks     uint64
	running   bool

	network NetworkPoller
	store   EventStore
	debug   Debug
	runner  *TestRunner
	shotDir string
	shots   []string
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger. The board logs through a child named "board".
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) { b.log = l }
}

// WithCanvas sets the drawing surface. Defaults to a RecordCanvas.
func WithCanvas(c Canvas) Option {
	return func(b *Board) { b.canvas = c }
}

// WithClock sets the time source used to measure tick deltas.
func WithClock(c Clock) Option {
	return func(b *Board) { b.clock = c }
}

// WithScheduler sets the tick source. When the scheduler also implements
// Clock and no clock was given, it is used as the clock too.
func WithScheduler(s Scheduler) Option {
	return func(b *Board) { b.scheduler = s }
}

// WithNetwork routes messages from p to the active step's network hooks.
func WithNetwork(p NetworkPoller) Option {
	return func(b *Board) { b.network = p }
}

// WithEventStore forwards entity events to an ECS.
func WithEventStore(s EventStore) Option {
	return func(b *Board) { b.store = s }
}

// WithAudio sets the backend used by RegisterSound.
func WithAudio(a AudioBackend) Option {
	return func(b *Board) { b.audio = a }
}

// WithCollisionOptions configures every collision index the board creates.
func WithCollisionOptions(opts ...collision.Option) Option {
	return func(b *Board) { b.collisionOpts = opts }
}

// NewBoard creates a board from cfg. Zero config fields take their defaults.
func NewBoard(cfg Config, opts ...Option) *Board {
	cfg = cfg.withDefaults()
	b := &Board{
		name:       cfg.Name,
		version:    cfg.Version,
		width:      cfg.Width,
		height:     cfg.Height,
		scale:      cfg.Scale,
		gravity:    cfg.Gravity,
		fps:        cfg.FPS,
		background: cfg.background(),
		steps:      make(map[string]*GameStep),
		events:     NewDispatcher[InputEvent](),
		sounds:     make(map[string]*Sound),
		debug:      cfg.Debug,
		shotDir:    cfg.ScreenshotDir,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = newLogger(cfg.LogLevel)
	}
	b.log = b.log.Named("board")
	if b.canvas == nil {
		b.canvas = NewRecordCanvas()
	}
	if b.scheduler == nil {
		b.scheduler = NewTickerScheduler()
	}
	if b.clock == nil {
		if c, ok := b.scheduler.(Clock); ok {
			b.clock = c
		} else {
			b.clock = SystemClock{}
		}
	}
	b.collision = collision.NewSystem(b.collisionOpts...)
	b.result = b.collision.NewResult()
	b.SetDebug(b.debug)
	return b
}

// Name returns the game name.
func (b *Board) Name() string { return b.name }

// Version returns the game version.
func (b *Board) Version() string { return b.version }

// Width returns the logical board width.
func (b *Board) Width() float64 { return b.width }

// Height returns the logical board height.
func (b *Board) Height() float64 { return b.height }

// Scale returns the factor between board units and surface pixels.
func (b *Board) Scale() float64 { return b.scale }

// SetScale changes the factor between board units and surface pixels. The
// canvas is resized on the next tick.
func (b *Board) SetScale(s float64) {
	if s > 0 {
		b.scale = s
	}
}

// Gravity returns the downward acceleration in pixels per second squared.
func (b *Board) Gravity() float64 { return b.gravity }

// SetGravity sets the downward acceleration. Zero disables gravity.
func (b *Board) SetGravity(g float64) { b.gravity = g }

// FPS returns the target tick rate.
func (b *Board) FPS() int { return b.fps }

// Background returns the color the canvas is cleared to.
func (b *Board) Background() Color { return b.background }

// Canvas returns the drawing surface.
func (b *Board) Canvas() Canvas { return b.canvas }

// Collision returns the current collision index. It is replaced on Reset.
func (b *Board) Collision() *collision.System { return b.collision }

// Logger returns the board's logger.
func (b *Board) Logger() *zap.Logger { return b.log }

// Clock returns the board's time source.
func (b *Board) Clock() Clock { return b.clock }

// interval is the target tick length.
func (b *Board) interval() time.Duration {
	return time.Second / time.Duration(b.fps)
}

// --- Loop ---

// Start enters the active step and begins ticking.
func (b *Board) Start() error {
	if b.step == nil {
		return ErrNoActiveStep
	}
	if b.running {
		return nil
	}
	b.running = true
	b.step.enter(nil)
	b.lastTick = b.clock.Now()
	b.scheduler.Start(b.interval(), b.scheduledTick)
	b.log.Info("board started",
		zap.String("name", b.name),
		zap.String("version", b.version),
		zap.Int("fps", b.fps),
		zap.String("step", b.step.name))
	return nil
}

// Stop cancels the tick schedule. In-flight collaborator callbacks may still
// arrive afterwards.
func (b *Board) Stop() {
	if !b.running {
		return
	}
	b.running = false
	b.scheduler.Stop()
	b.log.Info("board stopped")
}

// Running reports whether the tick schedule is active.
func (b *Board) Running() bool { return b.running }

// Ticks returns the number of ticks run so far.
func (b *Board) Ticks() uint64 { return b.ticks }

func (b *Board) scheduledTick() {
	now := b.clock.Now()
	delta := now.Sub(b.lastTick)
	b.lastTick = now
	b.Tick(delta)
}

// Tick runs one iteration of the loop: resize the canvas, route queued
// input, deliver network messages, advance sounds, and unless paused run
// update, collision refresh, collision checks, draw on the active step, and
// write queued screenshots.
func (b *Board) Tick(delta time.Duration) {
	b.ticks++
	b.canvas.Resize(int(b.width*b.scale), int(b.height*b.scale))
	if b.runner != nil {
		b.runner.step(b)
	}
	b.feedInjected()
	b.processInput()
	b.pollNetwork()
	b.updateSounds(delta)
	if b.paused || b.step == nil {
		return
	}

	var stats tickStats
	t0 := time.Now()
	b.step.Update(delta)
	t1 := time.Now()
	b.collision.Update()
	b.step.CheckCollisions()
	t2 := time.Now()
	b.step.Draw()
	b.flushScreenshots()
	if b.debug.Stats {
		stats.update = t1.Sub(t0)
		stats.collision = t2.Sub(t1)
		stats.draw = time.Since(t2)
		stats.entities = b.CountEntities()
		stats.bodies = b.collision.Len()
		b.logStats(stats)
	}
}

func (b *Board) pollNetwork() {
	if b.network != nil && b.step != nil {
		b.network.Poll(b.step)
	}
}

// Pause suspends update, collision and draw passes. Input is still routed.
func (b *Board) Pause() { b.paused = true }

// Resume undoes Pause.
func (b *Board) Resume() { b.paused = false }

// Paused reports whether the board is paused.
func (b *Board) Paused() bool { return b.paused }

// --- Steps ---

// AddStep registers a step under name and returns it. Registering a name
// twice replaces the earlier step.
func (b *Board) AddStep(name string, hooks StepHooks) *GameStep {
	s := newGameStep(b, name, hooks)
	b.steps[name] = s
	return s
}

// AddSteps registers already-built steps.
func (b *Board) AddSteps(steps ...*GameStep) {
	for _, s := range steps {
		s.board = b
		b.steps[s.name] = s
	}
}

// StepByName returns a registered step, or nil.
func (b *Board) StepByName(name string) *GameStep { return b.steps[name] }

// Step returns the active step.
func (b *Board) Step() *GameStep { return b.step }

// SetStep selects the active step without running any hooks. Use it to pick
// the first step before Start.
func (b *Board) SetStep(name string) error {
	s, ok := b.steps[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStepNotFound, name)
	}
	b.step = s
	return nil
}

// MoveToStep leaves the active step, resets the board, enters the step
// registered under name with data, and draws it once. An unknown name is
// logged and nothing changes.
func (b *Board) MoveToStep(name string, data any) error {
	next, ok := b.steps[name]
	if !ok {
		b.log.Error("cannot move to unknown step", zap.String("step", name))
		return fmt.Errorf("%w: %q", ErrStepNotFound, name)
	}
	b.swapStep(next, data)
	return nil
}

func (b *Board) swapStep(next *GameStep, data any) {
	prev := ""
	if b.step != nil {
		prev = b.step.name
		b.step.leave()
	}
	b.Reset()
	b.step = next
	next.enter(data)
	next.Draw()
	b.log.Debug("step changed", zap.String("from", prev), zap.String("to", next.name))
}

// Reset destroys every entity, replaces the collision index, and restores
// the default cursor.
func (b *Board) Reset() {
	for _, e := range snapshotEntities(b.entities) {
		e.destroy()
	}
	clear(b.entities)
	b.entities = b.entities[:0]
	b.collision = collision.NewSystem(b.collisionOpts...)
	b.RestoreCursor()
}

// --- Entities ---

// AddEntity attaches e to the board as a top-level entity. An entity owned
// by a container or another board is moved.
func (b *Board) AddEntity(e *Entity) {
	if e == nil {
		panic("bgew: cannot add nil entity")
	}
	switch {
	case e.parent != nil:
		e.parent.removeChild(e)
	case e.board == b:
		for _, o := range b.entities {
			if o == e {
				return
			}
		}
	case e.board != nil:
		e.board.removeTopLevel(e)
	}
	if e.board != nil && e.board != b {
		e.detach()
	}
	b.entities = append(b.entities, e)
	e.init(b)
}

// AddEntities adds each entity in order.
func (b *Board) AddEntities(entities ...*Entity) {
	for _, e := range entities {
		b.AddEntity(e)
	}
}

// RemoveEntity destroys a top-level entity: OnDestroy runs over its
// subtree, every body of the subtree leaves the collision index, and it is
// dropped from the list.
func (b *Board) RemoveEntity(e *Entity) {
	if e == nil || !b.removeTopLevel(e) {
		b.log.Warn("remove of unknown entity", zap.Stringer("entity", e))
		return
	}
	e.destroy()
}

// RemoveEntities removes each entity in order.
func (b *Board) RemoveEntities(entities ...*Entity) {
	for _, e := range entities {
		b.RemoveEntity(e)
	}
}

func (b *Board) removeTopLevel(e *Entity) bool {
	for i, o := range b.entities {
		if o == e {
			copy(b.entities[i:], b.entities[i+1:])
			b.entities[len(b.entities)-1] = nil
			b.entities = b.entities[:len(b.entities)-1]
			return true
		}
	}
	return false
}

// Entities returns a copy of the top-level entities in draw order.
func (b *Board) Entities() []*Entity { return snapshotEntities(b.entities) }

// CountEntities returns the number of entities on the board, containers and
// their descendants included.
func (b *Board) CountEntities() int { return countEntities(b.entities) }

// FindEntity searches the whole tree for id. A miss is logged and returns
// nil.
func (b *Board) FindEntity(id string) *Entity {
	e := b.lookup(id)
	if e == nil {
		b.log.Warn("entity not found", zap.String("id", id))
	}
	return e
}

func (b *Board) lookup(id string) *Entity {
	return findEntity(b.entities, id, true)
}

// EntitiesIn returns every non-container entity whose bounds overlap r.
func (b *Board) EntitiesIn(r Rect) []*Entity { return b.entitiesIn(r) }

func (b *Board) entitiesIn(r Rect) []*Entity {
	return entitiesIn(nil, b.entities, r)
}

// EntitiesAt returns every entity, depth-first, whose own shape contains the
// board-space point.
func (b *Board) EntitiesAt(x, y float64) []*Entity {
	return b.collect(func(e *Entity) bool { return e.containsPoint(x, y) })
}

// EntitiesAtX returns every entity whose bounds span the vertical line x.
func (b *Board) EntitiesAtX(x float64) []*Entity {
	return b.collect(func(e *Entity) bool {
		r := e.Bounds()
		return x >= r.X && x <= r.X+r.Width
	})
}

// EntitiesAtY returns every entity whose bounds span the horizontal line y.
func (b *Board) EntitiesAtY(y float64) []*Entity {
	return b.collect(func(e *Entity) bool {
		r := e.Bounds()
		return y >= r.Y && y <= r.Y+r.Height
	})
}

func (b *Board) collect(match func(*Entity) bool) []*Entity {
	var out []*Entity
	var walk func([]*Entity)
	walk = func(list []*Entity) {
		for _, e := range list {
			if match(e) {
				out = append(out, e)
			}
			if e.kind == KindContainer {
				walk(e.children)
			}
		}
	}
	walk(b.entities)
	return out
}

// --- Board events ---

// On subscribes to raw input events before they reach any entity.
func (b *Board) On(name string, fn func(InputEvent), opts ...SubscribeOption) Subscription {
	return b.events.On(name, fn, opts...)
}

// Off removes a board-level subscription.
func (b *Board) Off(name string, sub Subscription) {
	b.events.Off(name, sub)
}

func (b *Board) emit(ev InteractionEvent) {
	if b.store != nil {
		b.store.EmitEvent(ev)
	}
}

// SetEventStore sets or clears the ECS bridge.
func (b *Board) SetEventStore(s EventStore) { b.store = s }

// SetNetwork sets or clears the network message source.
func (b *Board) SetNetwork(p NetworkPoller) { b.network = p }

// --- Cursor ---

// ChangeCursor sets the cursor the host should display.
func (b *Board) ChangeCursor(c Cursor) { b.cursor = c }

// RestoreCursor goes back to CursorDefault.
func (b *Board) RestoreCursor() { b.cursor = CursorDefault }

// Cursor returns the requested cursor.
func (b *Board) Cursor() Cursor { return b.cursor }

// --- Timers ---

// AddTimer adds a timer to the active step. Returns nil when no step is
// active.
func (b *Board) AddTimer(d time.Duration, fn func(*Timer), repeat bool) *Timer {
	if b.step == nil {
		b.log.Warn("AddTimer without an active step")
		return nil
	}
	return b.step.AddTimer(d, fn, repeat)
}

// RemoveTimer stops and removes a timer from the active step.
func (b *Board) RemoveTimer(t *Timer) {
	if b.step != nil {
		b.step.RemoveTimer(t)
	}
}
