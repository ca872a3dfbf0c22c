package bgew

import (
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/bgew/network"
)

// StepHooks are a step's lifecycle callbacks. OnEnter runs once per
// activation with the data passed to the transition, OnLeave once per
// deactivation.
type StepHooks interface {
	OnEnter(s *GameStep, data any)
	OnLeave(s *GameStep)
}

// NetworkHooks is implemented by StepHooks that want room stream events.
// Steps whose hooks do not implement it drop those events.
type NetworkHooks interface {
	OnNetworkMessage(s *GameStep, msg network.SocketMessage)
	OnPlayerJoin(s *GameStep, msg network.SocketMessage)
	OnPlayerLeave(s *GameStep, msg network.SocketMessage)
	OnConnectionClosed(s *GameStep, err error)
}

// StepFuncs adapts closures to StepHooks and NetworkHooks. Nil fields are
// no-ops.
type StepFuncs struct {
	Enter            func(s *GameStep, data any)
	Leave            func(s *GameStep)
	NetworkMessage   func(s *GameStep, msg network.SocketMessage)
	PlayerJoin       func(s *GameStep, msg network.SocketMessage)
	PlayerLeave      func(s *GameStep, msg network.SocketMessage)
	ConnectionClosed func(s *GameStep, err error)
}

func (f StepFuncs) OnEnter(s *GameStep, data any) {
	if f.Enter != nil {
		f.Enter(s, data)
	}
}

func (f StepFuncs) OnLeave(s *GameStep) {
	if f.Leave != nil {
		f.Leave(s)
	}
}

func (f StepFuncs) OnNetworkMessage(s *GameStep, msg network.SocketMessage) {
	if f.NetworkMessage != nil {
		f.NetworkMessage(s, msg)
	}
}

func (f StepFuncs) OnPlayerJoin(s *GameStep, msg network.SocketMessage) {
	if f.PlayerJoin != nil {
		f.PlayerJoin(s, msg)
	}
}

func (f StepFuncs) OnPlayerLeave(s *GameStep, msg network.SocketMessage) {
	if f.PlayerLeave != nil {
		f.PlayerLeave(s, msg)
	}
}

func (f StepFuncs) OnConnectionClosed(s *GameStep, err error) {
	if f.ConnectionClosed != nil {
		f.ConnectionClosed(s, err)
	}
}

// GameStep is one state of the game: a title screen, a level, a game over
// screen. It owns a camera and timers and runs the per-tick passes over the
// board's entities.
type GameStep struct {
	name   string
	board  *Board
	hooks  StepHooks
	camera *Camera
	timers []*Timer
}

func newGameStep(b *Board, name string, hooks StepHooks) *GameStep {
	if hooks == nil {
		hooks = StepFuncs{}
	}
	return &GameStep{name: name, board: b, hooks: hooks, camera: newCamera(b)}
}

// NewGameStep returns a step that is not yet registered. Pass it to
// Board.AddSteps.
func NewGameStep(name string, hooks StepHooks) *GameStep {
	return newGameStep(nil, name, hooks)
}

// Name returns the name the step is registered under.
func (s *GameStep) Name() string { return s.name }

// Board returns the owning board.
func (s *GameStep) Board() *Board { return s.board }

// Camera returns the step's camera.
func (s *GameStep) Camera() *Camera {
	if s.camera.board == nil {
		s.camera.board = s.board
	}
	return s.camera
}

// Hooks returns the step's callbacks.
func (s *GameStep) Hooks() StepHooks { return s.hooks }

func (s *GameStep) enter(data any) {
	s.camera.board = s.board
	s.hooks.OnEnter(s, data)
}

func (s *GameStep) leave() {
	s.hooks.OnLeave(s)
}

// Update advances the camera, then every top-level entity, then every
// timer, all with the same delta.
func (s *GameStep) Update(delta time.Duration) {
	s.camera.update(float32(delta.Seconds()))
	for _, e := range snapshotEntities(s.board.entities) {
		// A callback earlier in the pass may have reset the board.
		if e.board == s.board {
			e.Update(delta)
		}
	}
	for _, t := range snapshotTimers(s.timers) {
		t.Update(delta)
	}
}

// CheckCollisions evaluates the collision watches of every entity.
func (s *GameStep) CheckCollisions() {
	for _, e := range snapshotEntities(s.board.entities) {
		e.CheckCollisions()
	}
}

// Draw clears the canvas and draws every visible top-level entity under the
// board scale and the negated camera offset, followed by the collision
// overlay in debug mode.
func (s *GameStep) Draw() {
	b := s.board
	c := b.canvas
	c.Clear()
	c.Save()
	c.Scale(b.scale, b.scale)
	c.Translate(-s.camera.X, -s.camera.Y)
	for _, e := range snapshotEntities(b.entities) {
		if e.Visible() {
			drawEntity(c, e)
		}
	}
	if b.debug.Collision {
		c.ResetStyle()
		c.SetAlpha(1)
		c.SetStrokeColor(ColorDebug)
		b.collision.Draw(canvasDrawer{c})
	}
	c.Restore()
}

// AddTimer creates and starts a timer owned by the step. A timer that does
// not repeat removes itself after firing.
func (s *GameStep) AddTimer(d time.Duration, fn func(*Timer), repeat bool) *Timer {
	t := NewTimer(d, fn, repeat)
	t.OnRemove(s.dropTimer)
	s.timers = append(s.timers, t)
	return t
}

// RemoveTimer stops t and drops it from the step.
func (s *GameStep) RemoveTimer(t *Timer) {
	if t == nil {
		return
	}
	t.Stop()
	s.dropTimer(t)
}

func (s *GameStep) dropTimer(t *Timer) {
	for i, o := range s.timers {
		if o == t {
			copy(s.timers[i:], s.timers[i+1:])
			s.timers[len(s.timers)-1] = nil
			s.timers = s.timers[:len(s.timers)-1]
			return
		}
	}
}

// Timers returns a copy of the step's live timers.
func (s *GameStep) Timers() []*Timer { return snapshotTimers(s.timers) }

func snapshotTimers(list []*Timer) []*Timer {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Timer, len(list))
	copy(out, list)
	return out
}

// OnNetworkMessage implements network.Hooks.
func (s *GameStep) OnNetworkMessage(msg network.SocketMessage) {
	if h, ok := s.networkHooks(); ok {
		h.OnNetworkMessage(s, msg)
	}
}

// OnPlayerJoin implements network.Hooks.
func (s *GameStep) OnPlayerJoin(msg network.SocketMessage) {
	if h, ok := s.networkHooks(); ok {
		h.OnPlayerJoin(s, msg)
	}
}

// OnPlayerLeave implements network.Hooks.
func (s *GameStep) OnPlayerLeave(msg network.SocketMessage) {
	if h, ok := s.networkHooks(); ok {
		h.OnPlayerLeave(s, msg)
	}
}

// OnConnectionClosed implements network.Hooks.
func (s *GameStep) OnConnectionClosed(err error) {
	if h, ok := s.networkHooks(); ok {
		h.OnConnectionClosed(s, err)
		return
	}
	if s.board != nil {
		s.board.log.Warn("connection closed", zap.String("step", s.name), zap.Error(err))
	}
}

func (s *GameStep) networkHooks() (NetworkHooks, bool) {
	h, ok := s.hooks.(NetworkHooks)
	return h, ok
}

var _ network.Hooks = (*GameStep)(nil)
