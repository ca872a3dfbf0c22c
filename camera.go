package bgew

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is a step's view offset. X and Y are the board coordinates drawn
// at the top-left corner of the surface.
type Camera struct {
	X, Y float64

	// BoundsEnabled clamps the offset so the visible area stays within
	// Bounds.
	BoundsEnabled bool
	// Bounds is the board-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	board *Board

	followTarget  *Entity
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	scrollTween *scrollAnim
}

func newCamera(b *Board) *Camera {
	return &Camera{board: b}
}

// viewSize returns the visible area in board units.
func (c *Camera) viewSize() (w, h float64) {
	if c.board == nil {
		return 0, 0
	}
	return c.board.width, c.board.height
}

// Follow makes the camera keep the target's center in the middle of the
// view, shifted by the offset. A lerp of 1 snaps immediately; lower values
// trail behind.
func (c *Camera) Follow(e *Entity, offsetX, offsetY, lerp float64) {
	c.followTarget = e
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// Following returns the tracked entity, or nil.
func (c *Camera) Following() *Entity { return c.followTarget }

// ScrollTo animates the offset to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the offset. Call it after setting X or Y
// directly. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// update advances follow, scroll, and bounds clamping. Called from
// GameStep.Update.
func (c *Camera) update(dt float32) {
	if t := c.followTarget; t != nil {
		if t.state == stateDestroyed {
			c.followTarget = nil
		} else {
			w, h := c.viewSize()
			targetX := t.AbsX() + t.Width()/2 - w/2 + c.followOffsetX
			targetY := t.AbsY() + t.Height()/2 - h/2 + c.followOffsetY
			c.X += (targetX - c.X) * c.followLerp
			c.Y += (targetY - c.Y) * c.followLerp
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps [X, X+w] x [Y, Y+h] inside Bounds. A view larger than
// Bounds is centered on it.
func (c *Camera) clampToBounds() {
	w, h := c.viewSize()
	maxX := c.Bounds.X + c.Bounds.Width - w
	maxY := c.Bounds.Y + c.Bounds.Height - h

	if maxX < c.Bounds.X {
		c.X = c.Bounds.X + (c.Bounds.Width-w)/2
	} else {
		c.X = math.Max(c.Bounds.X, math.Min(c.X, maxX))
	}
	if maxY < c.Bounds.Y {
		c.Y = c.Bounds.Y + (c.Bounds.Height-h)/2
	} else {
		c.Y = math.Max(c.Bounds.Y, math.Min(c.Y, maxY))
	}
}

// WorldToScreen converts board coordinates to surface pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	s := c.scale()
	return (wx - c.X) * s, (wy - c.Y) * s
}

// ScreenToWorld converts surface pixels to board coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	s := c.scale()
	return sx/s + c.X, sy/s + c.Y
}

// VisibleBounds returns the board-space rectangle currently in view.
func (c *Camera) VisibleBounds() Rect {
	w, h := c.viewSize()
	return Rect{X: c.X, Y: c.Y, Width: w, Height: h}
}

func (c *Camera) scale() float64 {
	if c.board == nil || c.board.scale == 0 {
		return 1
	}
	return c.board.scale
}
