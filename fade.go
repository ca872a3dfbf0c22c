package bgew

import (
	"fmt"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// DefaultFadeDuration is the full length of a fade transition when
// FadeOptions.Duration is zero.
const DefaultFadeDuration = 600 * time.Millisecond

// FadeOptions configures FadeToStep.
type FadeOptions struct {
	// Duration covers both halves: fade out, then fade in.
	Duration time.Duration
	// Color of the overlay. The zero Color means ColorBlack.
	Color Color
	// Ease shapes the opacity curve. Defaults to ease.Linear.
	Ease ease.TweenFunc
}

// FadeToStep covers the board with an overlay that fades in over half the
// duration, switches to the named step like MoveToStep, then fades a second
// overlay out over the new step and removes it. An unknown name is logged
// and nothing changes.
func (b *Board) FadeToStep(name string, data any, opts FadeOptions) error {
	next, ok := b.steps[name]
	if !ok {
		b.log.Error("cannot fade to unknown step", zap.String("step", name))
		return fmt.Errorf("%w: %q", ErrStepNotFound, name)
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultFadeDuration
	}
	if opts.Color == (Color{}) {
		opts.Color = ColorBlack
	}
	if opts.Ease == nil {
		opts.Ease = ease.Linear
	}
	half := opts.Duration / 2

	out := b.newFadeOverlay(opts, 0, 1, half, func(*Entity) {
		b.swapStep(next, data)
		in := b.newFadeOverlay(opts, 1, 0, half, func(e *Entity) {
			b.RemoveEntity(e)
		})
		b.AddEntity(in)
	})
	b.AddEntity(out)
	return nil
}

// newFadeOverlay returns a full-view entity whose opacity is tweened from
// begin to end. done runs once when the tween completes.
func (b *Board) newFadeOverlay(opts FadeOptions, begin, end float32, d time.Duration, done func(*Entity)) *Entity {
	x, y := 0.0, 0.0
	if b.step != nil {
		x, y = b.step.camera.X, b.step.camera.Y
	}
	e := NewEntity(x, y, b.width, b.height)
	e.overlay = true
	e.Disabled = true
	e.Opacity = float64(begin)
	col := opts.Color
	e.Renderer = RendererFunc(func(e *Entity, c Canvas) {
		c.SetFillColor(col)
		c.FillRect(e.X, e.Y, e.Width(), e.Height())
	})

	tw := gween.New(begin, end, float32(d.Seconds()), opts.Ease)
	finished := false
	e.OnUpdate = func(e *Entity, delta time.Duration) {
		if finished {
			return
		}
		v, complete := tw.Update(float32(delta.Seconds()))
		e.Opacity = float64(v)
		if complete {
			finished = true
			done(e)
		}
	}
	return e
}
