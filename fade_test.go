package bgew

import (
	"errors"
	"testing"
	"time"
)

func TestFadeToStep(t *testing.T) {
	b, sched := newTestBoard(t, Config{FPS: 10})
	rc := recordCanvas(t, b)
	b.AddEntity(NewEntity(0, 0, 10, 10))

	var entered any
	b.AddStep("next", StepFuncs{Enter: func(s *GameStep, data any) {
		entered = data
		s.Board().AddEntity(NewEntity(0, 0, 10, 10))
	}})

	if err := b.FadeToStep("next", "payload", FadeOptions{Duration: time.Second, Color: ColorWhite}); err != nil {
		t.Fatal(err)
	}
	if b.Step().Name() != "main" {
		t.Fatal("FadeToStep should not switch immediately")
	}

	sched.Step(3)
	overlay := opsNamed(rc, "FillRect")
	if len(overlay) != 1 {
		t.Fatalf("overlay ops = %d, want 1", len(overlay))
	}
	if a := overlay[0].Alpha; a <= 0 || a >= 1 {
		t.Errorf("overlay alpha mid fade-out = %v, want between 0 and 1", a)
	}
	if overlay[0].Fill != ColorWhite {
		t.Errorf("overlay fill = %v, want white", overlay[0].Fill)
	}
	if b.Collision().Len() != 1 {
		t.Errorf("bodies = %d, want overlay excluded", b.Collision().Len())
	}

	sched.Step(3)
	if b.Step().Name() != "next" {
		t.Fatalf("Step = %q, want next after the first half", b.Step().Name())
	}
	if entered != "payload" {
		t.Errorf("enter data = %v, want payload", entered)
	}

	sched.Step(6)
	if n := b.CountEntities(); n != 1 {
		t.Errorf("CountEntities = %d, want the overlay removed", n)
	}
}

func TestFadeToUnknownStep(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	err := b.FadeToStep("missing", nil, FadeOptions{})
	if !errors.Is(err, ErrStepNotFound) {
		t.Errorf("err = %v, want ErrStepNotFound", err)
	}
	if n := b.CountEntities(); n != 0 {
		t.Errorf("CountEntities = %d, want no overlay", n)
	}
}

func TestFadeOverlayIgnoresInput(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	b.AddStep("next", nil)
	target := NewEntity(0, 0, 10, 10)
	clicks := 0
	target.On(EventClick, func(InputEvent) { clicks++ })
	b.AddEntity(target)

	if err := b.FadeToStep("next", nil, FadeOptions{}); err != nil {
		t.Fatal(err)
	}
	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	tickOnce(sched)

	if clicks != 1 {
		t.Errorf("clicks under the overlay = %d, want 1", clicks)
	}
}
