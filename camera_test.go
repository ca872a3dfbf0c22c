package bgew

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func testCamera(w, h, scale float64) *Camera {
	return newCamera(&Board{width: w, height: h, scale: scale})
}

func TestCameraScreenWorldRoundTrip(t *testing.T) {
	cam := testCamera(800, 600, 2)
	cam.X, cam.Y = 100, 50

	sx, sy := cam.WorldToScreen(150, 80)
	assertNear(t, "sx", sx, 100)
	assertNear(t, "sy", sy, 60)

	wx, wy := cam.ScreenToWorld(sx, sy)
	assertNear(t, "wx", wx, 150)
	assertNear(t, "wy", wy, 80)
}

func TestCameraVisibleBounds(t *testing.T) {
	cam := testCamera(320, 240, 1)
	cam.X, cam.Y = 10, 20
	got := cam.VisibleBounds()
	want := Rect{X: 10, Y: 20, Width: 320, Height: 240}
	if got != want {
		t.Errorf("VisibleBounds = %+v, want %+v", got, want)
	}
}

func TestCameraFollowLerp(t *testing.T) {
	cam := testCamera(100, 100, 1)
	target := NewEntity(200, 200, 0, 0)

	cam.Follow(target, 0, 0, 0.5)
	cam.update(1.0 / 60)
	assertNear(t, "X after one lerp step", cam.X, 75)

	cam.Follow(target, 10, -10, 1)
	cam.update(1.0 / 60)
	assertNear(t, "X snapped", cam.X, 160)
	assertNear(t, "Y snapped", cam.Y, 140)

	if cam.Following() != target {
		t.Errorf("Following = %v, want %v", cam.Following(), target)
	}
	cam.Unfollow()
	if cam.Following() != nil {
		t.Error("Unfollow should clear the target")
	}
}

func TestCameraFollowDropsDestroyedTarget(t *testing.T) {
	cam := testCamera(100, 100, 1)
	target := NewEntity(0, 0, 1, 1)
	target.state = stateDestroyed
	cam.Follow(target, 0, 0, 1)
	cam.update(1.0 / 60)
	if cam.Following() != nil {
		t.Error("camera should stop following a destroyed entity")
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := testCamera(100, 100, 1)
	cam.ScrollTo(100, 50, 1, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}

	cam.update(0.5)
	if cam.X < 49 || cam.X > 51 {
		t.Errorf("X halfway = %v, want about 50", cam.X)
	}

	cam.update(0.6)
	assertNear(t, "X", cam.X, 100)
	assertNear(t, "Y", cam.Y, 50)
	if cam.Scrolling() {
		t.Error("scroll should be finished")
	}
}

func TestCameraBounds(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		bounds       Rect
		wantX, wantY float64
	}{
		{"inside", 50, 50, Rect{0, 0, 500, 500}, 50, 50},
		{"before origin", -20, -5, Rect{0, 0, 500, 500}, 0, 0},
		{"past far edge", 450, 480, Rect{0, 0, 500, 500}, 400, 400},
		{"view larger than bounds", 30, 30, Rect{0, 0, 60, 40}, -20, -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := testCamera(100, 100, 1)
			cam.X, cam.Y = tt.x, tt.y
			cam.SetBounds(tt.bounds)
			cam.ClampToBounds()
			assertNear(t, "X", cam.X, tt.wantX)
			assertNear(t, "Y", cam.Y, tt.wantY)
		})
	}
}

func TestCameraClearBounds(t *testing.T) {
	cam := testCamera(100, 100, 1)
	cam.SetBounds(Rect{0, 0, 200, 200})
	cam.ClearBounds()
	cam.X = -50
	cam.update(1.0 / 60)
	assertNear(t, "X", cam.X, -50)
}
