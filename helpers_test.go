package bgew

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestBoard returns a started board on a manual clock with one empty
// step named "main". Options passed in override the defaults.
func newTestBoard(t *testing.T, cfg Config, opts ...Option) (*Board, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler(testEpoch)
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithScheduler(sched)}, opts...)
	b := NewBoard(cfg, opts...)
	b.AddStep("main", nil)
	if err := b.SetStep("main"); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Stop)
	return b, sched
}

func recordCanvas(t *testing.T, b *Board) *RecordCanvas {
	t.Helper()
	rc, ok := b.Canvas().(*RecordCanvas)
	if !ok {
		t.Fatalf("canvas is %T, want *RecordCanvas", b.Canvas())
	}
	return rc
}

func opsNamed(rc *RecordCanvas, name string) []DrawOp {
	var out []DrawOp
	for _, op := range rc.Ops() {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// withDebug turns on the package debug checks for the duration of a test.
func withDebug(t *testing.T) {
	t.Helper()
	prev := globalDebug
	globalDebug = true
	t.Cleanup(func() { globalDebug = prev })
}
