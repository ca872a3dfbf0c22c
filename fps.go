package bgew

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often the FPS label text changes.
const fpsRefresh = 500 * time.Millisecond

// NewFPSLabel returns a label that shows the measured frame and tick rates,
// refreshed twice a second. It reads ebiten's counters, so it only shows
// non-zero values under Run.
func NewFPSLabel(x, y float64, col Color) *Label {
	l := NewLabel(x, y, "FPS: 0.0\nTPS: 0.0", LabelStyle{Color: col})
	l.Disabled = true

	var since time.Duration
	l.OnUpdate = func(_ *Entity, delta time.Duration) {
		since += delta
		if since < fpsRefresh {
			return
		}
		since = 0
		l.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return l
}
