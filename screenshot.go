package bgew

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Snapshotter is implemented by canvases that can read back the last frame.
type Snapshotter interface {
	Snapshot() *image.NRGBA
}

// Screenshot queues a labeled screenshot of the next drawn frame. The PNG is
// written to the configured screenshot directory with a timestamped name.
// Canvases that cannot read back pixels log a warning instead.
func (b *Board) Screenshot(label string) {
	b.shots = append(b.shots, label)
}

// SetScreenshotDir changes where screenshots are written.
func (b *Board) SetScreenshotDir(dir string) { b.shotDir = dir }

// flushScreenshots writes one PNG per queued label. Called after the draw
// pass of a tick.
func (b *Board) flushScreenshots() {
	if len(b.shots) == 0 {
		return
	}
	defer func() { b.shots = b.shots[:0] }()

	snap, ok := b.canvas.(Snapshotter)
	if !ok {
		b.log.Warn("canvas cannot take screenshots", zap.Strings("labels", b.shots))
		return
	}
	if err := os.MkdirAll(b.shotDir, 0o755); err != nil {
		b.log.Error("screenshot", zap.Error(err))
		return
	}
	img := snap.Snapshot()
	stamp := b.clock.Now().Format("20060102_150405")
	for _, label := range b.shots {
		path := filepath.Join(b.shotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			b.log.Error("screenshot", zap.Error(err))
			continue
		}
		b.log.Debug("screenshot written", zap.String("path", path))
	}
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var sb strings.Builder
	sb.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
