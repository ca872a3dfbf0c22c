package bgew

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ellipseDrawSegments is the polygon resolution used to draw ellipses.
const ellipseDrawSegments = 48

// maxTextCache bounds the number of rasterized strings kept between frames.
const maxTextCache = 256

// whitePixel is the source texture for untextured triangles.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.RGBA8())
	}
	return whitePixel
}

// EbitenCanvas rasterizes into an offscreen ebiten image that Run copies to
// the screen every frame. Geometry is filled as triangles through
// vector.Path, so the full affine transform applies to every call.
type EbitenCanvas struct {
	canvasState
	background Color
	img        *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint16
	texts map[string]*ebiten.Image
}

// NewEbitenCanvas returns a canvas that clears to background.
func NewEbitenCanvas(background Color) *EbitenCanvas {
	return &EbitenCanvas{
		canvasState: newCanvasState(),
		background:  background,
		texts:       make(map[string]*ebiten.Image),
	}
}

// Image returns the backing image, nil before the first Resize.
func (c *EbitenCanvas) Image() *ebiten.Image { return c.img }

// Resize reallocates the backing image when the size changes.
func (c *EbitenCanvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if c.img != nil && c.w == width && c.h == height {
		return
	}
	if c.img != nil {
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(width, height)
	c.canvasState.Resize(width, height)
}

func (c *EbitenCanvas) Clear() {
	c.reset()
	if c.img != nil {
		c.img.Fill(c.background.RGBA8())
	}
}

func (c *EbitenCanvas) FillRect(x, y, w, h float64) {
	c.fill(rectPoints(x, y, w, h))
}

func (c *EbitenCanvas) StrokeRect(x, y, w, h float64) {
	c.stroke(rectPoints(x, y, w, h), true)
}

func (c *EbitenCanvas) FillEllipse(cx, cy, rx, ry float64) {
	c.fill(ellipsePoints(cx, cy, rx, ry))
}

func (c *EbitenCanvas) StrokeEllipse(cx, cy, rx, ry float64) {
	c.stroke(ellipsePoints(cx, cy, rx, ry), true)
}

func (c *EbitenCanvas) FillPolygon(points []Vec2)                { c.fill(points) }
func (c *EbitenCanvas) StrokePolygon(points []Vec2, closed bool) { c.stroke(points, closed) }

// FillText draws s with the built-in debug font, tinted with the fill color.
func (c *EbitenCanvas) FillText(s string, x, y float64) {
	if c.img == nil || s == "" {
		return
	}
	src, ok := c.texts[s]
	if !ok {
		if len(c.texts) >= maxTextCache {
			for k, img := range c.texts {
				img.Deallocate()
				delete(c.texts, k)
			}
		}
		src = ebiten.NewImage(max(1, len([]rune(s))*glyphWidth), glyphHeight)
		ebitenutil.DebugPrintAt(src, s, 0, 0)
		c.texts[s] = src
	}
	m := multiplyAffine(c.cur.transform, translateAffine(x, y))
	var op ebiten.DrawImageOptions
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	f := c.cur.fill
	a := f.A * c.cur.alpha
	op.ColorScale.Scale(float32(f.R*a), float32(f.G*a), float32(f.B*a), float32(a))
	c.img.DrawImage(src, &op)
}

func ellipsePoints(cx, cy, rx, ry float64) []Vec2 {
	pts := make([]Vec2, ellipseDrawSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / ellipseDrawSegments)
		pts[i] = Vec2{cx + rx*cos, cy + ry*sin}
	}
	return pts
}

func (c *EbitenCanvas) path(points []Vec2, closed bool) *vector.Path {
	var p vector.Path
	for i, pt := range points {
		x, y := c.apply(pt.X, pt.Y)
		if i == 0 {
			p.MoveTo(float32(x), float32(y))
			continue
		}
		p.LineTo(float32(x), float32(y))
	}
	if closed {
		p.Close()
	}
	return &p
}

func (c *EbitenCanvas) fill(points []Vec2) {
	if c.img == nil || len(points) < 3 {
		return
	}
	c.verts, c.inds = c.path(points, true).AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(c.cur.fill)
}

func (c *EbitenCanvas) stroke(points []Vec2, closed bool) {
	if c.img == nil || len(points) < 2 || c.cur.lineWidth <= 0 {
		return
	}
	m := c.cur.transform
	width := c.cur.lineWidth * math.Sqrt(math.Abs(m[0]*m[3]-m[1]*m[2]))
	c.verts, c.inds = c.path(points, closed).AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinMiter,
	})
	c.submit(c.cur.stroke)
}

// submit colors the pending vertices and draws them as premultiplied
// triangles.
func (c *EbitenCanvas) submit(col Color) {
	a := col.A * c.cur.alpha
	if a <= 0 {
		return
	}
	for i := range c.verts {
		c.verts[i].SrcX, c.verts[i].SrcY = 0.5, 0.5
		c.verts[i].ColorR = float32(col.R * a)
		c.verts[i].ColorG = float32(col.G * a)
		c.verts[i].ColorB = float32(col.B * a)
		c.verts[i].ColorA = float32(a)
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       ebiten.FillRuleNonZero,
		AntiAlias:      true,
	}
	c.img.DrawTriangles(c.verts, c.inds, ensureWhitePixel(), op)
}

// Snapshot reads back the backing image as straight-alpha pixels.
func (c *EbitenCanvas) Snapshot() *image.NRGBA {
	if c.img == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	w, h := c.img.Bounds().Dx(), c.img.Bounds().Dy()
	pixels := make([]byte, 4*w*h)
	c.img.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
