package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// Minimap draws a chipmunk space top-down into a screen rectangle. It
// implements cp.Drawer.
type Minimap struct {
	screen *ebiten.Image
	rect   image.Rectangle

	scale  float64
	origin cp.Vector // world point at the rect centre
}

// NewMinimap fits the world bounds bb into rect, keeping aspect.
func NewMinimap(rect image.Rectangle, bb cp.BB) *Minimap {
	w, h := bb.R-bb.L, bb.T-bb.B
	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(float64(rect.Dx())/w, float64(rect.Dy())/h)
	}
	return &Minimap{
		rect:   rect,
		scale:  scale,
		origin: cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2},
	}
}

// Begin binds the frame and paints the backdrop.
func (m *Minimap) Begin(screen *ebiten.Image, backdrop color.Color) {
	m.screen = screen
	if dst, ok := screen.SubImage(m.rect).(*ebiten.Image); ok {
		dst.Fill(backdrop)
	}
}

// ToScreen maps a world point to pixels. World +Y is screen up.
func (m *Minimap) ToScreen(p cp.Vector) (x, y float64) {
	cx := float64(m.rect.Min.X) + float64(m.rect.Dx())/2
	cy := float64(m.rect.Min.Y) + float64(m.rect.Dy())/2
	return cx + (p.X-m.origin.X)*m.scale, cy - (p.Y-m.origin.Y)*m.scale
}

// Line strokes a world segment.
func (m *Minimap) Line(a, b cp.Vector, clr color.Color) {
	if m.screen == nil {
		return
	}
	ax, ay := m.ToScreen(a)
	bx, by := m.ToScreen(b)
	vector.StrokeLine(m.screen, float32(ax), float32(ay), float32(bx), float32(by), 1, clr, true)
}

func (m *Minimap) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	steps := 16
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / float64(steps))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		m.Line(prev, cur, c)
		prev = cur
	}
	m.Line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (m *Minimap) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	m.Line(a, b, fcolorToRGBA(fill))
}

func (m *Minimap) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	m.Line(a, b, fcolorToRGBA(outline))
}

func (m *Minimap) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(fill)
	for i := 0; i < count; i++ {
		m.Line(verts[i], verts[(i+1)%count], c)
	}
}

func (m *Minimap) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	l := size / 2 / m.scale
	m.Line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	m.Line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (m *Minimap) Flags() uint {
	return cp.DRAW_SHAPES
}

func (m *Minimap) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor uses the colour stored in the shape's user data, if any.
func (m *Minimap) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if c, ok := shape.UserData.(color.Color); ok {
		return rgbaToFColor(c)
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (m *Minimap) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (m *Minimap) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (m *Minimap) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

func rgbaToFColor(c color.Color) cp.FColor {
	r, g, b, a := c.RGBA()
	return cp.FColor{R: float32(r) / 0xffff, G: float32(g) / 0xffff, B: float32(b) / 0xffff, A: float32(a) / 0xffff}
}
