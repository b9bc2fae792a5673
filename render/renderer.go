package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/kartcam/obj"
)

// Renderer draws wireframe geometry for whichever Context is current.
type Renderer struct {
	screen  *ebiten.Image
	width   int
	height  int
	current *Context
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Begin binds the frame image. Call at the top of Draw; the size is re-read
// every frame so window resizes are picked up.
func (r *Renderer) Begin(screen *ebiten.Image) {
	r.screen = screen
	b := screen.Bounds()
	r.width = b.Dx()
	r.height = b.Dy()
	r.current = nil
}

func (r *Renderer) ScreenWidth() int {
	return r.width
}

func (r *Renderer) ScreenHeight() int {
	return r.height
}

// NewContext creates backend state for one camera.
func (r *Renderer) NewContext() *Context {
	return &Context{r: r, pose: obj.Identity(), near: obj.NearClip, far: obj.DefaultFarClip}
}

// Current returns the context made current last, or nil.
func (r *Renderer) Current() *Context {
	return r.current
}

func (r *Renderer) target() *ebiten.Image {
	if r.screen == nil || r.current == nil {
		return nil
	}
	img, ok := r.screen.SubImage(r.current.viewport).(*ebiten.Image)
	if !ok {
		return nil
	}
	return img
}

// Clear fills the current viewport.
func (r *Renderer) Clear(clr color.Color) {
	if dst := r.target(); dst != nil {
		dst.Fill(clr)
	}
}

// Line strokes a world-space segment, cut at the near plane.
func (r *Renderer) Line(a, b mgl64.Vec3, width float32, clr color.Color) {
	dst := r.target()
	if dst == nil {
		return
	}
	ax, ay, bx, by, ok := r.current.Segment(a, b)
	if !ok {
		return
	}
	vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), width, clr, true)
}

// Polyline strokes consecutive points, closing the loop when closed is set.
func (r *Renderer) Polyline(pts []mgl64.Vec3, closed bool, width float32, clr color.Color) {
	for i := 1; i < len(pts); i++ {
		r.Line(pts[i-1], pts[i], width, clr)
	}
	if closed && len(pts) > 2 {
		r.Line(pts[len(pts)-1], pts[0], width, clr)
	}
}

// Box strokes an oriented box sitting on the pose's ground plane.
func (r *Renderer) Box(pose obj.Pose, width, length, height float64, clr color.Color) {
	hw, hl := width/2, length/2
	base := []mgl64.Vec3{{-hw, -hl, 0}, {hw, -hl, 0}, {hw, hl, 0}, {-hw, hl, 0}}
	bottom := make([]mgl64.Vec3, 4)
	top := make([]mgl64.Vec3, 4)
	for i, p := range base {
		bottom[i] = pose.Apply(p)
		top[i] = pose.Apply(p.Add(mgl64.Vec3{0, 0, height}))
	}
	r.Polyline(bottom, true, 2, clr)
	r.Polyline(top, true, 2, clr)
	for i := range bottom {
		r.Line(bottom[i], top[i], 2, clr)
	}
	// nose marker
	r.Line(pose.Apply(mgl64.Vec3{0, 0, height}), pose.Apply(mgl64.Vec3{0, hl * 1.5, height}), 2, clr)
}

// Label prints text at the top-left of the current viewport.
func (r *Renderer) Label(msg string) {
	if r.screen == nil || r.current == nil {
		return
	}
	vp := r.current.viewport
	ebitenutil.DebugPrintAt(r.screen, msg, vp.Min.X+4, vp.Min.Y+4)
}
