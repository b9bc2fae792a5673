package render

import (
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartcam/obj"
)

const eps = 1e-6

func newTestContext(w, h int) (*Renderer, *Context) {
	r := &Renderer{width: w, height: h}
	c := r.NewContext()
	return r, c
}

func TestViewportFlipsToTopLeft(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       image.Rectangle
	}{
		{"full", 0, 0, 1280, 720, image.Rect(0, 0, 1280, 720)},
		{"bottom half", 0, 0, 1280, 360, image.Rect(0, 360, 1280, 720)},
		{"top half", 0, 360, 1280, 360, image.Rect(0, 0, 1280, 360)},
		{"bottom right", 640, 0, 640, 360, image.Rect(640, 360, 1280, 720)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestContext(1280, 720)
			c.SetViewportPixels(tt.x, tt.y, tt.w, tt.h)
			if got := c.Viewport(); got != tt.want {
				t.Fatalf("viewport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMakeCurrent(t *testing.T) {
	r, a := newTestContext(100, 100)
	b := r.NewContext()
	if r.Current() != nil {
		t.Fatalf("fresh renderer has a current context")
	}
	a.MakeCurrent()
	if r.Current() != a {
		t.Fatalf("current = %p, want a", r.Current())
	}
	b.MakeCurrent()
	if r.Current() != b {
		t.Fatalf("current = %p, want b", r.Current())
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		point mgl64.Vec3
		ok    bool
		x, y  float64
	}{
		{"ahead", mgl64.Vec3{0, 10, 0}, true, 50, 50},
		{"right edge", mgl64.Vec3{10, 10, 0}, true, 100, 50},
		{"left edge", mgl64.Vec3{-10, 10, 0}, true, 0, 50},
		{"above", mgl64.Vec3{0, 10, 5}, true, 50, 25},
		{"behind", mgl64.Vec3{0, -5, 0}, false, 0, 0},
		{"past far", mgl64.Vec3{0, 200, 0}, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestContext(100, 100)
			c.SetViewportPixels(0, 0, 100, 100)
			c.SetFieldOfView(90, 90)
			c.SetDepthRange(0.05, 100)
			c.SetCameraPose(obj.Identity())

			x, y, ok := c.Project(tt.point)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if math.Abs(x-tt.x) > eps || math.Abs(y-tt.y) > eps {
				t.Fatalf("projected (%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestProjectFollowsPose(t *testing.T) {
	_, c := newTestContext(200, 100)
	c.SetViewportPixels(0, 0, 200, 100)
	c.SetFieldOfView(90, 0)
	c.SetDepthRange(0.05, 100)
	// turned to face -X from (5, 0, 0)
	c.SetCameraPose(obj.PoseFromHPR(mgl64.Vec3{5, 0, 0}, 90, 0, 0))

	x, y, ok := c.Project(mgl64.Vec3{-5, 0, 0})
	if !ok {
		t.Fatalf("point in front reported clipped")
	}
	if math.Abs(x-100) > eps || math.Abs(y-50) > eps {
		t.Fatalf("projected (%v, %v), want viewport centre", x, y)
	}
}

func TestDerivedVerticalFOV(t *testing.T) {
	_, c := newTestContext(200, 100)
	c.SetViewportPixels(0, 0, 200, 100)
	c.SetFieldOfView(90, 0)
	c.SetDepthRange(0.05, 100)
	c.SetCameraPose(obj.Identity())

	// half-height tangent is 0.5 at this aspect, so z = 5 at depth 10 is the top edge.
	_, y, ok := c.Project(mgl64.Vec3{0, 10, 5})
	if !ok {
		t.Fatalf("point reported clipped")
	}
	if math.Abs(y) > eps {
		t.Fatalf("y = %v, want top edge 0", y)
	}
}

func TestProjectOffsetViewport(t *testing.T) {
	_, c := newTestContext(1280, 720)
	// lower-right quadrant
	c.SetViewportPixels(640, 0, 640, 360)
	c.SetFieldOfView(50, 0)
	c.SetDepthRange(0.05, 100)
	c.SetCameraPose(obj.Identity())

	x, y, ok := c.Project(mgl64.Vec3{0, 10, 0})
	if !ok {
		t.Fatalf("point reported clipped")
	}
	if math.Abs(x-960) > eps || math.Abs(y-540) > eps {
		t.Fatalf("projected (%v, %v), want (960, 540)", x, y)
	}
}

func TestSegmentClipsAtNearPlane(t *testing.T) {
	tests := []struct {
		name   string
		a, b   mgl64.Vec3
		ok     bool
		ax, ay float64
		bx, by float64
	}{
		{"in front", mgl64.Vec3{0, 10, 0}, mgl64.Vec3{10, 10, 0}, true, 50, 50, 100, 50},
		{"starts behind", mgl64.Vec3{0, -5, 0}, mgl64.Vec3{0, 10, 0}, true, 50, 50, 50, 50},
		{"ends behind", mgl64.Vec3{0, 10, 5}, mgl64.Vec3{0, -10, 5}, true, 50, 25, 50, -4950},
		{"all behind", mgl64.Vec3{0, -5, 0}, mgl64.Vec3{3, -1, 0}, false, 0, 0, 0, 0},
		{"all past far", mgl64.Vec3{0, 150, 0}, mgl64.Vec3{0, 300, 0}, false, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestContext(100, 100)
			c.SetViewportPixels(0, 0, 100, 100)
			c.SetFieldOfView(90, 90)
			c.SetDepthRange(0.05, 100)
			c.SetCameraPose(obj.Identity())

			ax, ay, bx, by, ok := c.Segment(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			got := []float64{ax, ay, bx, by}
			want := []float64{tt.ax, tt.ay, tt.bx, tt.by}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-4 {
					t.Fatalf("segment = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestRendererSatisfiesCollaborators(t *testing.T) {
	var _ obj.Backend = (*Context)(nil)
	var _ obj.Screen = (*Renderer)(nil)
}
