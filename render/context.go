package render

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartcam/obj"
)

// toEye turns camera-local axes (X right, Y forward, Z up) into eye space
// (X right, Y up, looking down -Z).
var toEye = mgl64.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// Context is the backend state of one camera. It implements obj.Backend.
type Context struct {
	r *Renderer

	viewport image.Rectangle // top-left origin, screen pixels
	fov      obj.FOV
	near     float64
	far      float64
	pose     obj.Pose
}

func (c *Context) MakeCurrent() {
	c.r.current = c
}

// SetViewportPixels takes a bottom-left origin rectangle and stores it in
// screen space.
func (c *Context) SetViewportPixels(x, y, w, h int) {
	top := c.r.height - (y + h)
	c.viewport = image.Rect(x, top, x+w, top+h)
}

func (c *Context) SetFieldOfView(horizontal, vertical float64) {
	c.fov = obj.FOV{Horizontal: horizontal, Vertical: vertical}
}

func (c *Context) SetDepthRange(near, far float64) {
	c.near = near
	c.far = far
}

func (c *Context) SetCameraPose(p obj.Pose) {
	c.pose = p
}

// Viewport returns the screen rectangle, top-left origin.
func (c *Context) Viewport() image.Rectangle {
	return c.viewport
}

// Pose returns the camera pose last set.
func (c *Context) Pose() obj.Pose {
	return c.pose
}

// Projection returns the perspective frustum for the current viewport.
func (c *Context) Projection() mgl64.Mat4 {
	tanH := math.Tan(mgl64.DegToRad(c.fov.Horizontal) / 2)
	var tanV float64
	if c.fov.Vertical > 0 {
		tanV = math.Tan(mgl64.DegToRad(c.fov.Vertical) / 2)
	} else if w := c.viewport.Dx(); w > 0 {
		tanV = tanH * float64(c.viewport.Dy()) / float64(w)
	} else {
		tanV = tanH
	}
	n := c.near
	return mgl64.Frustum(-n*tanH, n*tanH, -n*tanV, n*tanV, n, c.far)
}

// View returns the world-to-eye matrix.
func (c *Context) View() mgl64.Mat4 {
	return toEye.Mul4(c.pose.Inverse().Mat4())
}

// Project maps a world point to screen pixels inside the viewport. ok is
// false when the point is behind the camera or outside the depth range.
func (c *Context) Project(p mgl64.Vec3) (x, y float64, ok bool) {
	eye := c.View().Mul4x1(p.Vec4(1)).Vec3()
	if -eye[2] < c.near || -eye[2] > c.far {
		return 0, 0, false
	}
	x, y = c.toScreen(eye)
	return x, y, true
}

// Segment projects a world segment, cutting it at the near plane. ok is false
// when the whole segment is behind the near plane or past the far plane.
func (c *Context) Segment(a, b mgl64.Vec3) (ax, ay, bx, by float64, ok bool) {
	view := c.View()
	ea := view.Mul4x1(a.Vec4(1)).Vec3()
	eb := view.Mul4x1(b.Vec4(1)).Vec3()
	zn := -c.near
	switch {
	case ea[2] > zn && eb[2] > zn:
		return 0, 0, 0, 0, false
	case ea[2] > zn:
		ea = clipToPlane(ea, eb, zn)
	case eb[2] > zn:
		eb = clipToPlane(eb, ea, zn)
	}
	if -ea[2] > c.far && -eb[2] > c.far {
		return 0, 0, 0, 0, false
	}
	ax, ay = c.toScreen(ea)
	bx, by = c.toScreen(eb)
	return ax, ay, bx, by, true
}

// clipToPlane moves out along the segment toward in until it reaches z.
func clipToPlane(out, in mgl64.Vec3, z float64) mgl64.Vec3 {
	t := (z - in[2]) / (out[2] - in[2])
	return in.Add(out.Sub(in).Mul(t))
}

func (c *Context) toScreen(eye mgl64.Vec3) (x, y float64) {
	clip := c.Projection().Mul4x1(eye.Vec4(1))
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	vp := c.viewport
	x = float64(vp.Min.X) + (nx+1)/2*float64(vp.Dx())
	y = float64(vp.Min.Y) + (1-ny)/2*float64(vp.Dy())
	return x, y
}
