package obj

import (
	"fmt"
	"math"

	"github.com/milk9111/kartcam/common"
)

// Camera follows one kart for one local player and owns that player's
// viewport, field of view and steer filter.
type Camera struct {
	target int
	mode   CameraMode
	tuning Tuning

	layout Layout
	depth  DepthRange

	// filtered steer offset in degrees, kept across mode switches
	steerOffset float64

	pose Pose
}

// NewCamera creates the camera for a player slot. The depth range follows the
// track fog so geometry past the fog is clipped.
func NewCamera(numPlayers, slot int, track Track) *Camera {
	c := &Camera{
		target: slot,
		mode:   ModeNormal,
		tuning: DefaultTuning(),
		depth:  DepthRange{Near: NearClip, Far: DefaultFarClip},
		pose:   Identity(),
	}
	if track != nil && track.FogEnabled() {
		c.depth.Far = track.FogEnd()
	}
	c.SetScreenPosition(numPlayers, slot)
	return c
}

// SetScreenPosition moves the camera to another split-screen slot.
func (c *Camera) SetScreenPosition(numPlayers, slot int) {
	c.layout = ComputeLayout(numPlayers, slot)
}

// SetMode switches the follow mode starting with the next Update.
func (c *Camera) SetMode(m CameraMode) {
	c.mode = m
}

// Mode returns the current follow mode.
func (c *Camera) Mode() CameraMode {
	return c.mode
}

// SetTarget selects the kart to follow. Out of range values fall back to the
// first kart on the next Update.
func (c *Camera) SetTarget(index int) {
	c.target = index
}

// Target returns the index of the followed kart.
func (c *Camera) Target() int {
	return c.target
}

// SetTuning replaces the feel constants. The steer filter keeps its state.
func (c *Camera) SetTuning(t Tuning) {
	c.tuning = t
}

func (c *Camera) Tuning() Tuning {
	return c.tuning
}

func (c *Camera) Viewport() Rect {
	return c.layout.Viewport
}

func (c *Camera) FOV() FOV {
	return c.layout.FOV
}

func (c *Camera) DepthRange() DepthRange {
	return c.depth
}

// SteerOffset returns the filtered steer offset in degrees.
func (c *Camera) SteerOffset() float64 {
	return c.steerOffset
}

// Pose returns the world pose computed by the last Update.
func (c *Camera) Pose() Pose {
	return c.pose
}

// Update recomputes the camera pose from the followed kart. Call once per
// simulation tick, before Apply.
func (c *Camera) Update(karts Vehicles) {
	count := karts.PlayerCount()
	if count <= 0 {
		panic("camera: no karts to follow")
	}
	if c.target >= count || c.target < 0 {
		c.target = 0
	}

	kart := karts.PoseOf(c.target)

	heading, _, _ := kart.HPR()
	if c.mode == ModeSimpleReplay {
		heading = 0
	}
	frame := PoseFromHPR(kart.Position, heading, 0, 0)

	rig := c.tuning.offsetFor(c.mode)
	relative := Translation(rig.Offset).Then(Rotation(0, rig.Tilt, 0))

	switch c.mode {
	case ModeNoFakeDrift:
		raw := karts.SteerAngleOf(c.target) * c.tuning.SteerGain
		c.steerOffset = common.Relax(raw, c.steerOffset, c.tuning.SteerSmoothing)
		relative = relative.Then(Rotation(c.steerOffset, 0, 0))
	case ModeNormal, ModeCloseup, ModeSimpleReplay:
	}

	c.pose = frame.Then(relative)
}

// Apply makes this camera's context current and pushes viewport, field of
// view, clipping and pose to the backend. It panics without an active scene.
func (c *Camera) Apply(backend Backend, screen Screen, world World) {
	if world == nil || !world.HasScene() {
		panic("camera: apply without an active scene")
	}

	x, y, w, h := c.ViewportPixels(screen.ScreenWidth(), screen.ScreenHeight())

	backend.MakeCurrent()
	backend.SetViewportPixels(x, y, w, h)
	backend.SetFieldOfView(c.layout.FOV.Horizontal, c.layout.FOV.Vertical)
	backend.SetDepthRange(c.depth.Near, c.depth.Far)
	backend.SetCameraPose(c.pose)
}

// ViewportPixels scales the normalized viewport to a screen size, truncating
// each component.
func (c *Camera) ViewportPixels(width, height int) (x, y, w, h int) {
	vp := c.layout.Viewport
	fw, fh := float64(width), float64(height)
	return int(math.Floor(fw * vp.X)),
		int(math.Floor(fh * vp.Y)),
		int(math.Floor(fw * vp.W)),
		int(math.Floor(fh * vp.H))
}

func (c *Camera) String() string {
	return fmt.Sprintf("camera target=%d mode=%s %s", c.target, c.mode, c.pose)
}
