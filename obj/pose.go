package obj

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes: X right, Y forward, Z up. Heading rotates about Z (0 faces +Y,
// positive turns toward -X), pitch about X (positive noses up), roll about Y.
var (
	axisRight   = mgl64.Vec3{1, 0, 0}
	axisForward = mgl64.Vec3{0, 1, 0}
	axisUp      = mgl64.Vec3{0, 0, 1}
)

// Pose is a rigid transform: orientation applied first, then translation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Identity returns the pose at the origin facing +Y.
func Identity() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// Translation returns a pose that only moves by v.
func Translation(v mgl64.Vec3) Pose {
	return Pose{Position: v, Orientation: mgl64.QuatIdent()}
}

// Rotation returns a pose that only rotates by the given angles in degrees.
func Rotation(heading, pitch, roll float64) Pose {
	return Pose{Orientation: hprQuat(heading, pitch, roll)}
}

// PoseFromHPR builds a pose from a position and heading/pitch/roll in degrees.
func PoseFromHPR(pos mgl64.Vec3, heading, pitch, roll float64) Pose {
	return Pose{Position: pos, Orientation: hprQuat(heading, pitch, roll)}
}

func hprQuat(heading, pitch, roll float64) mgl64.Quat {
	h := mgl64.QuatRotate(mgl64.DegToRad(heading), axisUp)
	p := mgl64.QuatRotate(mgl64.DegToRad(pitch), axisRight)
	r := mgl64.QuatRotate(mgl64.DegToRad(roll), axisForward)
	return h.Mul(p).Mul(r).Normalize()
}

// Then returns p ∘ local: local is expressed in p's frame.
func (p Pose) Then(local Pose) Pose {
	return Pose{
		Position:    p.Position.Add(p.Orientation.Rotate(local.Position)),
		Orientation: p.Orientation.Mul(local.Orientation).Normalize(),
	}
}

// Apply maps a point from p's local frame into the parent frame.
func (p Pose) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(v))
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Inverse()
	return Pose{
		Position:    inv.Rotate(p.Position.Mul(-1)),
		Orientation: inv,
	}
}

// Forward returns the local +Y axis in world space.
func (p Pose) Forward() mgl64.Vec3 {
	return p.Orientation.Rotate(axisForward)
}

// Up returns the local +Z axis in world space.
func (p Pose) Up() mgl64.Vec3 {
	return p.Orientation.Rotate(axisUp)
}

// Mat4 returns the column-major local-to-world matrix.
func (p Pose) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).Mul4(p.Orientation.Mat4())
}

// HPR decomposes the orientation into heading, pitch and roll in degrees.
// At straight up or down the roll is folded into the heading.
func (p Pose) HPR() (heading, pitch, roll float64) {
	f := p.Orientation.Rotate(axisForward)
	r := p.Orientation.Rotate(axisRight)
	u := p.Orientation.Rotate(axisUp)

	sp := mgl64.Clamp(f[2], -1, 1)
	pitch = math.Asin(sp)
	if math.Abs(sp) > 1-1e-9 {
		heading = math.Atan2(r[1], r[0])
		return mgl64.RadToDeg(heading), mgl64.RadToDeg(pitch), 0
	}
	heading = math.Atan2(-f[0], f[1])
	roll = math.Atan2(-r[2], u[2])
	return mgl64.RadToDeg(heading), mgl64.RadToDeg(pitch), mgl64.RadToDeg(roll)
}

func (p Pose) String() string {
	h, pi, r := p.HPR()
	return fmt.Sprintf("xyz=(%.3f, %.3f, %.3f) hpr=(%.2f, %.2f, %.2f)",
		p.Position[0], p.Position[1], p.Position[2], h, pi, r)
}
