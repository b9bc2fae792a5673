package obj

import "github.com/go-gl/mathgl/mgl64"

// Clipping
const (
	NearClip       = 0.05
	DefaultFarClip = 1000.0
)

// Chase offsets in the target's frame (y = behind, z = above)
const (
	ChaseBack      = -3.5
	ChaseHeight    = 1.5
	CloseupBack    = -2.5
	CloseupHeight  = 1.5
	ChaseTilt      = -5.0  // degrees, negative pitches down
	CloseupTilt    = -15.0 // degrees
	SteerGain      = -10.0 // degrees of camera heading per unit of steer
	SteerSmoothing = 0.25  // relaxation rate per update
)

// RigOffset is the translation and downward tilt used by one family of modes.
type RigOffset struct {
	Offset mgl64.Vec3
	Tilt   float64
}

// Tuning holds the feel constants of the rig.
type Tuning struct {
	Chase          RigOffset
	Closeup        RigOffset
	SteerGain      float64
	SteerSmoothing float64
}

// DefaultTuning returns the shipped feel constants.
func DefaultTuning() Tuning {
	return Tuning{
		Chase: RigOffset{
			Offset: mgl64.Vec3{0, ChaseBack, ChaseHeight},
			Tilt:   ChaseTilt,
		},
		Closeup: RigOffset{
			Offset: mgl64.Vec3{0, CloseupBack, CloseupHeight},
			Tilt:   CloseupTilt,
		},
		SteerGain:      SteerGain,
		SteerSmoothing: SteerSmoothing,
	}
}

// offsetFor picks the rig offset for a mode.
func (t Tuning) offsetFor(m CameraMode) RigOffset {
	if m == ModeCloseup {
		return t.Closeup
	}
	return t.Chase
}
