package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kartcam/common"
	"github.com/milk9111/kartcam/levels"
	"github.com/milk9111/kartcam/obj"
	"github.com/milk9111/kartcam/prefabs"
	"golang.org/x/image/colornames"
)

// KartParams tunes kart handling. Zero values are replaced by defaults.
type KartParams struct {
	Length      float64
	Width       float64
	Mass        float64
	EngineForce float64
	TopSpeed    float64
	TurnRate    float64 // radians per second at full steer
	Grip        float64 // fraction of sideways speed removed per second
	Colors      []color.Color
}

func DefaultKartParams() KartParams {
	return KartParams{
		Length:      1.6,
		Width:       1.0,
		Mass:        1,
		EngineForce: 14,
		TopSpeed:    18,
		TurnRate:    2.2,
		Grip:        6,
		Colors:      []color.Color{colornames.Crimson, colornames.Steelblue, colornames.Seagreen, colornames.Orange},
	}
}

// KartParamsFromSpec fills params from a kart prefab.
func KartParamsFromSpec(spec *prefabs.KartSpec) KartParams {
	p := DefaultKartParams()
	if spec == nil {
		return p
	}
	set := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	set(&p.Length, spec.Length)
	set(&p.Width, spec.Width)
	set(&p.Mass, spec.Mass)
	set(&p.EngineForce, spec.EngineForce)
	set(&p.TopSpeed, spec.TopSpeed)
	set(&p.TurnRate, spec.TurnRate)
	set(&p.Grip, spec.Grip)
	if len(spec.Colors) > 0 {
		p.Colors = make([]color.Color, 0, len(spec.Colors))
		for _, c := range spec.Colors {
			p.Colors = append(p.Colors, c.Color)
		}
	}
	return p
}

// Kart is one simulated vehicle.
type Kart struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Color    color.Color
	driver   Driver
	steer    float64
	waypoint int
	laps     int
}

// Steer returns the last steering input in [-1, 1].
func (k *Kart) Steer() float64 {
	return k.steer
}

// Laps returns the number of completed laps.
func (k *Kart) Laps() int {
	return k.laps
}

// World owns the track, the physics space and the karts. It is the vehicle
// provider and scene for the cameras.
type World struct {
	Track  *levels.Track
	space  *cp.Space
	karts  []*Kart
	params KartParams
	logger *log.Logger
}

// NewWorld spawns count karts on a grid behind the first waypoint.
func NewWorld(track *levels.Track, count int, params KartParams, drivers DriverFactory, logger *log.Logger) (*World, error) {
	if track == nil {
		return nil, fmt.Errorf("world: nil track")
	}
	if count <= 0 {
		return nil, fmt.Errorf("world: need at least one kart, got %d", count)
	}
	if logger == nil {
		logger = log.Default()
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	w := &World{
		Track:  track,
		space:  space,
		params: params,
		logger: logger,
	}

	start := track.Waypoint(0)
	next := track.Waypoint(1)
	heading := bearing(start, next)
	fwd := forward(heading)
	right := cp.Vector{X: fwd.Y, Y: -fwd.X}

	for i := 0; i < count; i++ {
		driver, err := drivers(i)
		if err != nil {
			return nil, fmt.Errorf("world: driver for kart %d: %w", i, err)
		}

		row := float64(i / 2)
		side := -1.0
		if i%2 == 1 {
			side = 1
		}
		pos := cp.Vector{X: start[0], Y: start[1]}.
			Sub(fwd.Mult((row + 1) * params.Length * 2)).
			Add(right.Mult(side * params.Width * 1.2))

		body := cp.NewBody(params.Mass, cp.MomentForBox(params.Mass, params.Width, params.Length))
		body.SetPosition(pos)
		body.SetAngle(heading)
		shape := cp.NewBox(body, params.Width, params.Length, 0)
		shape.SetFriction(0.4)
		shape.SetElasticity(0.2)
		space.AddBody(body)
		space.AddShape(shape)

		var col color.Color = colornames.White
		if len(params.Colors) > 0 {
			col = params.Colors[i%len(params.Colors)]
		}
		shape.UserData = col
		w.karts = append(w.karts, &Kart{Body: body, Shape: shape, Color: col, driver: driver, waypoint: 1})
	}

	logger.Debug("world ready", "track", track.Name, "karts", count)
	return w, nil
}

// SetDrivers swaps every kart's driver, e.g. after a script reload.
func (w *World) SetDrivers(drivers DriverFactory) error {
	next := make([]Driver, len(w.karts))
	for i := range w.karts {
		d, err := drivers(i)
		if err != nil {
			return fmt.Errorf("world: driver for kart %d: %w", i, err)
		}
		next[i] = d
	}
	for i, k := range w.karts {
		k.driver = next[i]
	}
	return nil
}

// SetKartParams changes handling for subsequent steps. Body size and mass
// stay as spawned.
func (w *World) SetKartParams(p KartParams) {
	w.params = p
}

// Karts returns the simulated karts in index order.
func (w *World) Karts() []*Kart {
	return w.karts
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	for i, k := range w.karts {
		w.drive(i, k, dt)
	}
	w.space.Step(dt)
}

func (w *World) drive(i int, k *Kart, dt float64) {
	body := k.Body
	pos := body.Position()
	target := w.Track.Waypoint(k.waypoint)
	if pos.Distance(cp.Vector{X: target[0], Y: target[1]}) < w.Track.Width {
		k.waypoint++
		if k.waypoint%len(w.Track.Waypoints) == 1 {
			k.laps++
			w.logger.Debug("lap", "kart", i, "laps", k.laps)
		}
		target = w.Track.Waypoint(k.waypoint)
	}

	heading := body.Angle()
	fwd := forward(heading)
	vel := body.Velocity()
	speed := vel.Dot(fwd)

	steer, throttle := k.driver.Drive(DriveInput{
		Heading: heading,
		Bearing: bearing([2]float64{pos.X, pos.Y}, target),
		Speed:   speed,
	})
	k.steer = steer

	// steering authority fades in at low speed so parked karts don't spin
	authority := common.Clamp(math.Abs(speed)/4, 0, 1)
	body.SetAngularVelocity(steer * w.params.TurnRate * authority)

	if speed < w.params.TopSpeed {
		body.ApplyForceAtLocalPoint(cp.Vector{X: 0, Y: throttle * w.params.EngineForce * body.Mass()}, cp.Vector{})
	}

	right := cp.Vector{X: fwd.Y, Y: -fwd.X}
	side := vel.Dot(right)
	keep := 1 - common.Clamp(w.params.Grip*dt, 0, 1)
	body.SetVelocityVector(vel.Sub(right.Mult(side * (1 - keep))))
}

// Bounds returns the track extent padded by the track width.
func (w *World) Bounds() cp.BB {
	bb := cp.BB{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for _, p := range w.Track.Waypoints {
		bb.L, bb.R = math.Min(bb.L, p[0]), math.Max(bb.R, p[0])
		bb.B, bb.T = math.Min(bb.B, p[1]), math.Max(bb.T, p[1])
	}
	pad := w.Track.Width
	return cp.BB{L: bb.L - pad, B: bb.B - pad, R: bb.R + pad, T: bb.T + pad}
}

// DebugDraw renders the physics shapes through d.
func (w *World) DebugDraw(d cp.Drawer) {
	cp.DrawSpace(w.space, d)
}

// PlayerCount is the number of karts a camera may follow.
func (w *World) PlayerCount() int {
	return len(w.karts)
}

// PoseOf returns the kart pose on the ground plane.
func (w *World) PoseOf(i int) obj.Pose {
	body := w.karts[i].Body
	p := body.Position()
	return obj.PoseFromHPR(mgl64.Vec3{p.X, p.Y, 0}, mgl64.RadToDeg(body.Angle()), 0, 0)
}

// SteerAngleOf returns the last steering input of kart i.
func (w *World) SteerAngleOf(i int) float64 {
	return w.karts[i].steer
}

// HasScene reports whether there is a track with karts to draw.
func (w *World) HasScene() bool {
	return w != nil && w.Track != nil && len(w.karts) > 0
}

// bearing returns the heading that points from a to b.
func bearing(a, b [2]float64) float64 {
	return math.Atan2(-(b[0] - a[0]), b[1]-a[1])
}

func forward(heading float64) cp.Vector {
	return cp.Vector{X: -math.Sin(heading), Y: math.Cos(heading)}
}
