package system

import (
	"errors"
	"image/color"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/kartcam/levels"
	"github.com/milk9111/kartcam/obj"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func straightTrack() *levels.Track {
	return &levels.Track{
		Name:      "straight",
		Width:     4,
		Waypoints: [][2]float64{{0, 0}, {0, 500}},
	}
}

func constant(steer, throttle float64) DriverFactory {
	return func(int) (Driver, error) {
		return DriverFunc(func(DriveInput) (float64, float64) { return steer, throttle }), nil
	}
}

func TestNewWorldErrors(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		track   *levels.Track
		count   int
		drivers DriverFactory
	}{
		{"nil_track", nil, 1, constant(0, 0)},
		{"no_karts", straightTrack(), 0, constant(0, 0)},
		{"driver_error", straightTrack(), 2, func(int) (Driver, error) { return nil, boom }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewWorld(c.track, c.count, DefaultKartParams(), c.drivers, quietLogger()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWorldImplementsCameraCollaborators(t *testing.T) {
	w, err := NewWorld(straightTrack(), 3, DefaultKartParams(), constant(0.5, 0), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	var karts obj.Vehicles = w
	var scene obj.World = w
	if karts.PlayerCount() != 3 || !scene.HasScene() {
		t.Fatalf("expected 3 karts and a scene")
	}

	for i := 0; i < 3; i++ {
		h, p, r := w.PoseOf(i).HPR()
		if math.Abs(h) > 1e-9 || p != 0 || r != 0 {
			t.Fatalf("kart %d: expected grid heading 0, got (%v, %v, %v)", i, h, p, r)
		}
		if y := w.PoseOf(i).Position[1]; y >= 0 {
			t.Fatalf("kart %d should start behind the line, got y=%v", i, y)
		}
	}

	w.Step(1.0 / 60)
	if got := w.SteerAngleOf(1); got != 0.5 {
		t.Fatalf("expected steer 0.5, got %v", got)
	}
}

func TestWorldKartDrivesForward(t *testing.T) {
	w, err := NewWorld(straightTrack(), 1, DefaultKartParams(), constant(0, 1), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	start := w.PoseOf(0).Position

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}

	end := w.PoseOf(0).Position
	if end[1]-start[1] < 5 {
		t.Fatalf("expected kart to move up the track, moved %v", end[1]-start[1])
	}
	if math.Abs(end[0]-start[0]) > 1e-6 {
		t.Fatalf("expected no sideways drift, moved %v", end[0]-start[0])
	}
	if speed := w.Karts()[0].Body.Velocity().Length(); speed > DefaultKartParams().TopSpeed+1 {
		t.Fatalf("speed %v exceeds top speed", speed)
	}
}

func TestWorldKartTurnsLeftWithPositiveSteer(t *testing.T) {
	w, err := NewWorld(straightTrack(), 1, DefaultKartParams(), constant(1, 1), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}
	if h, _, _ := w.PoseOf(0).HPR(); h <= 0 {
		t.Fatalf("expected heading to increase, got %v", h)
	}
}

func TestWorldSetDrivers(t *testing.T) {
	w, err := NewWorld(straightTrack(), 2, DefaultKartParams(), constant(0, 0), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if err := w.SetDrivers(constant(-1, 0)); err != nil {
		t.Fatalf("SetDrivers: %v", err)
	}
	w.Step(1.0 / 60)
	if w.SteerAngleOf(0) != -1 || w.SteerAngleOf(1) != -1 {
		t.Fatalf("expected new drivers to steer -1")
	}
	if err := w.SetDrivers(func(int) (Driver, error) { return nil, errors.New("nope") }); err == nil {
		t.Fatalf("expected error from failing factory")
	}
	w.Step(1.0 / 60)
	if w.SteerAngleOf(0) != -1 {
		t.Fatalf("failed swap must keep previous drivers")
	}
}

func TestBearing(t *testing.T) {
	cases := []struct {
		name string
		to   [2]float64
		want float64
	}{
		{"north", [2]float64{0, 1}, 0},
		{"west", [2]float64{-1, 0}, math.Pi / 2},
		{"east", [2]float64{1, 0}, -math.Pi / 2},
	}
	for _, c := range cases {
		if got := bearing([2]float64{}, c.to); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
		f := forward(c.want)
		if math.Abs(f.X-c.to[0]) > 1e-12 || math.Abs(f.Y-c.to[1]) > 1e-12 {
			t.Fatalf("%s: forward(%v) = %v", c.name, c.want, f)
		}
	}
}

func TestWorldBounds(t *testing.T) {
	w, err := NewWorld(straightTrack(), 1, DefaultKartParams(), constant(0, 0), quietLogger())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	bb := w.Bounds()
	if bb.L != -4 || bb.R != 4 || bb.B != -4 || bb.T != 504 {
		t.Fatalf("bounds = %+v, want L-4 R4 B-4 T504", bb)
	}
	if _, ok := w.Karts()[0].Shape.UserData.(color.Color); !ok {
		t.Fatalf("kart shape has no colour user data")
	}
}
