package system

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/kartcam/common"
	"github.com/milk9111/kartcam/prefabs"
)

// DriveInput is what a driver sees each tick. Angles are radians using the
// kart heading convention (0 faces +Y, positive turns left).
type DriveInput struct {
	Heading float64
	Bearing float64
	Speed   float64
}

// Driver decides steering in [-1, 1] and throttle in [0, 1].
type Driver interface {
	Drive(in DriveInput) (steer, throttle float64)
}

// DriverFunc adapts a plain function to Driver.
type DriverFunc func(in DriveInput) (steer, throttle float64)

func (f DriverFunc) Drive(in DriveInput) (float64, float64) {
	return f(in)
}

// DriverFactory builds the driver for kart i.
type DriverFactory func(i int) (Driver, error)

// ScriptProgram is a compiled driver script shared by all karts.
type ScriptProgram struct {
	name     string
	compiled *tengo.Compiled
	logger   *log.Logger
}

// LoadScriptProgram compiles a driver script from prefabs/scripts.
func LoadScriptProgram(name string, logger *log.Logger) (*ScriptProgram, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("driver: load script %s: %w", name, err)
	}
	return CompileScriptProgram(name, src, logger)
}

// CompileScriptProgram compiles driver source. The script reads heading,
// bearing and speed and assigns steer and throttle.
func CompileScriptProgram(name string, src []byte, logger *log.Logger) (*ScriptProgram, error) {
	script := tengo.NewScript(src)
	for _, v := range []string{"heading", "bearing", "speed", "steer", "throttle"} {
		if err := script.Add(v, 0.0); err != nil {
			return nil, fmt.Errorf("driver: declare %s: %w", v, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("driver: compile %s: %w", name, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ScriptProgram{name: name, compiled: compiled, logger: logger}, nil
}

// Factory returns a DriverFactory handing each kart its own clone.
func (p *ScriptProgram) Factory() DriverFactory {
	return func(i int) (Driver, error) {
		return &ScriptDriver{program: p, compiled: p.compiled.Clone(), kart: i}, nil
	}
}

// ScriptDriver runs one clone of a ScriptProgram. On a script error it logs
// once and coasts straight with no throttle.
type ScriptDriver struct {
	program  *ScriptProgram
	compiled *tengo.Compiled
	kart     int
	failed   bool
}

func (d *ScriptDriver) Drive(in DriveInput) (float64, float64) {
	if d.failed {
		return 0, 0
	}
	steer, throttle, err := d.run(in)
	if err != nil {
		d.failed = true
		d.program.logger.Error("driver script failed", "script", d.program.name, "kart", d.kart, "err", err)
		return 0, 0
	}
	return common.Clamp(steer, -1, 1), common.Clamp(throttle, 0, 1)
}

func (d *ScriptDriver) run(in DriveInput) (float64, float64, error) {
	if err := d.compiled.Set("heading", in.Heading); err != nil {
		return 0, 0, err
	}
	if err := d.compiled.Set("bearing", in.Bearing); err != nil {
		return 0, 0, err
	}
	if err := d.compiled.Set("speed", in.Speed); err != nil {
		return 0, 0, err
	}
	if err := d.compiled.Run(); err != nil {
		return 0, 0, err
	}
	return d.compiled.Get("steer").Float(), d.compiled.Get("throttle").Float(), nil
}
