package obj

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("camera: unknown mode")

// CameraMode selects how the rig follows its target.
type CameraMode int

const (
	ModeNormal CameraMode = iota
	ModeCloseup
	// ModeNoFakeDrift swings the camera against the steering input to hide
	// the kart's visual drift lean.
	ModeNoFakeDrift
	// ModeSimpleReplay keeps a world-aligned heading and only tracks position.
	ModeSimpleReplay
)

var modeNames = [...]string{
	ModeNormal:       "normal",
	ModeCloseup:      "closeup",
	ModeNoFakeDrift:  "no_fake_drift",
	ModeSimpleReplay: "simple_replay",
}

// Modes lists every mode in cycling order.
func Modes() []CameraMode {
	return []CameraMode{ModeNormal, ModeCloseup, ModeNoFakeDrift, ModeSimpleReplay}
}

func (m CameraMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("CameraMode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the mode after m, wrapping around.
func (m CameraMode) Next() CameraMode {
	return CameraMode((int(m) + 1) % len(modeNames))
}

// ParseMode accepts the names produced by String, case-insensitively.
// Dashes are treated as underscores.
func ParseMode(s string) (CameraMode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range modeNames {
		if name == key {
			return CameraMode(i), nil
		}
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
