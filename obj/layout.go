package obj

import "fmt"

// Rect is a viewport in fractions of the full screen, origin bottom-left.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether the normalized point lies inside r, using
// half-open bounds so adjacent rectangles never share a point.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// FOV is a field of view in degrees. Vertical 0 means derive it from the
// horizontal angle and the viewport aspect.
type FOV struct {
	Horizontal float64
	Vertical   float64
}

// Layout is where one player's view goes on screen.
type Layout struct {
	Viewport Rect
	FOV      FOV
}

// MaxPlayers is the largest supported split-screen player count.
const MaxPlayers = 4

var (
	fovSingle = FOV{Horizontal: 75}
	fovDual   = FOV{Horizontal: 85, Vertical: 85.0 * 3.0 / 8.0}
	fovQuad   = FOV{Horizontal: 50}

	rectsSingle = []Rect{{0, 0, 1, 1}}
	rectsDual   = []Rect{
		{0, 0.5, 1, 0.5}, // top
		{0, 0, 1, 0.5},   // bottom
	}
	rectsQuad = []Rect{
		{0, 0.5, 0.5, 0.5},   // top left
		{0.5, 0.5, 0.5, 0.5}, // top right
		{0, 0, 0.5, 0.5},     // bottom left
		{0.5, 0, 0.5, 0.5},   // bottom right
	}
)

// ComputeLayout returns the viewport and field of view for a player slot.
// With three players the bottom-right quadrant stays free for the HUD.
// It panics when the slot is not valid for the player count.
func ComputeLayout(playerCount, slot int) Layout {
	if slot < 0 || slot >= playerCount {
		panic(fmt.Sprintf("camera: slot %d out of range for %d players", slot, playerCount))
	}

	switch playerCount {
	case 1:
		return Layout{Viewport: rectsSingle[slot], FOV: fovSingle}
	case 2:
		return Layout{Viewport: rectsDual[slot], FOV: fovDual}
	case 3, 4:
		return Layout{Viewport: rectsQuad[slot], FOV: fovQuad}
	default:
		panic(fmt.Sprintf("camera: unsupported player count %d", playerCount))
	}
}
