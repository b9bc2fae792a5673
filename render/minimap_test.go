package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"
)

func TestMinimapToScreen(t *testing.T) {
	// 200x100 world into a 100x100 box: scale 0.5, letterboxed vertically.
	m := NewMinimap(image.Rect(10, 20, 110, 120), cp.BB{L: -100, B: -50, R: 100, T: 50})

	tests := []struct {
		name string
		in   cp.Vector
		x, y float64
	}{
		{"centre", cp.Vector{X: 0, Y: 0}, 60, 70},
		{"right edge", cp.Vector{X: 100, Y: 0}, 110, 70},
		{"top is up", cp.Vector{X: 0, Y: 50}, 60, 45},
		{"bottom left", cp.Vector{X: -100, Y: -50}, 10, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := m.ToScreen(tt.in)
			if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
				t.Fatalf("ToScreen(%v) = (%v, %v), want (%v, %v)", tt.in, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestMinimapShapeColorUsesUserData(t *testing.T) {
	m := NewMinimap(image.Rect(0, 0, 10, 10), cp.BB{L: 0, B: 0, R: 1, T: 1})
	body := cp.NewBody(1, 1)
	shape := cp.NewBox(body, 1, 1, 0)
	shape.UserData = colornames.Red

	got := fcolorToRGBA(m.ShapeColor(shape, nil))
	want := color.RGBA{R: 0xff, A: 0xff}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("shape colour mismatch (-want +got):\n%s", diff)
	}
}

func TestFColorClamps(t *testing.T) {
	got := fcolorToRGBA(cp.FColor{R: -1, G: 0.5, B: 2, A: 1})
	want := color.RGBA{R: 0, G: 127, B: 255, A: 255}
	if got != want {
		t.Fatalf("fcolorToRGBA = %v, want %v", got, want)
	}
}
