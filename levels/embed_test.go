package levels

import (
	"errors"
	"testing"
)

func TestLoadTrack(t *testing.T) {
	cases := []struct {
		name    string
		fog     bool
		fogEnd  float64
		minWays int
	}{
		{"oval", true, 220, 4},
		{"figure8.json", false, 0, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			track, err := LoadTrack(c.name)
			if err != nil {
				t.Fatalf("LoadTrack(%q): %v", c.name, err)
			}
			if track.FogEnabled() != c.fog || track.FogEnd() != c.fogEnd {
				t.Fatalf("unexpected fog %+v", track.Fog)
			}
			if len(track.Waypoints) < c.minWays {
				t.Fatalf("expected at least %d waypoints, got %d", c.minWays, len(track.Waypoints))
			}
		})
	}
}

func TestLoadTrackUnknown(t *testing.T) {
	if _, err := LoadTrack("moon"); !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("expected ErrUnknownTrack, got %v", err)
	}
}

func TestParseTrackValidation(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad_json", `{"name": `},
		{"one_waypoint", `{"name": "x", "waypoints": [[0, 0]]}`},
		{"fog_without_end", `{"name": "x", "fog": {"enabled": true}, "waypoints": [[0, 0], [1, 1]]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseTrack([]byte(c.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseTrackDefaultsWidth(t *testing.T) {
	track, err := ParseTrack([]byte(`{"name": "x", "waypoints": [[0, 0], [0, 10]]}`))
	if err != nil {
		t.Fatalf("ParseTrack: %v", err)
	}
	if track.Width != 8 {
		t.Fatalf("expected default width 8, got %v", track.Width)
	}
	if got := track.Waypoint(-1); got != [2]float64{0, 10} {
		t.Fatalf("expected wrap to last waypoint, got %v", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "figure8" || names[1] != "oval" {
		t.Fatalf("unexpected track names %v", names)
	}
}
