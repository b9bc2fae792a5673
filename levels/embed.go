package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrUnknownTrack = errors.New("levels: unknown track")

// Track is a race track stored as JSON. Waypoints are the racing line in
// world units on the ground plane, driven in order and looping back.
type Track struct {
	Name      string       `json:"name"`
	Width     float64      `json:"width"`
	Fog       Fog          `json:"fog"`
	Waypoints [][2]float64 `json:"waypoints"`
}

type Fog struct {
	Enabled bool    `json:"enabled"`
	End     float64 `json:"end"`
}

func (t *Track) FogEnabled() bool {
	return t.Fog.Enabled
}

func (t *Track) FogEnd() float64 {
	return t.Fog.End
}

// Waypoint returns waypoint i, wrapping around the lap.
func (t *Track) Waypoint(i int) [2]float64 {
	n := len(t.Waypoints)
	return t.Waypoints[((i%n)+n)%n]
}

func (t *Track) validate() error {
	if len(t.Waypoints) < 2 {
		return fmt.Errorf("track %q: need at least 2 waypoints, got %d", t.Name, len(t.Waypoints))
	}
	if t.Fog.Enabled && t.Fog.End <= 0 {
		return fmt.Errorf("track %q: fog end must be positive, got %v", t.Name, t.Fog.End)
	}
	if t.Width <= 0 {
		t.Width = 8
	}
	return nil
}

// ParseTrack decodes and validates a track from JSON.
func ParseTrack(data []byte) (*Track, error) {
	var track Track
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("unmarshal track: %w", err)
	}
	if err := track.validate(); err != nil {
		return nil, err
	}
	return &track, nil
}

// LoadTrack loads an embedded track by basename; the .json suffix is optional.
func LoadTrack(name string) (*Track, error) {
	file := strings.TrimSpace(name)
	if !strings.HasSuffix(file, ".json") {
		file += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTrack, name)
		}
		return nil, fmt.Errorf("read track: %w", err)
	}
	track, err := ParseTrack(data)
	if err != nil {
		return nil, err
	}
	if track.Name == "" {
		track.Name = strings.TrimSuffix(file, ".json")
	}
	return track, nil
}

// Names lists the embedded tracks without their extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
