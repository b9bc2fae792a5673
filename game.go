package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/kartcam/levels"
	"github.com/milk9111/kartcam/obj"
	"github.com/milk9111/kartcam/prefabs"
	"github.com/milk9111/kartcam/render"
	"github.com/milk9111/kartcam/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate   = 60
	kartHeight = 0.6
	gridStep   = 10.0
	mapSize    = 180
)

var (
	skyColor   = color.RGBA{R: 0x1d, G: 0x23, B: 0x2b, A: 0xff}
	mapColor   = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xb0}
	gridColor  = color.RGBA{R: 0x2f, G: 0x3a, B: 0x44, A: 0xff}
	trackColor = colornames.Whitesmoke
)

type Game struct {
	logger *log.Logger
	frames int
	input  *Input

	track   *levels.Track
	world   *system.World
	kart    *prefabs.KartSpec
	body    system.KartParams // size as spawned
	cameras []*obj.Camera

	renderer *render.Renderer
	contexts []*render.Context
	minimap  *render.Minimap
	showMap  bool

	leftEdge, rightEdge []mgl64.Vec3
	grid                [][2]mgl64.Vec3

	watcher   *prefabs.Watcher
	clipboard bool

	paused  bool
	pauseUI *ebitenui.UI
}

func NewGame(cfg *runConfig, logger *log.Logger) (*Game, error) {
	track, err := levels.LoadTrack(cfg.track)
	if err != nil {
		return nil, err
	}

	kart, err := prefabs.LoadKartSpec()
	if err != nil {
		return nil, err
	}
	program, err := system.LoadScriptProgram(kart.Script, logger)
	if err != nil {
		return nil, err
	}
	params := system.KartParamsFromSpec(kart)
	world, err := system.NewWorld(track, obj.MaxPlayers, params, program.Factory(), logger)
	if err != nil {
		return nil, err
	}

	camSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	tuning, err := camSpec.Tuning()
	if err != nil {
		return nil, err
	}
	mode, err := camSpec.InitialMode()
	if err != nil {
		return nil, err
	}
	if cfg.mode != "" {
		if mode, err = obj.ParseMode(cfg.mode); err != nil {
			return nil, err
		}
	}

	g := &Game{
		logger:   logger,
		input:    NewInput(),
		track:    track,
		world:    world,
		kart:     kart,
		body:     params,
		renderer: render.NewRenderer(),
	}
	for i := 0; i < cfg.players; i++ {
		cam := obj.NewCamera(cfg.players, i, track)
		cam.SetTuning(tuning)
		cam.SetMode(mode)
		g.cameras = append(g.cameras, cam)
		g.contexts = append(g.contexts, g.renderer.NewContext())
	}
	g.leftEdge, g.rightEdge = trackOutline(track)
	g.grid = groundGrid(track)
	g.minimap = render.NewMinimap(image.Rect(baseWidth-mapSize-8, 8, baseWidth-8, 8+mapSize), world.Bounds())
	g.pauseUI = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboard = true
	}

	if cfg.watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
			logger.Info("watching prefabs", "dir", prefabs.Dir)
		}
	}

	logger.Info("ready", "track", track.Name, "players", cfg.players, "mode", mode)
	return g, nil
}

// Close releases the prefab watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.logger.Warn("close watcher", "err", err)
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	g.reload()
	g.input.Update()

	if g.input.Pause {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.input.CycleMode {
		g.SetMode(g.cameras[0].Mode().Next())
	}
	if g.input.CycleTarget {
		p1 := g.cameras[0]
		p1.SetTarget((p1.Target() + 1) % g.world.PlayerCount())
	}
	if g.input.CopyPose {
		g.copyPose()
	}
	if g.input.ToggleMap {
		g.showMap = !g.showMap
	}

	g.world.Step(1.0 / tickRate)
	for _, cam := range g.cameras {
		cam.Update(g.world)
	}
	return nil
}

// SetMode switches every camera to m.
func (g *Game) SetMode(m obj.CameraMode) {
	for _, cam := range g.cameras {
		cam.SetMode(m)
	}
	g.logger.Debug("camera mode", "mode", m)
}

func (g *Game) copyPose() {
	pose := g.cameras[0].Pose().String()
	if !g.clipboard {
		g.logger.Info("camera pose", "pose", pose)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(pose))
	g.logger.Info("copied camera pose", "pose", pose)
}

// reload applies prefab edits picked up by the watcher.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, ch := range g.watcher.Drain() {
		if err := g.applyChange(ch); err != nil {
			g.logger.Error("reload failed", "path", ch.Path, "err", err)
			continue
		}
		g.logger.Info("reloaded", "path", ch.Path)
	}
}

func (g *Game) applyChange(ch prefabs.Change) error {
	switch ch.Kind {
	case prefabs.ChangeCamera:
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			return err
		}
		tuning, err := spec.Tuning()
		if err != nil {
			return err
		}
		for _, cam := range g.cameras {
			cam.SetTuning(tuning)
		}
	case prefabs.ChangeKart:
		spec, err := prefabs.LoadKartSpec()
		if err != nil {
			return err
		}
		g.world.SetKartParams(system.KartParamsFromSpec(spec))
		if spec.Script != g.kart.Script {
			g.kart = spec
			return g.reloadScript()
		}
		g.kart = spec
	case prefabs.ChangeScript:
		return g.reloadScript()
	}
	return nil
}

func (g *Game) reloadScript() error {
	program, err := system.LoadScriptProgram(g.kart.Script, g.logger)
	if err != nil {
		return err
	}
	return g.world.SetDrivers(program.Factory())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.renderer.Begin(screen)

	for i, cam := range g.cameras {
		cam.Apply(g.contexts[i], g.renderer, g.world)
		g.drawView(i, cam)
	}

	if g.showMap {
		g.drawMinimap(screen)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawView(player int, cam *obj.Camera) {
	r := g.renderer
	r.Clear(skyColor)

	for _, seg := range g.grid {
		r.Line(seg[0], seg[1], 1, gridColor)
	}
	r.Polyline(g.leftEdge, true, 2, trackColor)
	r.Polyline(g.rightEdge, true, 2, trackColor)

	for i, k := range g.world.Karts() {
		r.Box(g.world.PoseOf(i), g.body.Width, g.body.Length, kartHeight, k.Color)
	}

	target := g.world.Karts()[cam.Target()]
	r.Label(fmt.Sprintf("P%d  %s  kart %d  lap %d  fps %.0f", player+1, cam.Mode(), cam.Target(), target.Laps(), ebiten.ActualFPS()))
}

func (g *Game) drawMinimap(screen *ebiten.Image) {
	m := g.minimap
	m.Begin(screen, mapColor)
	for i, wp := range g.track.Waypoints {
		next := g.track.Waypoint(i + 1)
		m.Line(cp.Vector{X: wp[0], Y: wp[1]}, cp.Vector{X: next[0], Y: next[1]}, gridColor)
	}
	g.world.DebugDraw(m)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// trackOutline offsets the waypoint loop by half the track width on each side.
func trackOutline(t *levels.Track) (left, right []mgl64.Vec3) {
	n := len(t.Waypoints)
	half := t.Width / 2
	for i := 0; i < n; i++ {
		prev, next := t.Waypoint(i-1+n), t.Waypoint(i+1)
		d := mgl64.Vec2{next[0] - prev[0], next[1] - prev[1]}
		if d.Len() == 0 {
			continue
		}
		d = d.Normalize()
		side := mgl64.Vec3{d[1], -d[0], 0}.Mul(half)
		p := mgl64.Vec3{t.Waypoints[i][0], t.Waypoints[i][1], 0}
		left = append(left, p.Sub(side))
		right = append(right, p.Add(side))
	}
	return left, right
}

// groundGrid covers the track bounds, padded by one cell, with grid lines.
func groundGrid(t *levels.Track) [][2]mgl64.Vec3 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, w := range t.Waypoints {
		minX, maxX = math.Min(minX, w[0]), math.Max(maxX, w[0])
		minY, maxY = math.Min(minY, w[1]), math.Max(maxY, w[1])
	}
	minX = math.Floor(minX/gridStep)*gridStep - gridStep
	minY = math.Floor(minY/gridStep)*gridStep - gridStep
	maxX = math.Ceil(maxX/gridStep)*gridStep + gridStep
	maxY = math.Ceil(maxY/gridStep)*gridStep + gridStep

	var lines [][2]mgl64.Vec3
	for x := minX; x <= maxX; x += gridStep {
		lines = append(lines, [2]mgl64.Vec3{{x, minY, 0}, {x, maxY, 0}})
	}
	for y := minY; y <= maxY; y += gridStep {
		lines = append(lines, [2]mgl64.Vec3{{minX, y, 0}, {maxX, y, 0}})
	}
	return lines
}
