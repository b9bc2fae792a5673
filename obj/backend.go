package obj

// Vehicles exposes the karts a camera can follow.
type Vehicles interface {
	PlayerCount() int
	PoseOf(index int) Pose
	SteerAngleOf(index int) float64
}

// Track is the part of the track metadata the camera reads at construction.
type Track interface {
	FogEnabled() bool
	FogEnd() float64
}

// Screen reports the current framebuffer size in pixels.
type Screen interface {
	ScreenWidth() int
	ScreenHeight() int
}

// World reports whether there is a scene to render into.
type World interface {
	HasScene() bool
}

// Backend receives the camera state for subsequent draw calls.
type Backend interface {
	MakeCurrent()
	SetViewportPixels(x, y, w, h int)
	SetFieldOfView(horizontal, vertical float64)
	SetDepthRange(near, far float64)
	SetCameraPose(p Pose)
}

// DepthRange is the near and far clip distance.
type DepthRange struct {
	Near float64
	Far  float64
}
