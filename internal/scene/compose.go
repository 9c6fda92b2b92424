// Package scene turns a configuration into a renderer-ready description of the bike.
package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/electroride/configurator/internal/geometry"
	"github.com/electroride/configurator/internal/models"
)

const (
	bikeScale   = 0.7
	cameraFOV   = 50
	spokeCount  = 8
	stageColor  = "#111"
	environment = "city"
)

// Camera is the initial viewer pose.
type Camera struct {
	Position models.Vec3 `json:"position" msgpack:"position"`
	FOV      float64     `json:"fov" msgpack:"fov"`
}

// Fog fades geometry between Near and Far.
type Fog struct {
	Color string  `json:"color" msgpack:"color"`
	Near  float64 `json:"near" msgpack:"near"`
	Far   float64 `json:"far" msgpack:"far"`
}

// LightKind names the light types the stage uses.
type LightKind string

const (
	LightAmbient LightKind = "ambient"
	LightSpot    LightKind = "spot"
)

// Light is an ambient or spot light.
type Light struct {
	Kind          LightKind   `json:"kind" msgpack:"kind"`
	Position      models.Vec3 `json:"position" msgpack:"position"`
	Intensity     float64     `json:"intensity" msgpack:"intensity"`
	Angle         float64     `json:"angle,omitempty" msgpack:"angle,omitempty"`
	Penumbra      float64     `json:"penumbra,omitempty" msgpack:"penumbra,omitempty"`
	CastShadow    bool        `json:"castShadow,omitempty" msgpack:"castShadow,omitempty"`
	ShadowMapSize int         `json:"shadowMapSize,omitempty" msgpack:"shadowMapSize,omitempty"`
}

// ContactShadow is the soft shadow plane under the bike.
type ContactShadow struct {
	Position models.Vec3 `json:"position" msgpack:"position"`
	Opacity  float64     `json:"opacity" msgpack:"opacity"`
	Scale    float64     `json:"scale" msgpack:"scale"`
	Blur     float64     `json:"blur" msgpack:"blur"`
	Far      float64     `json:"far" msgpack:"far"`
}

// OrbitControls bounds the gesture driven camera.
type OrbitControls struct {
	EnablePan     bool    `json:"enablePan" msgpack:"enablePan"`
	EnableZoom    bool    `json:"enableZoom" msgpack:"enableZoom"`
	MinPolarAngle float64 `json:"minPolarAngle" msgpack:"minPolarAngle"`
	MaxPolarAngle float64 `json:"maxPolarAngle" msgpack:"maxPolarAngle"`
}

// Sway is the idle rotation of the bike around the y axis.
type Sway struct {
	Node      string  `json:"node" msgpack:"node"`
	Amplitude float64 `json:"amplitude" msgpack:"amplitude"` // radians
	Frequency float64 `json:"frequency" msgpack:"frequency"` // radians per second
}

// AngleAt returns the y rotation after elapsed time t.
func (s Sway) AngleAt(t time.Duration) float64 {
	return math.Sin(t.Seconds()*s.Frequency) * s.Amplitude
}

// Scene is everything the renderer needs to draw one configuration.
type Scene struct {
	Camera        Camera           `json:"camera" msgpack:"camera"`
	Background    string           `json:"background" msgpack:"background"`
	Environment   string           `json:"environment" msgpack:"environment"`
	Fog           Fog              `json:"fog" msgpack:"fog"`
	Lights        []Light          `json:"lights" msgpack:"lights"`
	ContactShadow ContactShadow    `json:"contactShadow" msgpack:"contactShadow"`
	Controls      OrbitControls    `json:"controls" msgpack:"controls"`
	Sway          Sway             `json:"sway" msgpack:"sway"`
	Geometry      geometry.Derived `json:"geometry" msgpack:"geometry"`
	Root          Node             `json:"root" msgpack:"root"`
}

// Compose builds the scene for c. It has no side effects and keeps no state
// between calls.
func Compose(c models.Configuration) Scene {
	d := geometry.Derive(c)
	return Scene{
		Camera:      Camera{Position: c.CameraPosition, FOV: cameraFOV},
		Background:  stageColor,
		Environment: environment,
		Fog:         Fog{Color: stageColor, Near: 10, Far: 20},
		Lights: []Light{
			{Kind: LightAmbient, Intensity: 0.5},
			{Kind: LightSpot, Position: models.Vec3{5, 5, 5}, Intensity: 1, Angle: 0.3, Penumbra: 1, CastShadow: true, ShadowMapSize: 2048},
			{Kind: LightSpot, Position: models.Vec3{-5, 5, -5}, Intensity: 0.5, Angle: 0.3, Penumbra: 1, CastShadow: true},
		},
		ContactShadow: ContactShadow{Position: models.Vec3{0, -0.8, 0}, Opacity: 0.7, Scale: 10, Blur: 2.5, Far: 1},
		Controls: OrbitControls{
			EnablePan:     false,
			EnableZoom:    true,
			MinPolarAngle: math.Pi / 6,
			MaxPolarAngle: math.Pi / 2,
		},
		Sway:     Sway{Node: "bike", Amplitude: 0.05, Frequency: 0.3},
		Geometry: d,
		Root:     bike(c, d),
	}
}

func bike(c models.Configuration, d geometry.Derived) Node {
	return group("bike",
		frame(c, d.Frame),
		wheel("front", c, d.WheelScale).at(-0.8, -0.3, 0),
		wheel("rear", c, d.WheelScale).at(0.8, -0.3, 0),
		motor(c, d.MotorSize),
		battery(c, d.Battery),
		mesh("controller", box(0.2, 0.1, 0.15), paint("#333333", 0.7, 0.3)).at(0.1, -0.1, 0),
		handlebar(c, d.Handlebar),
		seat(c, d.Seat),
		crankset(),
		mesh("headlight", cylinder(0.04, 0.03, 0.05, 16), glow("#ffffff", 0.3)).at(-0.8, 0.3, 0),
		mesh("taillight", cylinder(0.03, 0.02, 0.04, 16), glow("#ff0000", 0.3)).at(0.8, 0.3, 0),
	).scaled(bikeScale)
}

func frame(c models.Configuration, f geometry.FrameGeometry) Node {
	m := paint(c.FrameColor.Value, 0.6, 0.2)
	t := f.FrameThickness
	stay := t - 0.02
	return group("frame",
		mesh("down-tube", cylinder(t, t, 1.5, 16), m).with(
			mesh("down-tube-brace", cylinder(t, t, 1.5, 16), m).rotated(0, 0, math.Pi/4),
		),
		mesh("top-tube", cylinder(t, t, 1.2, 16), m).at(0, 0.5, 0).rotated(0, 0, f.TopTubeAngle),
		mesh("seat-tube", cylinder(t, t, f.SeatStayLength, 16), m).at(0.6, 0.3, 0).rotated(0, 0, math.Pi/2-0.2),
		mesh("head-tube", cylinder(t+0.01, t+0.01, 0.4, 16), m).at(-0.6, 0.3, 0).rotated(0, 0, math.Pi/2+0.1),
		mesh("chain-stay-left", cylinder(stay, stay, 0.8, 16), m).at(0.5, f.BottomBracketDrop, 0.1).rotated(0, 0.3, 0),
		mesh("chain-stay-right", cylinder(stay, stay, 0.8, 16), m).at(0.5, f.BottomBracketDrop, -0.1).rotated(0, -0.3, 0),
	)
}

func wheel(side string, c models.Configuration, scale float64) Node {
	w := group(side+"-wheel",
		mesh(side+"-tire", torus(0.4, 0.05, 16, 32), paint(c.WheelColor.Value, 0.4, 0.6)),
	)
	for i := 0; i < spokeCount; i++ {
		spoke := mesh(fmt.Sprintf("%s-spoke-%d", side, i), cylinder(0.01, 0.01, 0.8, 8), paint("#888888", 0.8, 0.2)).
			rotated(0, 0, math.Pi*float64(i)/4)
		w = w.with(spoke)
	}
	return w.with(
		mesh(side+"-hub", cylinder(0.08, 0.08, 0.1, 16), paint("#444444", 0.8, 0.2)),
	).scaled(scale)
}

func motor(c models.Configuration, size float64) Node {
	return group("motor",
		mesh("motor-housing", cylinder(size, size, 0.15, 24), paint(c.MotorColor.Value, 0.9, 0.1)),
		mesh("motor-cap", cylinder(size*0.7, size*0.7, 0.02, 24), paint("#333333", 0.9, 0.1)).at(0, 0, 0.08),
		mesh("power-cable", cylinder(0.01, 0.01, 0.7, 8), paint("#222222", 0.3, 0.7)).at(0, 0.1, 0.05).rotated(0, 0, math.Pi/2),
	).at(0.8, -0.3, 0.1)
}

func battery(c models.Configuration, b geometry.BatteryGeometry) Node {
	size := b.Size
	n := group("battery",
		mesh("battery-pack", box(size[0], size[1], size[2]), paint(c.BatteryColor.Value, 0.7, 0.3)),
		mesh("battery-cover", box(size[0]*0.8, 0.02, size[2]*0.8), paint("#333333", 0.8, 0.2)).at(0, size[1]/2+0.01, 0),
		mesh("battery-indicator", box(0.05, 0.01, 0.05), glow("#00ff00", 0.5)).at(size[0]/2-0.05, size[1]/2+0.02, 0),
	)
	n.Position = b.Position
	return n
}

func handlebar(c models.Configuration, h geometry.HandlebarGeometry) Node {
	m := paint(c.HandlebarColor.Value, 0.7, 0.3)
	grip := paint("#222222", 0.3, 0.9)
	barY := 0.2 + h.Height
	return group("handlebar",
		mesh("stem", cylinder(0.04, 0.04, 0.2, 16), m).at(0, 0.1, 0).rotated(0, 0, math.Pi/2),
		mesh("bar", cylinder(0.03, 0.03, h.Width, 16), m).at(0, barY, 0).rotated(0, h.Sweep, 0),
		mesh("grip-left", cylinder(0.035, 0.035, 0.1, 16), grip).at(0, barY, h.Width/2-0.1),
		mesh("grip-right", cylinder(0.035, 0.035, 0.1, 16), grip).at(0, barY, -h.Width/2+0.1),
		mesh("display", box(0.15, 0.08, 0.05), paint("#111111", 0.7, 0.3)).at(0, barY+0.05, 0),
		mesh("display-screen", box(0.12, 0.06, 0.01), glow("#00aaff", 0.3)).at(0, barY+0.05, 0.001),
		mesh("throttle", cylinder(0.02, 0.02, 0.03, 16), paint("#cc0000", 0.5, 0.5)).at(0, barY, h.Width/2-0.15),
	).at(-0.6, 0.5, 0)
}

func seat(c models.Configuration, s geometry.SeatGeometry) Node {
	return group("seat",
		mesh("seat-post", cylinder(0.04, 0.04, 0.4, 16), paint("#888888", 0.7, 0.3)).at(0, -0.2, 0).rotated(0, 0, math.Pi/2),
		mesh("saddle", box(s.Length, s.Height, s.Width), paint(c.SeatColor.Value, 0.3, 0.7)),
	).at(0.6, 0.8, 0)
}

func crankset() Node {
	arm := paint("#444444", 0.8, 0.2)
	pedal := paint("#333333", 0.6, 0.4)
	return group("crankset",
		mesh("chainring", torus(0.15, 0.02, 16, 32), paint("#888888", 0.8, 0.2)).rotated(math.Pi/2, 0, 0),
		mesh("crank-arm-left", box(0.3, 0.05, 0.02), arm).at(0, 0, 0.05).rotated(0, 0, math.Pi/4),
		mesh("crank-arm-right", box(0.3, 0.05, 0.02), arm).at(0, 0, -0.05).rotated(0, 0, -math.Pi/4),
		mesh("pedal-left", box(0.08, 0.02, 0.05), pedal).at(0.15, -0.15, 0.07),
		mesh("pedal-right", box(0.08, 0.02, 0.05), pedal).at(-0.15, 0.15, -0.07),
	).at(0.1, -0.3, 0)
}
