// Package geometry maps selected options to the shape parameters of each bike part.
//
// Every lookup is total: a value outside the catalog gets the family's
// fallback entry instead of an error.
package geometry

import (
	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/models"
)

const (
	// MotorBaseSize is the hub motor radius at the reference power.
	MotorBaseSize = 0.15
	// MotorReferencePower is the power at which the power factor is 1.
	MotorReferencePower = 500
	// ReferenceWheelSize is the wheel diameter drawn at scale 1.
	ReferenceWheelSize = 29
)

// FrameGeometry describes the main triangle.
type FrameGeometry struct {
	TopTubeAngle      float64 `json:"topTubeAngle" msgpack:"topTubeAngle"`
	SeatStayLength    float64 `json:"seatStayLength" msgpack:"seatStayLength"`
	BottomBracketDrop float64 `json:"bottomBracketDrop" msgpack:"bottomBracketDrop"`
	FrameThickness    float64 `json:"frameThickness" msgpack:"frameThickness"`
}

// HandlebarGeometry describes the bar itself; the stem is fixed.
type HandlebarGeometry struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
	Sweep  float64 `json:"sweep" msgpack:"sweep"`
}

// SeatGeometry is the saddle box.
type SeatGeometry struct {
	Width  float64 `json:"width" msgpack:"width"`
	Length float64 `json:"length" msgpack:"length"`
	Height float64 `json:"height" msgpack:"height"`
}

// BatteryGeometry places the battery pack relative to the bike origin.
type BatteryGeometry struct {
	Position models.Vec3 `json:"position" msgpack:"position"`
	Size     models.Vec3 `json:"size" msgpack:"size"`
}

var (
	frameTable = map[catalog.FrameType]FrameGeometry{
		catalog.FrameMountain: {TopTubeAngle: -0.1, SeatStayLength: 1.2, BottomBracketDrop: -0.2, FrameThickness: 0.06},
		catalog.FrameCity:     {TopTubeAngle: -0.15, SeatStayLength: 1.0, BottomBracketDrop: -0.1, FrameThickness: 0.05},
		catalog.FrameFolding:  {TopTubeAngle: -0.2, SeatStayLength: 0.9, BottomBracketDrop: -0.15, FrameThickness: 0.04},
		catalog.FrameCargo:    {TopTubeAngle: -0.05, SeatStayLength: 1.3, BottomBracketDrop: -0.05, FrameThickness: 0.07},
	}
	frameFallback = FrameGeometry{TopTubeAngle: -0.1, SeatStayLength: 1.0, BottomBracketDrop: -0.1, FrameThickness: 0.05}

	handlebarTable = map[catalog.HandlebarType]HandlebarGeometry{
		catalog.HandlebarCruiser:  {Width: 0.8, Height: 0.15, Sweep: 0.2},
		catalog.HandlebarFlat:     {Width: 0.7, Height: 0, Sweep: 0},
		catalog.HandlebarRiser:    {Width: 0.75, Height: 0.1, Sweep: 0.05},
		catalog.HandlebarBullhorn: {Width: 0.7, Height: 0.05, Sweep: 0.2},
	}
	handlebarFallback = HandlebarGeometry{Width: 0.7, Height: 0, Sweep: 0}

	seatTable = map[catalog.SeatType]SeatGeometry{
		catalog.SeatSport:     {Width: 0.2, Length: 0.4, Height: 0.05},
		catalog.SeatComfort:   {Width: 0.3, Length: 0.5, Height: 0.08},
		catalog.SeatCruiser:   {Width: 0.35, Length: 0.55, Height: 0.1},
		catalog.SeatErgonomic: {Width: 0.28, Length: 0.48, Height: 0.09},
	}
	seatFallback = SeatGeometry{Width: 0.25, Length: 0.45, Height: 0.06}

	batteryTable = map[catalog.BatteryType]BatteryGeometry{
		catalog.BatteryIntegrated: {Position: models.Vec3{0.1, 0.3, 0}, Size: models.Vec3{0.5, 0.1, 0.15}},
		catalog.BatteryExternal:   {Position: models.Vec3{0.3, 0.1, 0}, Size: models.Vec3{0.4, 0.2, 0.15}},
		catalog.BatteryDual:       {Position: models.Vec3{0.2, 0.2, 0}, Size: models.Vec3{0.3, 0.15, 0.2}},
		catalog.BatteryRemovable:  {Position: models.Vec3{0.3, 0.0, 0}, Size: models.Vec3{0.35, 0.18, 0.16}},
	}
	batteryFallback = BatteryGeometry{Position: models.Vec3{0.2, 0.2, 0}, Size: models.Vec3{0.4, 0.15, 0.15}}
)

func lookup[K comparable, V any](table map[K]V, key K, fallback V) V {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// Frame returns the frame parameters for t.
func Frame(t catalog.FrameType) FrameGeometry {
	return lookup(frameTable, t, frameFallback)
}

// Handlebar returns the handlebar parameters for t.
func Handlebar(t catalog.HandlebarType) HandlebarGeometry {
	return lookup(handlebarTable, t, handlebarFallback)
}

// Seat returns the saddle parameters for t.
func Seat(t catalog.SeatType) SeatGeometry {
	return lookup(seatTable, t, seatFallback)
}

// Battery returns the battery placement for t.
func Battery(t catalog.BatteryType) BatteryGeometry {
	return lookup(batteryTable, t, batteryFallback)
}

// MotorSize is linear in power: 0.12 at 0 W, 0.18 at the reference power.
func MotorSize(power catalog.MotorPower) float64 {
	powerFactor := float64(power) / MotorReferencePower
	return MotorBaseSize * (0.8 + powerFactor*0.4)
}

// WheelScale is the uniform scale applied to both wheel assemblies.
func WheelScale(size catalog.WheelSize) float64 {
	return float64(size) / ReferenceWheelSize
}

// Derived is every shape parameter of one configuration.
type Derived struct {
	Frame      FrameGeometry     `json:"frame" msgpack:"frame"`
	Handlebar  HandlebarGeometry `json:"handlebar" msgpack:"handlebar"`
	Seat       SeatGeometry      `json:"seat" msgpack:"seat"`
	Battery    BatteryGeometry   `json:"battery" msgpack:"battery"`
	MotorSize  float64           `json:"motorSize" msgpack:"motorSize"`
	WheelScale float64           `json:"wheelScale" msgpack:"wheelScale"`
}

// Derive recomputes the shape parameters of c. Nothing is cached.
func Derive(c models.Configuration) Derived {
	return Derived{
		Frame:      Frame(c.FrameType),
		Handlebar:  Handlebar(c.HandlebarType),
		Seat:       Seat(c.SeatType),
		Battery:    Battery(c.BatteryType),
		MotorSize:  MotorSize(c.MotorPower),
		WheelScale: WheelScale(c.WheelSize),
	}
}
