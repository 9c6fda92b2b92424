// Package catalog defines the closed set of options a rider can pick for an e-bike.
package catalog

import (
	"fmt"
	"slices"
)

// Color is a paint option. Two colors are the same option when their names match.
type Color struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value string `json:"color" yaml:"color" msgpack:"color"` // #rrggbb
}

var colors = []Color{
	{Name: "Matte Black", Value: "#1a1a1a"},
	{Name: "Racing Red", Value: "#cc0000"},
	{Name: "Electric Blue", Value: "#0066cc"},
	{Name: "Forest Green", Value: "#006633"},
	{Name: "Bright Orange", Value: "#ff6600"},
	{Name: "Silver", Value: "#c0c0c0"},
	{Name: "White", Value: "#ffffff"},
	{Name: "Yellow", Value: "#ffcc00"},
	{Name: "Purple", Value: "#660099"},
	{Name: "Pink", Value: "#ff66cc"},
}

// Colors returns the paint catalog in display order.
func Colors() []Color {
	return slices.Clone(colors)
}

// ColorAt returns the i-th catalog color. It panics when i is out of range.
func ColorAt(i int) Color {
	return colors[i]
}

// ColorByName looks up a catalog color by name.
func ColorByName(name string) (Color, bool) {
	for _, c := range colors {
		if c.Name == name {
			return c, true
		}
	}
	return Color{}, false
}

// Valid reports whether c is a catalog color.
func (c Color) Valid() bool {
	_, ok := ColorByName(c.Name)
	return ok
}

// FrameType is the frame geometry family.
type FrameType string

const (
	FrameCity     FrameType = "City"
	FrameMountain FrameType = "Mountain"
	FrameFolding  FrameType = "Folding"
	FrameCargo    FrameType = "Cargo"
)

var frameTypes = []FrameType{FrameCity, FrameMountain, FrameFolding, FrameCargo}

// FrameTypes returns the frame catalog in display order.
func FrameTypes() []FrameType { return slices.Clone(frameTypes) }

// Valid reports whether the value is a catalog frame style.
func (t FrameType) Valid() bool { return slices.Contains(frameTypes, t) }

// HandlebarType is the handlebar shape family.
type HandlebarType string

const (
	HandlebarFlat     HandlebarType = "Flat"
	HandlebarCruiser  HandlebarType = "Cruiser"
	HandlebarRiser    HandlebarType = "Riser"
	HandlebarBullhorn HandlebarType = "Bullhorn"
)

var handlebarTypes = []HandlebarType{HandlebarFlat, HandlebarCruiser, HandlebarRiser, HandlebarBullhorn}

// HandlebarTypes returns the handlebar catalog in display order.
func HandlebarTypes() []HandlebarType { return slices.Clone(handlebarTypes) }

// Valid reports whether the value is a catalog handlebar style.
func (t HandlebarType) Valid() bool { return slices.Contains(handlebarTypes, t) }

// SeatType is the saddle family.
type SeatType string

const (
	SeatComfort   SeatType = "Comfort"
	SeatSport     SeatType = "Sport"
	SeatCruiser   SeatType = "Cruiser"
	SeatErgonomic SeatType = "Ergonomic"
)

var seatTypes = []SeatType{SeatComfort, SeatSport, SeatCruiser, SeatErgonomic}

// SeatTypes returns the seat catalog in display order.
func SeatTypes() []SeatType { return slices.Clone(seatTypes) }

// Valid reports whether the value is a catalog saddle style.
func (t SeatType) Valid() bool { return slices.Contains(seatTypes, t) }

// BatteryType is the battery mounting family.
type BatteryType string

const (
	BatteryIntegrated BatteryType = "Integrated"
	BatteryExternal   BatteryType = "External"
	BatteryDual       BatteryType = "Dual"
	BatteryRemovable  BatteryType = "Removable"
)

var batteryTypes = []BatteryType{BatteryIntegrated, BatteryExternal, BatteryDual, BatteryRemovable}

// BatteryTypes returns the battery catalog in display order.
func BatteryTypes() []BatteryType { return slices.Clone(batteryTypes) }

// Valid reports whether the value is a catalog battery mount.
func (t BatteryType) Valid() bool { return slices.Contains(batteryTypes, t) }

// WheelSize is a wheel diameter in inches.
type WheelSize float64

var wheelSizes = []WheelSize{20, 26, 27.5, 29}

// WheelSizes returns the wheel catalog in display order.
func WheelSizes() []WheelSize { return slices.Clone(wheelSizes) }

// Valid reports whether the value is a catalog wheel size.
func (s WheelSize) Valid() bool { return slices.Contains(wheelSizes, s) }

// MotorPower is a rated motor output in watts.
type MotorPower int

var motorPowers = []MotorPower{250, 500, 750, 1000}

// MotorPowers returns the motor catalog in display order.
func MotorPowers() []MotorPower { return slices.Clone(motorPowers) }

// Valid reports whether the value is a catalog motor rating.
func (p MotorPower) Valid() bool { return slices.Contains(motorPowers, p) }

// RangeKm is an advertised battery range in kilometers.
type RangeKm int

var ranges = []RangeKm{40, 60, 80, 100}

// Ranges returns the range catalog in display order.
func Ranges() []RangeKm { return slices.Clone(ranges) }

// Valid reports whether the value is a catalog range option.
func (r RangeKm) Valid() bool { return slices.Contains(ranges, r) }

// Listing is a copy of every option family, in display order.
type Listing struct {
	Colors         []Color         `json:"colors"`
	FrameTypes     []FrameType     `json:"frameTypes"`
	HandlebarTypes []HandlebarType `json:"handlebarTypes"`
	SeatTypes      []SeatType      `json:"seatTypes"`
	BatteryTypes   []BatteryType   `json:"batteryTypes"`
	WheelSizes     []WheelSize     `json:"wheelSizes"`
	MotorPowers    []MotorPower    `json:"motorPowers"`
	Ranges         []RangeKm       `json:"ranges"`
}

// All returns the whole catalog. The returned slices are owned by the caller.
func All() Listing {
	return Listing{
		Colors:         Colors(),
		FrameTypes:     FrameTypes(),
		HandlebarTypes: HandlebarTypes(),
		SeatTypes:      SeatTypes(),
		BatteryTypes:   BatteryTypes(),
		WheelSizes:     WheelSizes(),
		MotorPowers:    MotorPowers(),
		Ranges:         Ranges(),
	}
}

// Verify checks that every family is non-empty and free of duplicates.
func Verify() error {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.Name
	}
	checks := []struct {
		family string
		check  func() error
	}{
		{"colors", func() error { return unique(names) }},
		{"frameTypes", func() error { return unique(frameTypes) }},
		{"handlebarTypes", func() error { return unique(handlebarTypes) }},
		{"seatTypes", func() error { return unique(seatTypes) }},
		{"batteryTypes", func() error { return unique(batteryTypes) }},
		{"wheelSizes", func() error { return unique(wheelSizes) }},
		{"motorPowers", func() error { return unique(motorPowers) }},
		{"ranges", func() error { return unique(ranges) }},
	}
	for _, c := range checks {
		if err := c.check(); err != nil {
			return fmt.Errorf("catalog %s: %w", c.family, err)
		}
	}
	return nil
}

func unique[T comparable](values []T) error {
	if len(values) == 0 {
		return fmt.Errorf("empty")
	}
	seen := make(map[T]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate entry %v", v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
