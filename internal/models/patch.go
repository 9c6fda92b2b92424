package models

import (
	"errors"

	"github.com/electroride/configurator/internal/catalog"
)

// Patch is a partial update of a Configuration. Nil fields are left untouched.
type Patch struct {
	FrameColor     *catalog.Color `json:"frameColor,omitempty"`
	WheelColor     *catalog.Color `json:"wheelColor,omitempty"`
	HandlebarColor *catalog.Color `json:"handlebarColor,omitempty"`
	SeatColor      *catalog.Color `json:"seatColor,omitempty"`
	BatteryColor   *catalog.Color `json:"batteryColor,omitempty"`
	MotorColor     *catalog.Color `json:"motorColor,omitempty"`

	FrameType     *catalog.FrameType     `json:"frameType,omitempty"`
	HandlebarType *catalog.HandlebarType `json:"handlebarType,omitempty"`
	SeatType      *catalog.SeatType      `json:"seatType,omitempty"`
	BatteryType   *catalog.BatteryType   `json:"batteryType,omitempty"`

	WheelSize  *catalog.WheelSize  `json:"wheelSize,omitempty"`
	MotorPower *catalog.MotorPower `json:"motorPower,omitempty"`
	RangeKm    *catalog.RangeKm    `json:"rangeKm,omitempty"`

	CameraPosition *Vec3 `json:"cameraPosition,omitempty"`
}

// PatchFrom builds a patch that names every field of c.
func PatchFrom(c Configuration) Patch {
	return Patch{
		FrameColor:     &c.FrameColor,
		WheelColor:     &c.WheelColor,
		HandlebarColor: &c.HandlebarColor,
		SeatColor:      &c.SeatColor,
		BatteryColor:   &c.BatteryColor,
		MotorColor:     &c.MotorColor,
		FrameType:      &c.FrameType,
		HandlebarType:  &c.HandlebarType,
		SeatType:       &c.SeatType,
		BatteryType:    &c.BatteryType,
		WheelSize:      &c.WheelSize,
		MotorPower:     &c.MotorPower,
		RangeKm:        &c.RangeKm,
		CameraPosition: &c.CameraPosition,
	}
}

// Apply returns c with the named fields replaced. c itself is not modified.
func (p Patch) Apply(c Configuration) Configuration {
	assign(&c.FrameColor, p.FrameColor)
	assign(&c.WheelColor, p.WheelColor)
	assign(&c.HandlebarColor, p.HandlebarColor)
	assign(&c.SeatColor, p.SeatColor)
	assign(&c.BatteryColor, p.BatteryColor)
	assign(&c.MotorColor, p.MotorColor)
	assign(&c.FrameType, p.FrameType)
	assign(&c.HandlebarType, p.HandlebarType)
	assign(&c.SeatType, p.SeatType)
	assign(&c.BatteryType, p.BatteryType)
	assign(&c.WheelSize, p.WheelSize)
	assign(&c.MotorPower, p.MotorPower)
	assign(&c.RangeKm, p.RangeKm)
	assign(&c.CameraPosition, p.CameraPosition)
	return c
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Empty reports whether the patch names no field.
func (p Patch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the JSON names of the fields the patch sets.
func (p Patch) Fields() []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("frameColor", p.FrameColor != nil)
	add("wheelColor", p.WheelColor != nil)
	add("handlebarColor", p.HandlebarColor != nil)
	add("seatColor", p.SeatColor != nil)
	add("batteryColor", p.BatteryColor != nil)
	add("motorColor", p.MotorColor != nil)
	add("frameType", p.FrameType != nil)
	add("handlebarType", p.HandlebarType != nil)
	add("seatType", p.SeatType != nil)
	add("batteryType", p.BatteryType != nil)
	add("wheelSize", p.WheelSize != nil)
	add("motorPower", p.MotorPower != nil)
	add("rangeKm", p.RangeKm != nil)
	add("cameraPosition", p.CameraPosition != nil)
	return fields
}

// ResolveColors replaces every color in the patch with the catalog entry of
// the same name, so a client only has to send the name. Unknown names fail.
func (p *Patch) ResolveColors() error {
	var errs []error
	resolve := func(field string, c *catalog.Color) {
		if c == nil {
			return
		}
		found, ok := catalog.ColorByName(c.Name)
		if !ok {
			errs = append(errs, &catalog.OptionError{Field: field, Value: c.Name})
			return
		}
		*c = found
	}
	resolve("frameColor", p.FrameColor)
	resolve("wheelColor", p.WheelColor)
	resolve("handlebarColor", p.HandlebarColor)
	resolve("seatColor", p.SeatColor)
	resolve("batteryColor", p.BatteryColor)
	resolve("motorColor", p.MotorColor)
	return errors.Join(errs...)
}

type validator interface{ Valid() bool }

// Validate checks every set enum and numeric field against its catalog.
// The returned error joins one *catalog.OptionError per offending field.
func (p Patch) Validate() error {
	var errs []error
	check := func(field string, v validator, value any) {
		if !v.Valid() {
			errs = append(errs, &catalog.OptionError{Field: field, Value: value})
		}
	}
	if p.FrameType != nil {
		check("frameType", *p.FrameType, *p.FrameType)
	}
	if p.HandlebarType != nil {
		check("handlebarType", *p.HandlebarType, *p.HandlebarType)
	}
	if p.SeatType != nil {
		check("seatType", *p.SeatType, *p.SeatType)
	}
	if p.BatteryType != nil {
		check("batteryType", *p.BatteryType, *p.BatteryType)
	}
	if p.WheelSize != nil {
		check("wheelSize", *p.WheelSize, *p.WheelSize)
	}
	if p.MotorPower != nil {
		check("motorPower", *p.MotorPower, *p.MotorPower)
	}
	if p.RangeKm != nil {
		check("rangeKm", *p.RangeKm, *p.RangeKm)
	}
	return errors.Join(errs...)
}
