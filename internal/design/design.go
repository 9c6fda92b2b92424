// Package design reads and writes configurations as YAML design documents,
// the format behind "Save Design". Documents go back to the caller; nothing
// is stored server-side.
package design

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/models"
)

// Version is the document version written by Encode.
const Version = 1

// Document is the YAML shape of a saved design. Colors are stored by name.
type Document struct {
	Version   int       `yaml:"version"`
	Name      string    `yaml:"name,omitempty"`
	Frame     Part      `yaml:"frame"`
	Wheels    Wheels    `yaml:"wheels"`
	Handlebar Part      `yaml:"handlebar"`
	Seat      Part      `yaml:"seat"`
	Battery   Battery   `yaml:"battery"`
	Motor     Motor     `yaml:"motor"`
	Camera    []float64 `yaml:"camera,flow,omitempty"`
}

// Part is a shaped, painted component.
type Part struct {
	Type  string `yaml:"type"`
	Color string `yaml:"color"`
}

// Wheels is the wheel section of a design: diameter in inches and color.
type Wheels struct {
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// Battery is the battery section of a design, including the range option.
type Battery struct {
	Type    string `yaml:"type"`
	Color   string `yaml:"color"`
	RangeKm int    `yaml:"rangeKm"`
}

// Motor is the motor section of a design.
type Motor struct {
	PowerWatts int    `yaml:"powerWatts"`
	Color      string `yaml:"color"`
}

// Errors returned by Decode for well-formed documents it cannot accept.
var (
	ErrUnsupportedVersion = errors.New("unsupported design version")
	ErrInvalidCamera      = errors.New("camera must have exactly 3 coordinates")
)

// Encode renders c as a design document.
func Encode(name string, c models.Configuration) ([]byte, error) {
	doc := Document{
		Version:   Version,
		Name:      name,
		Frame:     Part{Type: string(c.FrameType), Color: c.FrameColor.Name},
		Wheels:    Wheels{Size: float64(c.WheelSize), Color: c.WheelColor.Name},
		Handlebar: Part{Type: string(c.HandlebarType), Color: c.HandlebarColor.Name},
		Seat:      Part{Type: string(c.SeatType), Color: c.SeatColor.Name},
		Battery:   Battery{Type: string(c.BatteryType), Color: c.BatteryColor.Name, RangeKm: int(c.RangeKm)},
		Motor:     Motor{PowerWatts: int(c.MotorPower), Color: c.MotorColor.Name},
		Camera:    c.CameraPosition[:],
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode design: %w", err)
	}
	return out, nil
}

// Decode parses a design document into a patch naming every part field.
// The camera is only included when the document has one.
//
// Colors are resolved against the catalog, so an unknown color name is an
// error. Type and size values are passed through unchecked; callers decide
// whether to run Patch.Validate.
func Decode(data []byte) (models.Patch, string, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.Patch{}, "", fmt.Errorf("failed to parse design: %w", err)
	}
	if doc.Version != Version {
		return models.Patch{}, "", fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	frameType := catalog.FrameType(doc.Frame.Type)
	handlebarType := catalog.HandlebarType(doc.Handlebar.Type)
	seatType := catalog.SeatType(doc.Seat.Type)
	batteryType := catalog.BatteryType(doc.Battery.Type)
	wheelSize := catalog.WheelSize(doc.Wheels.Size)
	motorPower := catalog.MotorPower(doc.Motor.PowerWatts)
	rangeKm := catalog.RangeKm(doc.Battery.RangeKm)

	p := models.Patch{
		FrameColor:     &catalog.Color{Name: doc.Frame.Color},
		WheelColor:     &catalog.Color{Name: doc.Wheels.Color},
		HandlebarColor: &catalog.Color{Name: doc.Handlebar.Color},
		SeatColor:      &catalog.Color{Name: doc.Seat.Color},
		BatteryColor:   &catalog.Color{Name: doc.Battery.Color},
		MotorColor:     &catalog.Color{Name: doc.Motor.Color},
		FrameType:      &frameType,
		HandlebarType:  &handlebarType,
		SeatType:       &seatType,
		BatteryType:    &batteryType,
		WheelSize:      &wheelSize,
		MotorPower:     &motorPower,
		RangeKm:        &rangeKm,
	}
	if len(doc.Camera) > 0 {
		if len(doc.Camera) != 3 {
			return models.Patch{}, "", ErrInvalidCamera
		}
		cam := models.Vec3{doc.Camera[0], doc.Camera[1], doc.Camera[2]}
		p.CameraPosition = &cam
	}
	if err := p.ResolveColors(); err != nil {
		return models.Patch{}, "", err
	}
	return p, doc.Name, nil
}
