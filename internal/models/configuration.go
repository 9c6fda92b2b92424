package models

import "github.com/electroride/configurator/internal/catalog"

// Vec3 is an x, y, z triple in scene units.
type Vec3 [3]float64

// Configuration is one snapshot of the rider's selections plus the camera pose.
// It is a comparable value: two snapshots are the same when == holds.
type Configuration struct {
	FrameColor     catalog.Color `json:"frameColor" msgpack:"frameColor"`
	WheelColor     catalog.Color `json:"wheelColor" msgpack:"wheelColor"`
	HandlebarColor catalog.Color `json:"handlebarColor" msgpack:"handlebarColor"`
	SeatColor      catalog.Color `json:"seatColor" msgpack:"seatColor"`
	BatteryColor   catalog.Color `json:"batteryColor" msgpack:"batteryColor"`
	MotorColor     catalog.Color `json:"motorColor" msgpack:"motorColor"`

	FrameType     catalog.FrameType     `json:"frameType" msgpack:"frameType"`
	HandlebarType catalog.HandlebarType `json:"handlebarType" msgpack:"handlebarType"`
	SeatType      catalog.SeatType      `json:"seatType" msgpack:"seatType"`
	BatteryType   catalog.BatteryType   `json:"batteryType" msgpack:"batteryType"`

	WheelSize  catalog.WheelSize  `json:"wheelSize" msgpack:"wheelSize"`
	MotorPower catalog.MotorPower `json:"motorPower" msgpack:"motorPower"`
	RangeKm    catalog.RangeKm    `json:"rangeKm" msgpack:"rangeKm"`

	CameraPosition Vec3 `json:"cameraPosition" msgpack:"cameraPosition"`
}

// DefaultConfiguration returns the configuration every session starts from.
func DefaultConfiguration() Configuration {
	return Configuration{
		FrameColor:     catalog.ColorAt(0),
		WheelColor:     catalog.ColorAt(5),
		HandlebarColor: catalog.ColorAt(0),
		SeatColor:      catalog.ColorAt(0),
		BatteryColor:   catalog.ColorAt(6),
		MotorColor:     catalog.ColorAt(5),
		FrameType:      catalog.FrameTypes()[0],
		HandlebarType:  catalog.HandlebarTypes()[0],
		SeatType:       catalog.SeatTypes()[0],
		BatteryType:    catalog.BatteryTypes()[0],
		WheelSize:      catalog.WheelSizes()[2],
		MotorPower:     catalog.MotorPowers()[1],
		RangeKm:        catalog.Ranges()[1],
		CameraPosition: CameraFront.Position,
	}
}
