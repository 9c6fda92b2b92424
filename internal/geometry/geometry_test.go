package geometry

import (
	"testing"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFrame(t *testing.T) {
	tests := []struct {
		in   catalog.FrameType
		want FrameGeometry
	}{
		{catalog.FrameCity, FrameGeometry{-0.15, 1.0, -0.1, 0.05}},
		{catalog.FrameMountain, FrameGeometry{-0.1, 1.2, -0.2, 0.06}},
		{catalog.FrameFolding, FrameGeometry{-0.2, 0.9, -0.15, 0.04}},
		{catalog.FrameCargo, FrameGeometry{-0.05, 1.3, -0.05, 0.07}},
		{"Tandem", FrameGeometry{-0.1, 1.0, -0.1, 0.05}},
		{"", FrameGeometry{-0.1, 1.0, -0.1, 0.05}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Frame(tt.in))
		})
	}
}

func TestHandlebar(t *testing.T) {
	tests := []struct {
		in   catalog.HandlebarType
		want HandlebarGeometry
	}{
		{catalog.HandlebarCruiser, HandlebarGeometry{0.8, 0.15, 0.2}},
		{catalog.HandlebarFlat, HandlebarGeometry{0.7, 0, 0}},
		{catalog.HandlebarRiser, HandlebarGeometry{0.75, 0.1, 0.05}},
		{catalog.HandlebarBullhorn, HandlebarGeometry{0.7, 0.05, 0.2}},
		{"Drop", HandlebarGeometry{0.7, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Handlebar(tt.in))
		})
	}
	assert.Equal(t, Handlebar(catalog.HandlebarFlat), Handlebar("Drop"), "fallback matches Flat")
}

func TestSeat(t *testing.T) {
	tests := []struct {
		in   catalog.SeatType
		want SeatGeometry
	}{
		{catalog.SeatSport, SeatGeometry{0.2, 0.4, 0.05}},
		{catalog.SeatComfort, SeatGeometry{0.3, 0.5, 0.08}},
		{catalog.SeatCruiser, SeatGeometry{0.35, 0.55, 0.1}},
		{catalog.SeatErgonomic, SeatGeometry{0.28, 0.48, 0.09}},
		{"Bench", SeatGeometry{0.25, 0.45, 0.06}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Seat(tt.in))
		})
	}
}

func TestBattery(t *testing.T) {
	tests := []struct {
		in   catalog.BatteryType
		want BatteryGeometry
	}{
		{catalog.BatteryIntegrated, BatteryGeometry{models.Vec3{0.1, 0.3, 0}, models.Vec3{0.5, 0.1, 0.15}}},
		{catalog.BatteryExternal, BatteryGeometry{models.Vec3{0.3, 0.1, 0}, models.Vec3{0.4, 0.2, 0.15}}},
		{catalog.BatteryDual, BatteryGeometry{models.Vec3{0.2, 0.2, 0}, models.Vec3{0.3, 0.15, 0.2}}},
		{catalog.BatteryRemovable, BatteryGeometry{models.Vec3{0.3, 0, 0}, models.Vec3{0.35, 0.18, 0.16}}},
		{"Solar", BatteryGeometry{models.Vec3{0.2, 0.2, 0}, models.Vec3{0.4, 0.15, 0.15}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Battery(tt.in))
		})
	}
}

func TestFallbacksAreDistinct(t *testing.T) {
	for _, s := range catalog.SeatTypes() {
		assert.NotEqual(t, seatFallback, Seat(s), "seat fallback must differ from %s", s)
	}
	for _, b := range catalog.BatteryTypes() {
		assert.NotEqual(t, batteryFallback, Battery(b), "battery fallback must differ from %s", b)
	}
}

func TestTablesCoverCatalog(t *testing.T) {
	for _, f := range catalog.FrameTypes() {
		assert.Contains(t, frameTable, f)
	}
	for _, h := range catalog.HandlebarTypes() {
		assert.Contains(t, handlebarTable, h)
	}
	for _, s := range catalog.SeatTypes() {
		assert.Contains(t, seatTable, s)
	}
	for _, b := range catalog.BatteryTypes() {
		assert.Contains(t, batteryTable, b)
	}
}

func TestMotorSize(t *testing.T) {
	tests := []struct {
		power catalog.MotorPower
		want  float64
	}{
		{0, 0.12},
		{250, 0.15},
		{500, 0.18},
		{750, 0.21},
		{1000, 0.24},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, MotorSize(tt.power), 1e-12, "power %d", tt.power)
	}

	// linear: equal power steps give equal size steps
	step := MotorSize(500) - MotorSize(250)
	assert.InDelta(t, step, MotorSize(1000)-MotorSize(750), 1e-12)
}

func TestWheelScale(t *testing.T) {
	assert.Equal(t, 1.0, WheelScale(29))
	assert.InDelta(t, 0.6897, WheelScale(20), 1e-4)
	assert.InDelta(t, 27.5/29, WheelScale(27.5), 1e-12)
}

func TestDerive(t *testing.T) {
	c := models.DefaultConfiguration()
	c.FrameType = catalog.FrameCargo
	c.WheelSize = 26

	d := Derive(c)
	assert.Equal(t, Frame(catalog.FrameCargo), d.Frame)
	assert.Equal(t, Handlebar(catalog.HandlebarFlat), d.Handlebar)
	assert.Equal(t, Seat(catalog.SeatComfort), d.Seat)
	assert.Equal(t, Battery(catalog.BatteryIntegrated), d.Battery)
	assert.InDelta(t, 0.18, d.MotorSize, 1e-12)
	assert.InDelta(t, 26.0/29, d.WheelScale, 1e-12)
}
