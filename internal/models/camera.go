package models

import "strings"

// CameraPreset is a named camera position offered by the viewer.
type CameraPreset struct {
	Name     string `json:"name"`
	Position Vec3   `json:"position"`
}

// The viewer's camera presets. CameraFront is also the default camera position.
var (
	CameraFront = CameraPreset{Name: "Front", Position: Vec3{5, 2, 5}}
	CameraSide  = CameraPreset{Name: "Side", Position: Vec3{0, 2, 5}}
	CameraTop   = CameraPreset{Name: "Top", Position: Vec3{0, 5, 0}}
)

// CameraPresets returns the presets in button order.
func CameraPresets() []CameraPreset {
	return []CameraPreset{CameraFront, CameraSide, CameraTop}
}

// CameraPresetByName matches a preset name case-insensitively.
func CameraPresetByName(name string) (CameraPreset, bool) {
	for _, p := range CameraPresets() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return CameraPreset{}, false
}
