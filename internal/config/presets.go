package config

import (
	"errors"
	"sort"

	"github.com/san-kum/nbody/internal/physics"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Presets maps a preset name to the labels of the Jovian bodies it keeps, in
// order. Body 0 of every preset is the sun.
var Presets = map[string][]string{
	"jovian":       {"sun", "jupiter", "saturn", "uranus", "neptune"},
	"sun-jupiter":  {"sun", "jupiter"},
	"outer-giants": {"sun", "uranus", "neptune"},
	"lone-star":    {"sun"},
}

// GetPreset returns a fresh copy of the named body set, or nil.
func GetPreset(name string) []physics.Body {
	labels, ok := Presets[name]
	if !ok {
		return nil
	}
	byLabel := make(map[string]physics.Body)
	for _, b := range physics.Jovian() {
		byLabel[b.Label] = b
	}
	bodies := make([]physics.Body, 0, len(labels))
	for _, l := range labels {
		bodies = append(bodies, byLabel[l])
	}
	return bodies
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
