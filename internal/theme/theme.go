// Package theme holds the palettes used to draw the gallery sheet.
package theme

import (
	"image/color"
	"sort"
	"strings"
)

// Theme defines the colors of the gallery sheet.
type Theme struct {
	Name string

	// Wall fills the sheet when no wall image is available.
	Wall color.RGBA
	// EmptyFrame fills frames with neither artwork nor background.
	EmptyFrame color.RGBA

	FrameBorder     color.RGBA
	LabelText       color.RGBA
	LabelBackground color.RGBA
}

// Default returns the builtin light palette.
func Default() *Theme {
	return &Theme{
		Name:            "default",
		Wall:            color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
		EmptyFrame:      color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
		FrameBorder:     color.RGBA{0x1a, 0x1a, 0x1a, 0xff},
		LabelText:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		LabelBackground: color.RGBA{0x00, 0x00, 0x00, 0xc0},
	}
}

var builtins = map[string]func() *Theme{
	"default": Default,
	"night": func() *Theme {
		return &Theme{
			Name:            "night",
			Wall:            color.RGBA{0x12, 0x12, 0x1c, 0xff},
			EmptyFrame:      color.RGBA{0x24, 0x24, 0x30, 0xff},
			FrameBorder:     color.RGBA{0x00, 0xff, 0xff, 0xff},
			LabelText:       color.RGBA{0x00, 0xff, 0xff, 0xff},
			LabelBackground: color.RGBA{0x00, 0x00, 0x00, 0xe0},
		}
	},
	"brick": func() *Theme {
		return &Theme{
			Name:            "brick",
			Wall:            color.RGBA{0x8b, 0x3a, 0x2b, 0xff},
			EmptyFrame:      color.RGBA{0xd8, 0xcf, 0xc4, 0xff},
			FrameBorder:     color.RGBA{0x2b, 0x1d, 0x14, 0xff},
			LabelText:       color.RGBA{0xff, 0xf4, 0xe0, 0xff},
			LabelBackground: color.RGBA{0x2b, 0x1d, 0x14, 0xd0},
		}
	},
}

// Builtin returns a copy of the named builtin palette.
func Builtin(name string) (*Theme, bool) {
	f, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return f(), true
}

// BuiltinNames lists the builtin palettes.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
