// Package assets holds the named resources scene files can refer to.
package assets

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
	"Magenta":   rl.Magenta,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

// LookupColor returns the raylib color called name.
func LookupColor(name string) (rl.Color, bool) {
	c, ok := colorByName[name]
	return c, ok
}

// ColorName returns the name of c when it is one of the named colors.
func ColorName(c rl.Color) (string, bool) {
	name, ok := nameByColor[c]
	return name, ok
}
