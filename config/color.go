package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color decodes either "#rrggbb[aa]" or an SVG color name such as "orange".
type Color struct {
	RGBA color.RGBA
	set  bool
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		*c = Color{RGBA: named, set: true}
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("line %d: invalid color format: %s", value.Line, value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(2 * i)
		if err != nil {
			return fmt.Errorf("line %d: color %s: %w", value.Line, value.Value, err)
		}
		rgba[i] = v
	}
	*c = Color{RGBA: color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, set: true}
	return nil
}

// Or returns the decoded color, or def when none was given.
func (c Color) Or(def color.RGBA) color.RGBA {
	if !c.set {
		return def
	}
	return c.RGBA
}
