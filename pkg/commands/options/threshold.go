package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/kcal/pkg/meal"
)

// ParseThreshold reads "FLOOR=R,G,B" or "FLOOR=#rrggbb".
func ParseThreshold(s string) (int, meal.RGB, error) {
	floorText, colorText, ok := strings.Cut(s, "=")
	if !ok {
		return 0, meal.RGB{}, fmt.Errorf("threshold %q is not of the form FLOOR=R,G,B or FLOOR=#rrggbb", s)
	}
	floor, err := strconv.Atoi(strings.TrimSpace(floorText))
	if err != nil || floor < 0 {
		return 0, meal.RGB{}, fmt.Errorf("threshold floor %q must be a non-negative whole number", floorText)
	}
	c, err := ParseRGB(colorText)
	if err != nil {
		return 0, meal.RGB{}, err
	}
	return floor, c, nil
}

// ParseRGB reads "R,G,B" with channels in 0..255 or a "#rrggbb" hex colour.
func ParseRGB(s string) (meal.RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return meal.RGB{}, fmt.Errorf("colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return meal.RGB{int(r), int(g), int(b)}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return meal.RGB{}, fmt.Errorf("colour %q needs three channels", s)
	}
	var c meal.RGB
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return meal.RGB{}, fmt.Errorf("colour channel %q must be between 0 and 255", p)
		}
		c[i] = v
	}
	return c, nil
}
