package render

import (
	"fmt"
	"strings"
)

// ShortDuration is the compact time badge shown on feed cards: 45m, 2h, 3d.
func ShortDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dd", minutes/1440)
	}
}

// DifficultyTone picks the badge colour for a difficulty level.
func DifficultyTone(difficulty string) string {
	switch strings.ToLower(difficulty) {
	case "beginner":
		return "green"
	case "intermediate":
		return "yellow"
	case "advanced":
		return "orange"
	case "expert":
		return "red"
	default:
		return "gray"
	}
}
