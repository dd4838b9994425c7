package utils

import (
	"strconv"
)

// ParsePage parses a 1-indexed page query value, defaulting to 1
func ParsePage(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return 1
	}
	return i
}
