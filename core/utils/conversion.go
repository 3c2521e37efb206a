package utils

import (
	"strconv"
	"strings"
)

// ToInt parses s as a base-10 integer, returning def when s is empty or malformed.
func ToInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// ToBool reports whether s is a truthy flag value ("1", "true", "yes", "on").
func ToBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
