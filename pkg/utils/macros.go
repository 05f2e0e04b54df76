package utils

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

func Clamp[T constraints.Integer | constraints.Float](min, value, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ParseUint parses a decimal or 0x-prefixed hexadecimal literal
// into T, failing if the value does not fit.
func ParseUint[T constraints.Unsigned](s string) (T, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	} else if strings.HasPrefix(s, "$") {
		s = s[1:]
		base = 16
	}

	var zero T
	v, err := strconv.ParseUint(s, base, bitSize(zero))
	if err != nil {
		return zero, err
	}
	return T(v), nil
}

func bitSize[T constraints.Unsigned](v T) int {
	switch any(v).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	}
	return 64
}
