package utils

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive decimal id from a URL parameter or query value.
func ParseID(str string) (uint64, error) {
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil || val == 0 {
		return 0, ErrInvalidID
	}
	return val, nil
}
