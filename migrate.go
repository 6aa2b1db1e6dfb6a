package dbmigrate

import (
	"strings"

	"github.com/pkg/errors"
)

// Direction is the direction in which a migration is run
type Direction int

const (
	directionError = Direction(iota)
	// DirectionUp applies a migration
	DirectionUp
	// DirectionDown reverts a migration
	DirectionDown
)

func (d Direction) String() string {
	var s string
	switch d {
	case DirectionUp:
		s = "up"
	case DirectionDown:
		s = "down"
	}
	return s
}

// DirectionFromString tries to build Direction from string,
// checking for valid ones and returning an error if check was unsuccessful
func DirectionFromString(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	default:
		return directionError, errors.Errorf("can't parse direction from string %s", s)
	}
}
