package elevio

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidCall is returned for a floor or direction the building cannot serve.
var ErrInvalidCall = errors.New("invalid call request")

func DirnToString(d Dirn) string {
	switch d {
	case D_Up:
		return "up"
	case D_Down:
		return "down"
	case D_Stop:
		return "stop"
	default:
		return "undefined"
	}
}

func ParseDirn(s string) (Dirn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return D_Up, nil
	case "down", "d":
		return D_Down, nil
	case "stop", "":
		return D_Stop, nil
	default:
		return D_Stop, errors.Wrapf(ErrInvalidCall, "unknown direction %q", s)
	}
}

// ValidateCall checks a request against a building of floorCount floors numbered from 1.
// There is no Up call from the top floor and no Down call from the bottom floor.
func ValidateCall(floor int, dirn Dirn, floorCount int) error {
	if floor < 1 || floor > floorCount {
		return errors.Wrapf(ErrInvalidCall, "floor %d outside 1..%d", floor, floorCount)
	}
	switch dirn {
	case D_Up:
		if floor == floorCount {
			return errors.Wrapf(ErrInvalidCall, "no up call from top floor %d", floor)
		}
	case D_Down:
		if floor == 1 {
			return errors.Wrap(ErrInvalidCall, "no down call from floor 1")
		}
	default:
		return errors.Wrapf(ErrInvalidCall, "direction %s is not a call direction", DirnToString(dirn))
	}
	return nil
}
