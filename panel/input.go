package panel

import (
	"strconv"

	"github.com/eiannone/keyboard"

	"liftsim/elevio"
)

type Action int

const (
	ActNone Action = iota
	ActCall
	ActSnapshot
	ActRegenerate
	ActQuit
)

// Command is what a key press asked for. Floor and Dirn are only set for ActCall.
type Command struct {
	Action Action
	Floor  int
	Dirn   elevio.Dirn
}

const maxFloorDigits = 3

// Input collects the floor number being typed between call keys.
type Input struct {
	digits string
}

func (in *Input) Pending() string {
	return in.digits
}

func (in *Input) Handle(char rune, key keyboard.Key) Command {
	switch key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Command{Action: ActQuit}
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		if len(in.digits) > 0 {
			in.digits = in.digits[:len(in.digits)-1]
		}
		return Command{Action: ActNone}
	}

	switch {
	case char >= '0' && char <= '9':
		if len(in.digits) < maxFloorDigits {
			in.digits += string(char)
		}
		return Command{Action: ActNone}
	case char == 'u' || char == 'U':
		return in.call(elevio.D_Up)
	case char == 'd' || char == 'D':
		return in.call(elevio.D_Down)
	case char == 's' || char == 'S':
		return Command{Action: ActSnapshot}
	case char == 'g' || char == 'G':
		return Command{Action: ActRegenerate}
	case char == 'q' || char == 'Q':
		return Command{Action: ActQuit}
	}
	return Command{Action: ActNone}
}

// call consumes the typed floor. An empty or unparsable floor becomes 0 and is
// rejected by validation.
func (in *Input) call(dirn elevio.Dirn) Command {
	floor, err := strconv.Atoi(in.digits)
	if err != nil {
		floor = 0
	}
	in.digits = ""
	return Command{Action: ActCall, Floor: floor, Dirn: dirn}
}
