package panel

import (
	"fmt"
	"strings"

	"liftsim/elevio"
	"liftsim/fsm"
	"liftsim/hall_request_assigner"
	"liftsim/network"
)

// Render draws the building top floor first, one column per car, followed by
// the pending up and down markers of each floor.
func Render(snap fsm.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  generation %d  waiting %d\n", snap.Name, snap.Generation, len(snap.Queue))
	for floor := snap.FloorCount; floor >= 1; floor-- {
		var line strings.Builder
		fmt.Fprintf(&line, "%3d |", floor)
		for _, car := range snap.Cars {
			cell := "   "
			if car.Floor == floor {
				cell = carCell(car)
			}
			line.WriteString(" " + cell)
		}
		line.WriteString(" | ")
		line.WriteString(mark(snap.Pending(floor, elevio.D_Up), "^"))
		line.WriteString(mark(snap.Pending(floor, elevio.D_Down), "v"))
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func carCell(car hall_request_assigner.CarState) string {
	switch car.Behaviour {
	case "moving":
		switch car.Direction {
		case elevio.D_Up:
			return "[^]"
		case elevio.D_Down:
			return "[v]"
		}
		return "[*]"
	case "doorOpen":
		return "[=]"
	default:
		return "[ ]"
	}
}

func mark(set bool, symbol string) string {
	if set {
		return symbol
	}
	return " "
}

// Describe turns a server message into one line of panel output. Snapshots are
// rendered in full.
func Describe(env network.Envelope) string {
	switch env.Type {
	case network.TypeAssign:
		var m network.MsgAssign
		if err := env.Decode(&m); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("car %d: floor %d -> %d (%s), %dms", m.CarID, m.FromFloor, m.ToFloor, m.Direction, m.DurationMs)
	case network.TypeDoorOpen:
		var m network.MsgDoorOpen
		if err := env.Decode(&m); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("car %d: doors open at floor %d", m.CarID, m.Floor)
	case network.TypeDoorClose:
		var m network.MsgDoorClose
		if err := env.Decode(&m); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("car %d: doors closed", m.CarID)
	case network.TypeAck:
		var m network.MsgACK
		if err := env.Decode(&m); err != nil {
			return err.Error()
		}
		if m.Accepted {
			return "call registered"
		}
		return "call already pending"
	case network.TypeError:
		var m network.MsgError
		if err := env.Decode(&m); err != nil {
			return err.Error()
		}
		return "error: " + m.Message
	case network.TypeSnapshot:
		var snap fsm.Snapshot
		if err := env.Decode(&snap); err != nil {
			return err.Error()
		}
		return Render(snap)
	}
	return fmt.Sprintf("unhandled %s message", env.Type)
}
