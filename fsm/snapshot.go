package fsm

import (
	"github.com/tiendc/go-deepcopy"

	"liftsim/elevator"
	"liftsim/elevio"
	"liftsim/hall_request_assigner"
)

// Snapshot is a detached copy of the building, safe to hand to other goroutines.
type Snapshot struct {
	Name       string                           `json:"name"`
	Generation uint64                           `json:"generation"`
	FloorCount int                              `json:"floorCount"`
	Cars       []hall_request_assigner.CarState `json:"cars"`
	PendingUp  []int                            `json:"pendingUp"`
	PendingDn  []int                            `json:"pendingDown"`
	Queue      []elevio.Call                    `json:"queue"`
}

// buildingState is the mutable part of the controller a snapshot detaches.
type buildingState struct {
	Cars  []*elevator.Car
	Queue []elevio.Call
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := buildingState{Cars: c.cars, Queue: c.queue.Calls()}
	detached := new(buildingState)
	if err := deepcopy.Copy(detached, &live); err != nil {
		Log.Error().Err(err).Msg("Failed to copy building state")
		detached = &buildingState{}
	}
	if detached.Queue == nil {
		detached.Queue = []elevio.Call{}
	}

	return Snapshot{
		Name:       c.cfg.Name,
		Generation: c.generation,
		FloorCount: c.cfg.FloorCount,
		Cars:       hall_request_assigner.CarsToCarStates(detached.Cars),
		PendingUp:  c.registry.Floors(elevio.D_Up),
		PendingDn:  c.registry.Floors(elevio.D_Down),
		Queue:      detached.Queue,
	}
}

// Pending reports whether (floor, dirn) is registered and not yet served.
func (s Snapshot) Pending(floor int, dirn elevio.Dirn) bool {
	floors := s.PendingUp
	if dirn == elevio.D_Down {
		floors = s.PendingDn
	}
	for _, f := range floors {
		if f == floor {
			return true
		}
	}
	return false
}
