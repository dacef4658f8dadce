package hall_request_assigner

import (
	"liftsim/elevator"
	"liftsim/elevio"
)

// Struct members must be public in order to be accessible by json.Marshal/.Unmarshal,
// so field renaming struct tags keep the wire format camelCase.

type CarState struct {
	ID        int         `json:"id"`
	Behaviour string      `json:"behaviour"`
	Floor     int         `json:"floor"`
	Direction elevio.Dirn `json:"direction"`
	Serving   elevio.Call `json:"serving"`
}

func CarToCarState(car *elevator.Car) CarState {
	return CarState{
		ID:        car.ID,
		Behaviour: car.Behaviour.String(),
		Floor:     car.Floor,
		Direction: car.Dirn,
		Serving:   car.Serving,
	}
}

func CarsToCarStates(cars []*elevator.Car) []CarState {
	states := make([]CarState, 0, len(cars))
	for _, car := range cars {
		states = append(states, CarToCarState(car))
	}
	return states
}

// NearestCar picks, among the cars accepted by eligible, the one closest to
// floor. Ties go to the lowest ID. Returns nil when no car is eligible.
func NearestCar(cars []*elevator.Car, floor int, eligible func(*elevator.Car) bool) *elevator.Car {
	var nearest *elevator.Car
	for _, car := range cars {
		if !eligible(car) {
			continue
		}
		if nearest == nil ||
			car.Distance(floor) < nearest.Distance(floor) ||
			(car.Distance(floor) == nearest.Distance(floor) && car.ID < nearest.ID) {
			nearest = car
		}
	}
	return nearest
}

func NearestIdleCar(cars []*elevator.Car, floor int) *elevator.Car {
	return NearestCar(cars, floor, (*elevator.Car).IsIdle)
}
