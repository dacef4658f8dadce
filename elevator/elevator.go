package elevator

import (
	"time"

	"liftsim/elevio"
)

type ElevatorBehaviour int

const (
	EB_Idle ElevatorBehaviour = iota
	EB_DoorOpen
	EB_Moving
)

func (eb ElevatorBehaviour) String() string {
	switch eb {
	case EB_Idle:
		return "idle"
	case EB_DoorOpen:
		return "doorOpen"
	case EB_Moving:
		return "moving"
	default:
		return "undefined"
	}
}

// Car is one elevator. Floor holds the claimed destination while the car is
// Moving, so a second assignment never targets a car already en route.
type Car struct {
	ID        int
	Floor     int
	Dirn      elevio.Dirn
	Behaviour ElevatorBehaviour
	Serving   elevio.Call
}

func NewCar(id int) *Car {
	return &Car{
		ID:        id,
		Floor:     1,
		Dirn:      elevio.D_Stop,
		Behaviour: EB_Idle,
	}
}

func NewCars(count int) []*Car {
	cars := make([]*Car, count)
	for i := range cars {
		cars[i] = NewCar(i)
	}
	return cars
}

func (c *Car) IsIdle() bool {
	return c.Behaviour == EB_Idle
}

func (c *Car) Distance(floor int) int {
	if floor > c.Floor {
		return floor - c.Floor
	}
	return c.Floor - floor
}

// TravelTime follows the linear model: a fixed duration per floor crossed.
func (c *Car) TravelTime(floor int, perFloor time.Duration) time.Duration {
	return time.Duration(c.Distance(floor)) * perFloor
}

// Assign commits the car to serve call and returns the travel duration.
func (c *Car) Assign(call elevio.Call, perFloor time.Duration) time.Duration {
	d := c.TravelTime(call.Floor, perFloor)
	c.Floor = call.Floor
	c.Dirn = call.Dirn
	c.Serving = call
	c.Behaviour = EB_Moving
	return d
}

// OpenDoors reports false when the doors are already open or the car was not
// travelling, so a duplicate arrival is a no-op.
func (c *Car) OpenDoors() bool {
	if c.Behaviour != EB_Moving {
		return false
	}
	c.Behaviour = EB_DoorOpen
	return true
}

func (c *Car) ReleaseDirection() {
	c.Dirn = elevio.D_Stop
}

func (c *Car) Park() {
	c.Behaviour = EB_Idle
	c.Dirn = elevio.D_Stop
	c.Serving = elevio.Call{}
}
