package elevator

import (
	"testing"
	"time"

	"liftsim/elevio"
)

func TestNewCarsStartIdleAtGroundFloor(t *testing.T) {
	cars := NewCars(3)
	if len(cars) != 3 {
		t.Fatalf("Expected 3 cars, got %d", len(cars))
	}
	for i, c := range cars {
		if c.ID != i || c.Floor != 1 || !c.IsIdle() || c.Dirn != elevio.D_Stop {
			t.Errorf("Unexpected initial car %+v", *c)
		}
	}
}

func TestAssignCommitsDestinationImmediately(t *testing.T) {
	c := NewCar(0)
	d := c.Assign(elevio.Call{Floor: 4, Dirn: elevio.D_Up}, 2*time.Second)

	if d != 6*time.Second {
		t.Errorf("Expected travel time 6s, got %v", d)
	}
	if c.Floor != 4 {
		t.Errorf("Expected floor to be committed to 4, got %d", c.Floor)
	}
	if c.Behaviour != EB_Moving || c.Dirn != elevio.D_Up {
		t.Errorf("Expected moving up, got %v %v", c.Behaviour, c.Dirn)
	}
	if c.Serving != (elevio.Call{Floor: 4, Dirn: elevio.D_Up}) {
		t.Errorf("Unexpected served call %+v", c.Serving)
	}
}

func TestTravelTimeIsSymmetric(t *testing.T) {
	c := NewCar(0)
	c.Floor = 7
	if got := c.TravelTime(3, time.Second); got != 4*time.Second {
		t.Errorf("Expected 4s down, got %v", got)
	}
	if got := c.TravelTime(7, time.Second); got != 0 {
		t.Errorf("Expected 0 for the current floor, got %v", got)
	}
}

func TestOpenDoorsIsGuarded(t *testing.T) {
	c := NewCar(0)
	if c.OpenDoors() {
		t.Errorf("Idle car must not open doors")
	}

	c.Assign(elevio.Call{Floor: 2, Dirn: elevio.D_Down}, time.Second)
	if !c.OpenDoors() {
		t.Fatalf("Moving car should open doors on arrival")
	}
	if c.OpenDoors() {
		t.Errorf("Second door-open for the same arrival must be a no-op")
	}
	if c.Behaviour != EB_DoorOpen {
		t.Errorf("Expected door open, got %v", c.Behaviour)
	}
}

func TestParkClearsCommitment(t *testing.T) {
	c := NewCar(1)
	c.Assign(elevio.Call{Floor: 3, Dirn: elevio.D_Up}, time.Second)
	c.OpenDoors()
	c.Park()

	if !c.IsIdle() || c.Dirn != elevio.D_Stop || c.Serving != (elevio.Call{}) {
		t.Errorf("Expected parked car, got %+v", *c)
	}
	if c.Floor != 3 {
		t.Errorf("Parking must keep the floor, got %d", c.Floor)
	}
}
