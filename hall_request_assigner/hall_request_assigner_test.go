package hall_request_assigner

import (
	"encoding/json"
	"testing"
	"time"

	"liftsim/elevator"
	"liftsim/elevio"
)

func carsAt(floors ...int) []*elevator.Car {
	cars := elevator.NewCars(len(floors))
	for i, f := range floors {
		cars[i].Floor = f
	}
	return cars
}

func TestNearestIdleCarPicksMinimumDistance(t *testing.T) {
	cars := carsAt(1, 5, 9)
	got := NearestIdleCar(cars, 6)
	if got == nil || got.ID != 1 {
		t.Fatalf("Expected car 1 at floor 5, got %+v", got)
	}
}

func TestNearestIdleCarBreaksTiesByLowestID(t *testing.T) {
	cars := carsAt(8, 4)
	got := NearestIdleCar(cars, 6)
	if got == nil || got.ID != 0 {
		t.Fatalf("Expected car 0 on a tie, got %+v", got)
	}

	cars = carsAt(4, 8)
	got = NearestIdleCar(cars, 6)
	if got == nil || got.ID != 0 {
		t.Fatalf("Expected car 0 on a tie, got %+v", got)
	}
}

func TestNearestIdleCarSkipsBusyCars(t *testing.T) {
	cars := carsAt(6, 6, 1)
	cars[0].Assign(elevio.Call{Floor: 6, Dirn: elevio.D_Up}, time.Second)
	cars[1].Assign(elevio.Call{Floor: 6, Dirn: elevio.D_Down}, time.Second)
	cars[1].OpenDoors()

	got := NearestIdleCar(cars, 6)
	if got == nil || got.ID != 2 {
		t.Fatalf("Expected the only idle car, got %+v", got)
	}
}

func TestNearestIdleCarNoneIdle(t *testing.T) {
	cars := carsAt(1, 2)
	for _, c := range cars {
		c.Assign(elevio.Call{Floor: 3, Dirn: elevio.D_Up}, time.Second)
	}
	if got := NearestIdleCar(cars, 3); got != nil {
		t.Errorf("Expected nil when every car is busy, got %+v", got)
	}
}

func TestNearestCarCustomEligibility(t *testing.T) {
	cars := carsAt(3, 7)
	cars[1].Assign(elevio.Call{Floor: 7, Dirn: elevio.D_Up}, time.Second)
	cars[1].OpenDoors()

	finishing := cars[1]
	got := NearestCar(cars, 8, func(c *elevator.Car) bool { return c.IsIdle() || c == finishing })
	if got != finishing {
		t.Errorf("Expected the finishing car to win, got %+v", got)
	}
}

func TestCarStateJSON(t *testing.T) {
	car := elevator.NewCar(2)
	car.Assign(elevio.Call{Floor: 4, Dirn: elevio.D_Down}, time.Second)

	b, err := json.Marshal(CarToCarState(car))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":2,"behaviour":"moving","floor":4,"direction":"down","serving":{"floor":4,"direction":"down"}}`
	if string(b) != want {
		t.Errorf("Got %s, expected %s", b, want)
	}
}
