package fsm

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"liftsim/config"
	"liftsim/elevator"
	"liftsim/elevio"
	"liftsim/hall_request_assigner"
	"liftsim/logger"
	"liftsim/requests"
	"liftsim/timer"
)

var Log = logger.GetLogger()

// Listener receives the commands the controller issues to whoever renders the
// building. Calls are made synchronously while the controller lock is held, so
// implementations must not block or call back into the Controller.
type Listener interface {
	OnAssign(carID, fromFloor, toFloor int, dirn elevio.Dirn, duration time.Duration)
	OnDoorOpen(carID, floor int, dirn elevio.Dirn)
	OnDoorClose(carID int)
}

type NopListener struct{}

func (NopListener) OnAssign(int, int, int, elevio.Dirn, time.Duration) {}
func (NopListener) OnDoorOpen(int, int, elevio.Dirn)                   {}
func (NopListener) OnDoorClose(int)                                    {}

// Controller owns the cars, the call registry and the dispatch queue. Every
// mutation happens under mu, so registering, queueing and assigning are atomic
// with respect to each other and to the car timers.
type Controller struct {
	mu         sync.Mutex
	cfg        config.Config
	clock      timer.Clock
	listener   Listener
	generation uint64
	cars       []*elevator.Car
	registry   *requests.Registry
	queue      *requests.Queue
	timers     map[int]timer.Timer
}

func New(cfg config.Config, clock timer.Clock, listener Listener) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = timer.Real()
	}
	if listener == nil {
		listener = NopListener{}
	}
	c := &Controller{
		cfg:      cfg,
		clock:    clock,
		listener: listener,
	}
	c.reset()
	Log.Info().Msgf("Building generated with %d floors and %d cars", cfg.FloorCount, cfg.CarCount)
	return c, nil
}

func (c *Controller) reset() {
	c.generation++
	c.cars = elevator.NewCars(c.cfg.CarCount)
	c.registry = requests.NewRegistry()
	c.queue = requests.NewQueue()
	c.timers = make(map[int]timer.Timer)
}

func (c *Controller) Config() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// RequestCall is the entry point for a hall call. It returns false without an
// error when the same call is already outstanding.
func (c *Controller) RequestCall(floor int, dirn elevio.Dirn) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := elevio.ValidateCall(floor, dirn, c.cfg.FloorCount); err != nil {
		return false, err
	}
	if !c.registry.Register(floor, dirn) {
		Log.Debug().Msgf("Call (%d, %s) already pending, ignoring", floor, dirn)
		return false, nil
	}
	c.queue.Enqueue(elevio.Call{Floor: floor, Dirn: dirn})
	Log.Info().Msgf("Call (%d, %s) registered, %d waiting for a car", floor, dirn, c.queue.Len())
	c.tick(nil)
	return true, nil
}

// Tick runs the scheduler outside its usual trigger points.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick(nil)
}

// tick assigns queued calls front first while an eligible car exists. The front
// call is only removed once a car has been found for it, so a call waiting on a
// busy building stays queued. finishing is a car whose door cycle is ending and
// which may continue straight into a new trip. Reports whether finishing was
// assigned.
func (c *Controller) tick(finishing *elevator.Car) bool {
	nearest := func(floor int) *elevator.Car {
		if finishing == nil {
			return hall_request_assigner.NearestIdleCar(c.cars, floor)
		}
		return hall_request_assigner.NearestCar(c.cars, floor, func(car *elevator.Car) bool {
			return car.IsIdle() || car == finishing
		})
	}
	continued := false
	for {
		call, ok := c.queue.Peek()
		if !ok {
			return continued
		}
		car := nearest(call.Floor)
		if car == nil {
			Log.Debug().Msgf("No idle car for (%d, %s), %d calls waiting", call.Floor, call.Dirn, c.queue.Len())
			return continued
		}
		c.queue.Dequeue()
		if car == finishing {
			continued = true
			finishing = nil
		}
		c.assign(car, call)
	}
}

func (c *Controller) assign(car *elevator.Car, call elevio.Call) {
	from := car.Floor
	duration := car.Assign(call, c.cfg.PerFloorTravel())
	Log.Info().Msgf("Car %d assigned (%d, %s) from floor %d, travel %v", car.ID, call.Floor, call.Dirn, from, duration)
	c.listener.OnAssign(car.ID, from, call.Floor, call.Dirn, duration)
	c.schedule(car, duration, c.handleArrival)
}

// schedule arms the next phase of car. The callback is dropped if the building
// was regenerated after it was armed.
func (c *Controller) schedule(car *elevator.Car, d time.Duration, phase func(*elevator.Car)) {
	generation := c.generation
	id := car.ID
	c.timers[id] = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if generation != c.generation {
			Log.Debug().Msgf("Stale timer for car %d from generation %d ignored", id, generation)
			return
		}
		delete(c.timers, id)
		phase(c.cars[id])
	})
}

func (c *Controller) handleArrival(car *elevator.Car) {
	if !car.OpenDoors() {
		Log.Warn().Msgf("Car %d arrival ignored in state %s", car.ID, car.Behaviour)
		return
	}
	Log.Info().Msgf("Car %d doors open at floor %d", car.ID, car.Floor)
	c.listener.OnDoorOpen(car.ID, car.Floor, car.Serving.Dirn)
	c.schedule(car, c.cfg.DoorDwell(), c.handleDoorTimeout)
}

func (c *Controller) handleDoorTimeout(car *elevator.Car) {
	served := car.Serving
	c.listener.OnDoorClose(car.ID)
	c.registry.Clear(served.Floor, served.Dirn)

	if c.registry.HasPending(car.Dirn) {
		if c.tick(car) {
			return
		}
	} else {
		car.ReleaseDirection()
	}
	Log.Debug().Msgf("Car %d doors closed at floor %d", car.ID, car.Floor)
	c.schedule(car, c.cfg.DoorCloseSettle(), c.handleDoorSettle)
}

func (c *Controller) handleDoorSettle(car *elevator.Car) {
	car.Park()
	Log.Info().Msgf("Car %d idle at floor %d", car.ID, car.Floor)
	c.tick(nil)
}

// Regenerate replaces the building. Every armed timer is stopped and any that
// still fires afterwards is ignored by its generation check.
func (c *Controller) Regenerate(floors, cars int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.cfg.WithBuilding(floors, cars)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "regenerate")
	}
	for _, t := range c.timers {
		t.Stop()
	}
	c.cfg = cfg
	c.reset()
	Log.Info().Msgf("Building regenerated with %d floors and %d cars (generation %d)", floors, cars, c.generation)
	return nil
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Idle reports whether nothing is queued, pending or moving.
func (c *Controller) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue.Len() > 0 || c.registry.Len() > 0 {
		return false
	}
	for _, car := range c.cars {
		if !car.IsIdle() {
			return false
		}
	}
	return true
}
