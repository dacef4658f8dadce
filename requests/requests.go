package requests

import (
	"sort"

	"liftsim/elevio"
)

// Registry records outstanding hall calls, queued or in service, once per
// (floor, direction).
type Registry struct {
	floors map[elevio.Dirn]map[int]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{floors: make(map[elevio.Dirn]map[int]struct{})}
	for _, d := range elevio.CallDirns {
		r.floors[d] = make(map[int]struct{})
	}
	return r
}

// Register reports whether the call is new. A repeated call is a no-op.
func (r *Registry) Register(floor int, dirn elevio.Dirn) bool {
	set, ok := r.floors[dirn]
	if !ok {
		return false
	}
	if _, exists := set[floor]; exists {
		return false
	}
	set[floor] = struct{}{}
	return true
}

func (r *Registry) Clear(floor int, dirn elevio.Dirn) {
	if set, ok := r.floors[dirn]; ok {
		delete(set, floor)
	}
}

func (r *Registry) Has(floor int, dirn elevio.Dirn) bool {
	_, ok := r.floors[dirn][floor]
	return ok
}

func (r *Registry) HasPending(dirn elevio.Dirn) bool {
	return len(r.floors[dirn]) > 0
}

func (r *Registry) Len() int {
	n := 0
	for _, set := range r.floors {
		n += len(set)
	}
	return n
}

// Floors returns the pending floors for dirn in ascending order.
func (r *Registry) Floors(dirn elevio.Dirn) []int {
	out := make([]int, 0, len(r.floors[dirn]))
	for f := range r.floors[dirn] {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}
