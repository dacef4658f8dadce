package network

import (
	"context"
	"time"

	"liftsim/elevio"
)

func (s *Server) OnAssign(carID, fromFloor, toFloor int, dirn elevio.Dirn, duration time.Duration) {
	s.broadcast(TypeAssign, MsgAssign{
		CarID:      carID,
		FromFloor:  fromFloor,
		ToFloor:    toFloor,
		Direction:  dirn,
		DurationMs: duration.Milliseconds(),
	})
}

func (s *Server) OnDoorOpen(carID, floor int, dirn elevio.Dirn) {
	s.broadcast(TypeDoorOpen, MsgDoorOpen{CarID: carID, Floor: floor, Direction: dirn})
}

func (s *Server) OnDoorClose(carID int) {
	s.broadcast(TypeDoorClose, MsgDoorClose{CarID: carID})
}

// broadcast is called with the controller lock held and must return promptly.
func (s *Server) broadcast(t MessageType, content interface{}) {
	env, err := NewEnvelope(t, content)
	if err != nil {
		Log.Error().Err(err).Msg("Failed to encode broadcast")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		s.enqueue(sess, env)
	}
}

// heartbeatLoop tells every panel the server is still alive. A panel that stops
// hearing heartbeats for PeerTimeout treats the server as gone.
func (s *Server) heartbeatLoop(ctx context.Context, d Dispatcher) {
	ticker := time.NewTicker(s.cfg.Heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(TypeHeartbeat, MsgHeartbeat{Name: s.cfg.Name, Generation: d.Snapshot().Generation})
		}
	}
}
