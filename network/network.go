package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xtaci/kcp-go/v5"

	"liftsim/config"
	"liftsim/elevio"
	"liftsim/fsm"
	"liftsim/logger"
)

var Log = logger.GetLogger()

// Dispatcher is the part of the controller exposed to remote panels.
type Dispatcher interface {
	RequestCall(floor int, dirn elevio.Dirn) (bool, error)
	Regenerate(floors, cars int) error
	Snapshot() fsm.Snapshot
}

// Server accepts KCP sessions from panels, forwards their requests to the
// dispatcher and fans controller events out to every session.
type Server struct {
	cfg      config.Config
	listener *kcp.Listener

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	id   uuid.UUID
	conn *kcp.UDPSession
	out  chan Envelope
	done chan struct{}
	once sync.Once
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*session),
	}
}

func configureSession(conn *kcp.UDPSession) {
	conn.SetStreamMode(true)
	conn.SetNoDelay(1, 10, 2, 1)
	conn.SetWindowSize(128, 128)
}

func (s *Server) Listen() error {
	ln, err := kcp.ListenWithOptions(s.cfg.ListenAddr, nil, 0, 0)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.ListenAddr)
	}
	s.listener = ln
	Log.Info().Msgf("Listening for panels on %s", AdvertisedAddr(ln.Addr().String()))
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve runs until ctx is cancelled. Listen is called first if needed.
func (s *Server) Serve(ctx context.Context, d Dispatcher) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	go s.heartbeatLoop(ctx, d)
	defer s.closeAll()

	for {
		conn, err := s.listener.AcceptKCP()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return errors.Wrap(err, "accept panel session")
		}
		configureSession(conn)
		sess := s.addSession(conn)
		go s.writeLoop(sess)
		go s.readLoop(sess, d)
	}
}

func (s *Server) addSession(conn *kcp.UDPSession) *session {
	sess := &session{
		id:   uuid.New(),
		conn: conn,
		out:  make(chan Envelope, outboxSize),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	Log.Info().Str("session", sess.id.String()).Msgf("Panel connected from %s", conn.RemoteAddr())
	return sess
}

func (s *Server) dropSession(sess *session) {
	sess.once.Do(func() {
		close(sess.done)
		sess.conn.Close()
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		Log.Info().Str("session", sess.id.String()).Msg("Panel disconnected")
	})
}

func (s *Server) closeAll() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		s.dropSession(sess)
	}
}

func (s *Server) readLoop(sess *session, d Dispatcher) {
	defer s.dropSession(sess)

	decoder := json.NewDecoder(sess.conn)
	for {
		sess.conn.SetReadDeadline(time.Now().Add(s.cfg.PeerTimeout()))
		var env Envelope
		if err := decoder.Decode(&env); err != nil {
			Log.Debug().Err(err).Str("session", sess.id.String()).Msg("Stopped reading from panel")
			return
		}
		s.handle(sess, env, d)
	}
}

func (s *Server) writeLoop(sess *session) {
	encoder := json.NewEncoder(sess.conn)
	for {
		select {
		case env := <-sess.out:
			if err := encoder.Encode(env); err != nil {
				Log.Warn().Err(err).Str("session", sess.id.String()).Msg("Write to panel failed")
				s.dropSession(sess)
				return
			}
		case <-sess.done:
			return
		}
	}
}

func (s *Server) handle(sess *session, env Envelope, d Dispatcher) {
	switch env.Type {
	case TypeCallRequest:
		var req CallRequest
		if err := env.Decode(&req); err != nil {
			s.replyError(sess, err)
			return
		}
		accepted, err := d.RequestCall(req.Floor, req.Direction)
		if err != nil {
			s.replyError(sess, err)
			return
		}
		s.reply(sess, TypeAck, MsgACK{Accepted: accepted})

	case TypeRegenerate:
		var req RegenerateRequest
		if err := env.Decode(&req); err != nil {
			s.replyError(sess, err)
			return
		}
		if err := d.Regenerate(req.Floors, req.Cars); err != nil {
			s.replyError(sess, err)
			return
		}
		s.broadcast(TypeSnapshot, d.Snapshot())

	case TypeSnapshotRequest:
		s.reply(sess, TypeSnapshot, d.Snapshot())

	case TypeHeartbeat:

	default:
		s.replyError(sess, errors.Errorf("unknown message type %q", env.Type))
	}
}

func (s *Server) replyError(sess *session, err error) {
	Log.Debug().Err(err).Str("session", sess.id.String()).Msg("Rejected panel request")
	s.reply(sess, TypeError, MsgError{Message: err.Error()})
}

func (s *Server) reply(sess *session, t MessageType, content interface{}) {
	env, err := NewEnvelope(t, content)
	if err != nil {
		Log.Error().Err(err).Msg("Failed to encode reply")
		return
	}
	s.enqueue(sess, env)
}

// enqueue never blocks: a panel that cannot keep up loses events instead of
// stalling the controller.
func (s *Server) enqueue(sess *session, env Envelope) {
	select {
	case sess.out <- env:
	case <-sess.done:
	default:
		Log.Warn().Str("session", sess.id.String()).Msgf("Outbox full, dropping %s", env.Type)
	}
}
