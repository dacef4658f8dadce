package network

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/xtaci/kcp-go/v5"

	"liftsim/config"
	"liftsim/elevio"
)

// Client is a panel's connection to the dispatch server. Every envelope the
// server sends, heartbeats excluded, is delivered on Events.
type Client struct {
	cfg  config.Config
	conn *kcp.UDPSession

	writeMu sync.Mutex
	encoder *json.Encoder

	events chan Envelope
	done   chan struct{}
	once   sync.Once

	errMu sync.Mutex
	err   error
}

// Dial connects to addr and asks for a snapshot straight away, which also makes
// the server accept the session.
func Dial(addr string, cfg config.Config) (*Client, error) {
	conn, err := kcp.DialWithOptions(addr, nil, 0, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}
	configureSession(conn)

	c := &Client{
		cfg:     cfg,
		conn:    conn,
		encoder: json.NewEncoder(conn),
		events:  make(chan Envelope, outboxSize),
		done:    make(chan struct{}),
	}
	if err := c.RequestSnapshot(); err != nil {
		conn.Close()
		return nil, err
	}
	go c.readLoop()
	go c.heartbeatLoop()
	Log.Info().Msgf("Connected to dispatch server at %s", addr)
	return c, nil
}

// Events is closed when the connection ends. Err then reports why.
func (c *Client) Events() <-chan Envelope {
	return c.events
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) RequestCall(floor int, dirn elevio.Dirn) error {
	return c.send(TypeCallRequest, CallRequest{Floor: floor, Direction: dirn})
}

func (c *Client) Regenerate(floors, cars int) error {
	return c.send(TypeRegenerate, RegenerateRequest{Floors: floors, Cars: cars})
}

func (c *Client) RequestSnapshot() error {
	return c.send(TypeSnapshotRequest, nil)
}

func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

func (c *Client) send(t MessageType, content interface{}) error {
	env, err := NewEnvelope(t, content)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.PeerTimeout()))
	return errors.Wrapf(c.encoder.Encode(env), "send %s", t)
}

func (c *Client) shutdown(err error) {
	c.once.Do(func() {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) readLoop() {
	defer close(c.events)

	decoder := json.NewDecoder(c.conn)
	for {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PeerTimeout()))
		var env Envelope
		if err := decoder.Decode(&env); err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			if IsTimeout(err) {
				err = errors.Wrapf(ErrPeerSilent, "no message for %v", c.cfg.PeerTimeout())
			}
			Log.Warn().Err(err).Msg("Lost connection to dispatch server")
			c.shutdown(err)
			return
		}
		if env.Type == TypeHeartbeat {
			continue
		}
		select {
		case c.events <- env:
		case <-c.done:
			return
		}
	}
}

func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.Heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.send(TypeHeartbeat, nil); err != nil {
				Log.Debug().Err(err).Msg("Heartbeat failed")
			}
		}
	}
}
