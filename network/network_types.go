package network

import (
	"encoding/json"

	"github.com/pkg/errors"

	"liftsim/elevio"
)

type MessageType string

const (
	TypeCallRequest     MessageType = "CallRequest"
	TypeRegenerate      MessageType = "Regenerate"
	TypeSnapshotRequest MessageType = "SnapshotRequest"
	TypeHeartbeat       MessageType = "Heartbeat"
	TypeAssign          MessageType = "Assign"
	TypeDoorOpen        MessageType = "DoorOpen"
	TypeDoorClose       MessageType = "DoorClose"
	TypeSnapshot        MessageType = "Snapshot"
	TypeAck             MessageType = "ACK"
	TypeError           MessageType = "Error"
)

const outboxSize = 256

// Envelope is the unit written on a session. Content is decoded according to Type.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

type CallRequest struct {
	Floor     int         `json:"floor"`
	Direction elevio.Dirn `json:"direction"`
}

type RegenerateRequest struct {
	Floors int `json:"floors"`
	Cars   int `json:"cars"`
}

type MsgAssign struct {
	CarID      int         `json:"carId"`
	FromFloor  int         `json:"fromFloor"`
	ToFloor    int         `json:"toFloor"`
	Direction  elevio.Dirn `json:"direction"`
	DurationMs int64       `json:"durationMs"`
}

type MsgDoorOpen struct {
	CarID     int         `json:"carId"`
	Floor     int         `json:"floor"`
	Direction elevio.Dirn `json:"direction"`
}

type MsgDoorClose struct {
	CarID int `json:"carId"`
}

type MsgACK struct {
	Accepted bool `json:"accepted"`
}

type MsgError struct {
	Message string `json:"message"`
}

type MsgHeartbeat struct {
	Name       string `json:"name,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

func NewEnvelope(t MessageType, content interface{}) (Envelope, error) {
	if content == nil {
		return Envelope{Type: t}, nil
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "encode %s", t)
	}
	return Envelope{Type: t, Content: raw}, nil
}

func (e Envelope) Decode(v interface{}) error {
	if len(e.Content) == 0 {
		return errors.Errorf("%s message has no content", e.Type)
	}
	return errors.Wrapf(json.Unmarshal(e.Content, v), "decode %s", e.Type)
}
