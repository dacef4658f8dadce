package network

import (
	"net"

	"github.com/pkg/errors"
)

// ErrPeerSilent means the other end sent nothing, not even a heartbeat, within
// the peer timeout.
var ErrPeerSilent = errors.New("peer stopped sending heartbeats")

// IsTimeout reports whether err came from an expired read or write deadline.
func IsTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
