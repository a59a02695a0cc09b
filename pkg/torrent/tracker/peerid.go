package tracker

import (
	"crypto/rand"
	"fmt"
)

// ClientPrefix identifies this client in the peer ids it generates.
const ClientPrefix = "TO"

// PeerIDLen is the wire length of a peer id.
const PeerIDLen = 20

// NewPeerID returns a fresh 20-byte peer id: the client prefix followed by
// random bytes. Generate one per torrent, not one per client lifetime.
func NewPeerID() ([PeerIDLen]byte, error) {
	var id [PeerIDLen]byte

	n := copy(id[:], ClientPrefix)
	if _, err := rand.Read(id[n:]); err != nil {
		return id, fmt.Errorf("tracker: generate peer id: %w", err)
	}

	return id, nil
}
