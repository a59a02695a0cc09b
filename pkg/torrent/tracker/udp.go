// Package tracker implements the connection-setup layer of the BEP0015 UDP
// tracker protocol: connect request construction, connect response
// validation and the retransmit timeout schedule. Sending the packets is
// left to the caller.
package tracker

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// protocolID is the magic constant identifying the BitTorrent UDP tracker
// protocol in every connect request.
const protocolID uint64 = 0x41727101980

const actionConnect uint32 = 0

// ConnectRequestSize is the wire size of a connect request in bytes.
const ConnectRequestSize = 16

// ConnectResponseSize is the minimum wire size of a connect response.
const ConnectResponseSize = 16

var (
	ErrShortResponse       = errors.New("tracker: connect response shorter than 16 bytes")
	ErrActionMismatch      = errors.New("tracker: connect response action is not connect")
	ErrTransactionMismatch = errors.New("tracker: connect response transaction id does not match request")
)

// NewTransactionID returns a random transaction id for a tracker exchange.
func NewTransactionID() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("tracker: generate transaction id: %w", err)
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}

// ConnectRequest is the first packet sent to a UDP tracker to obtain a
// connection id.
type ConnectRequest struct {
	TransactionID uint32
}

// Marshal packs the request into its 16-byte wire form:
// protocol id (8), action (4), transaction id (4), all big-endian.
func (r ConnectRequest) Marshal() [ConnectRequestSize]byte {
	var buf [ConnectRequestSize]byte

	binary.BigEndian.PutUint64(buf[0:8], protocolID)
	binary.BigEndian.PutUint32(buf[8:12], actionConnect)
	binary.BigEndian.PutUint32(buf[12:16], r.TransactionID)

	return buf
}

// ConnectResponse is the tracker's answer to a ConnectRequest.
type ConnectResponse struct {
	TransactionID uint32
	ConnectionID  uint64
}

// ParseConnectResponse validates a raw connect response against the
// transaction id of the request it answers. The packet must be at least 16
// bytes, echo the connect action, and echo the transaction id.
func ParseConnectResponse(buf []byte, transactionID uint32) (ConnectResponse, error) {
	if len(buf) < ConnectResponseSize {
		return ConnectResponse{}, ErrShortResponse
	}

	if action := binary.BigEndian.Uint32(buf[0:4]); action != actionConnect {
		return ConnectResponse{}, fmt.Errorf("%w: got action %d", ErrActionMismatch, action)
	}

	resp := ConnectResponse{
		TransactionID: binary.BigEndian.Uint32(buf[4:8]),
		ConnectionID:  binary.BigEndian.Uint64(buf[8:16]),
	}

	if resp.TransactionID != transactionID {
		return ConnectResponse{}, fmt.Errorf("%w: sent %d, got %d", ErrTransactionMismatch, transactionID, resp.TransactionID)
	}

	return resp, nil
}

// MaxRetries is the largest retransmit step BEP0015 defines.
const MaxRetries = 8

var ErrRetryOutOfRange = errors.New("tracker: retransmit step must be between 0 and 8")

// RetransmitTimeout returns how long to wait for a response before the n-th
// retransmit, following the 15 * 2^n seconds schedule from BEP0015.
func RetransmitTimeout(n int) (time.Duration, error) {
	if n < 0 || n > MaxRetries {
		return 0, ErrRetryOutOfRange
	}

	return time.Duration(15*(1<<n)) * time.Second, nil
}
