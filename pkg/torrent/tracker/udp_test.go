package tracker_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torro-bt/torro/pkg/torrent/tracker"
)

func TestConnectRequestMarshal(t *testing.T) {
	req := tracker.ConnectRequest{TransactionID: 0xdeadbeef}
	buf := req.Marshal()

	assert.Equal(t, uint64(0x41727101980), binary.BigEndian.Uint64(buf[0:8]))
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(buf[8:12]))
	assert.Equal(t, uint32(0xdeadbeef), binary.BigEndian.Uint32(buf[12:16]))
}

func TestParseConnectResponse(t *testing.T) {
	buildResponse := func(action, txn uint32, connID uint64) []byte {
		buf := make([]byte, 16)
		binary.BigEndian.PutUint32(buf[0:4], action)
		binary.BigEndian.PutUint32(buf[4:8], txn)
		binary.BigEndian.PutUint64(buf[8:16], connID)

		return buf
	}

	t.Run("valid", func(t *testing.T) {
		resp, err := tracker.ParseConnectResponse(buildResponse(0, 7, 0x1122334455667788), 7)
		require.NoError(t, err)
		assert.Equal(t, uint32(7), resp.TransactionID)
		assert.Equal(t, uint64(0x1122334455667788), resp.ConnectionID)
	})

	t.Run("short packet", func(t *testing.T) {
		_, err := tracker.ParseConnectResponse(make([]byte, 15), 7)
		assert.ErrorIs(t, err, tracker.ErrShortResponse)
	})

	t.Run("wrong action", func(t *testing.T) {
		_, err := tracker.ParseConnectResponse(buildResponse(1, 7, 1), 7)
		assert.ErrorIs(t, err, tracker.ErrActionMismatch)
	})

	t.Run("transaction mismatch", func(t *testing.T) {
		_, err := tracker.ParseConnectResponse(buildResponse(0, 8, 1), 7)
		assert.ErrorIs(t, err, tracker.ErrTransactionMismatch)
	})
}

func TestRetransmitTimeout(t *testing.T) {
	want := []time.Duration{
		15 * time.Second,
		30 * time.Second,
		60 * time.Second,
		120 * time.Second,
		240 * time.Second,
		480 * time.Second,
		960 * time.Second,
		1920 * time.Second,
		3840 * time.Second,
	}

	for n, d := range want {
		got, err := tracker.RetransmitTimeout(n)
		require.NoError(t, err)
		assert.Equal(t, d, got, "step %d", n)
	}

	_, err := tracker.RetransmitTimeout(-1)
	assert.ErrorIs(t, err, tracker.ErrRetryOutOfRange)

	_, err = tracker.RetransmitTimeout(9)
	assert.ErrorIs(t, err, tracker.ErrRetryOutOfRange)
}

func TestNewPeerID(t *testing.T) {
	seen := make(map[[20]byte]bool)

	for i := 0; i < 100; i++ {
		id, err := tracker.NewPeerID()
		require.NoError(t, err)
		assert.Equal(t, tracker.ClientPrefix, string(id[:2]))
		assert.False(t, seen[id], "duplicate peer id generated")
		seen[id] = true
	}
}

func TestNewTransactionID(t *testing.T) {
	a, err := tracker.NewTransactionID()
	require.NoError(t, err)

	// a second draw colliding is possible but vanishingly unlikely
	b, err := tracker.NewTransactionID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
