package debugger

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialRemote(t *testing.T, r *Remote) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/debug"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(message)
}

func TestRemote(t *testing.T) {
	r := NewRemote("127.0.0.1:0", nil)
	defer r.Close()

	// replies sent before a client connects are replayed to it
	require.NoError(t, r.Reply("0x0100: NOP"))
	conn := dialRemote(t, r)
	assert.Equal(t, "0x0100: NOP", readMessage(t, conn))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("break 0x150")))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	line, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "break 0x150", line)

	require.NoError(t, r.Reply("breakpoint 1 at 0x0150"))
	assert.Equal(t, "breakpoint 1 at 0x0150", readMessage(t, conn))
}

func TestRemote_Controller(t *testing.T) {
	r := NewRemote("127.0.0.1:0", nil)
	defer r.Close()
	conn := dialRemote(t, r)

	c := New(r, Stepping(), WithTarget(fakeTarget{}))
	errs := make(chan error, 1)
	go func() {
		errs <- c.Before(context.Background(), 0x0150)
	}()

	assert.Equal(t, "0x0150: NOP @0150", readMessage(t, conn))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("b 0x200")))
	assert.Equal(t, "breakpoint 1 at 0x0200", readMessage(t, conn))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("continue")))
	assert.Equal(t, "continuing", readMessage(t, conn))

	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not resume")
	}
	assert.Equal(t, Running, c.State())
}

func TestRemote_Close(t *testing.T) {
	r := NewRemote("127.0.0.1:0", nil)
	require.NoError(t, r.Start())
	assert.NotEqual(t, "127.0.0.1:0", r.Addr())
	require.NoError(t, r.Close())

	_, err := r.Next(context.Background())
	assert.ErrorIs(t, err, ErrRemoteClosed)
}
