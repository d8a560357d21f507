package network

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxigo/dynlist/internal/core"
	"github.com/luxigo/dynlist/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type client struct {
	conn net.Conn
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
}

func (c *client) send(t *testing.T, request map[string]interface{}) map[string]interface{} {
	t.Helper()
	require.NoError(t, c.conn.SetDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, c.enc.Encode(request))

	var response map[string]interface{}
	require.NoError(t, c.dec.Decode(&response))
	return response
}

func startServer(t *testing.T) (*Server, *client) {
	t.Helper()
	utils.NewLogger(filepath.Join(t.TempDir(), "dynlist.log"), false)

	server, err := NewServer(0, core.NewCommandHandler(core.NewStore(0)))
	require.NoError(t, err)
	require.NoError(t, server.Listen())

	done := make(chan error, 1)
	go func() { done <- server.Serve() }()
	t.Cleanup(func() {
		assert.NoError(t, server.Close())
		assert.NoError(t, <-done)
	})

	conn, err := net.Dial("tcp", server.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server, &client{conn: conn, enc: msgpack.NewEncoder(conn), dec: msgpack.NewDecoder(conn)}
}

func TestNewServerRequiresStore(t *testing.T) {
	_, err := NewServer(0, nil)
	assert.Error(t, err)
	_, err = NewServer(0, &core.CommandHandler{})
	assert.Error(t, err)
}

func TestServeBeforeListen(t *testing.T) {
	server, err := NewServer(0, core.NewCommandHandler(core.NewStore(0)))
	require.NoError(t, err)
	assert.Nil(t, server.Addr())
	assert.Error(t, server.Serve())
}

func TestServerCommands(t *testing.T) {
	_, c := startServer(t)

	t.Run("PING", func(t *testing.T) {
		response := c.send(t, map[string]interface{}{"command": "PING"})
		assert.Equal(t, "OK", response["status"])
		assert.Equal(t, "PONG", response["message"])
	})

	t.Run("PUSH then INSERT and RANGE", func(t *testing.T) {
		for _, v := range []string{"a", "b", "c"} {
			response := c.send(t, map[string]interface{}{"command": "PUSH", "key": "l", "value": v})
			assert.Equal(t, "OK", response["status"])
		}
		response := c.send(t, map[string]interface{}{"command": "INSERT", "key": "l", "index": 1, "after": true, "value": "x"})
		assert.Equal(t, "OK", response["status"])

		response = c.send(t, map[string]interface{}{"command": "RANGE", "key": "l"})
		assert.Equal(t, []interface{}{"a", "b", "x", "c"}, response["values"])
	})

	t.Run("GET out of range is an error", func(t *testing.T) {
		response := c.send(t, map[string]interface{}{"command": "GET", "key": "l", "index": 4})
		assert.Equal(t, "ERROR", response["status"])
		assert.Contains(t, response["message"], "index out of range")
	})

	t.Run("REMOVE vetoed", func(t *testing.T) {
		response := c.send(t, map[string]interface{}{"command": "REMOVE", "key": "l", "index": 0, "expect": "b"})
		assert.Equal(t, "CANCELLED", response["status"])
	})

	t.Run("POP on empty list", func(t *testing.T) {
		response := c.send(t, map[string]interface{}{"command": "POP", "key": "empty"})
		assert.Equal(t, "NOT_FOUND", response["status"])
	})

	t.Run("unknown command keeps the connection", func(t *testing.T) {
		response := c.send(t, map[string]interface{}{"command": "FLY"})
		assert.Equal(t, "ERROR", response["status"])
		response = c.send(t, map[string]interface{}{"command": "SHIFT", "key": "l"})
		assert.Equal(t, "a", response["value"])
	})
}
