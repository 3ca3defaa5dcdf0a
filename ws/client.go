package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/types"
)

const (
	maxMessageSize  = 65536
	pongWait        = 2 * time.Minute
	pingPeriod      = time.Minute
	writeWait       = 10 * time.Second
	sendChannelSize = 256
)

// Client is a middleman between the websocket connection and the hub. It is
// also the connection-registry record: the session attributes below are only
// read and written on the hub goroutine.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages. Never closed; writers use a
	// non-blocking send and the write loop exits via doneChan instead.
	Send chan []byte

	doneChan chan struct{}

	// Session attributes, owned by the hub goroutine.
	ID         string
	Name       string
	Email      string
	RoomID     string
	IsAdmin    bool
	CameraOn   bool
	HandRaised bool
	State      types.ConnState
}

func NewClient(hub *Hub, conn *websocket.Conn, id, name string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		Send:     make(chan []byte, sendChannelSize),
		doneChan: make(chan struct{}),
		ID:       id,
		Name:     name,
		State:    types.ConnJoining,
	}
}

// Participant returns the room-facing snapshot of this connection.
func (c *Client) Participant() types.Participant {
	return types.Participant{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		IsAdmin:    c.IsAdmin,
		CameraOn:   c.CameraOn,
		HandRaised: c.HandRaised,
	}
}

// ReadLoop pumps messages from the websocket connection to the hub.
//
// The application runs ReadLoop in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) ReadLoop() {
	defer func() {
		c.conn.Close()
		close(c.doneChan)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				globals.AppLogger.Debug("ws closed unexpected", "error", err)
			}
			return
		}

		message := types.WebsocketMessage{}
		err = json.Unmarshal(raw, &message)
		if err != nil {
			globals.AppLogger.Debug("could not unmarshal ws message, dropped", "error", err)
			continue
		}
		c.hub.inbound <- inbound{client: c, msg: message}
	}
}

// WriteLoop pumps messages from the hub to the websocket connection.
//
// A goroutine running WriteLoop is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.doneChan:
			return
		}
	}
}

// decodePayload weakly decodes an inbound data object into a typed payload.
// Events carrying opaque sub-documents (signal, whiteboard-draw) bypass this
// and unmarshal directly to keep the raw bytes intact.
func decodePayload(data json.RawMessage, out interface{}) error {
	m := make(map[string]interface{})
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return mapstructure.WeakDecode(m, out)
}
