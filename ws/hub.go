package ws

import (
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/mail"
	"github.com/meetlite/meetlite/persistence"
	"github.com/meetlite/meetlite/types"
)

const inboundChannelSize = 1024

// inbound is one decoded wire frame waiting for the hub goroutine.
type inbound struct {
	client *Client
	msg    types.WebsocketMessage
}

// Hub is the room/session coordinator. All registry reads and writes happen
// on the single goroutine running Run, so every handler is atomic with
// respect to state and the registries need no locking.
type Hub struct {
	state *State

	Cfg       *config.Config
	mailer    mail.Mailer
	Persister persistence.Persister

	// Register a new connection with the hub.
	Register chan *Client

	// Unregister is the transport-level disconnect notification.
	Unregister chan *Client

	inbound chan inbound
	ticks   chan struct{}
}

func NewHub(cfg *config.Config, mailer mail.Mailer, persister persistence.Persister) *Hub {
	hub := &Hub{
		state:      NewState(cfg.PasscodeTTL),
		Cfg:        cfg,
		mailer:     mailer,
		Persister:  persister,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		inbound:    make(chan inbound, inboundChannelSize),
		ticks:      make(chan struct{}, 1),
	}
	if persister != nil {
		events, err := persister.GetEvents()
		if err != nil {
			globals.AppLogger.Error("could not load persisted calendar events", "error", err)
		} else {
			hub.state.calendar = events
			hub.sortCalendar()
		}
	}
	return hub
}

// Run is the main hub event loop handling register, unregister and inbound
// events. Handlers run to completion before the next event is read, which is
// what gives every room a consistent event order.
func (h *Hub) Run() {
	cronRunner := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	// the sweep itself must run on this goroutine, cron only enqueues a tick
	_, err := cronRunner.AddFunc("@every 1m", func() {
		select {
		case h.ticks <- struct{}{}:
		default:
		}
	})
	if err != nil {
		panic(err)
	}
	defer cronRunner.Stop()
	cronRunner.Start()
	for {
		select {
		case client := <-h.Register:
			h.state.conns[client.ID] = client
			globals.AppLogger.Info("connection registered", "id", client.ID)

		case client := <-h.Unregister:
			h.handleDisconnect(client)

		case in := <-h.inbound:
			h.dispatch(in.client, in.msg)

		case <-h.ticks:
			h.handleTick()
		}
	}
}

// dispatch is the closed event vocabulary. Unknown events are dropped.
func (h *Hub) dispatch(c *Client, msg types.WebsocketMessage) {
	switch msg.Event {
	case types.EventCreateRoom:
		p := types.CreateRoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleCreateRoom(c, p)
		}
	case types.EventJoinRoom:
		p := types.JoinRoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleJoinRoom(c, p)
		}
	case types.EventRequestEmailPasscode:
		p := types.RequestPasscodePayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleRequestPasscode(c, p)
		}
	case types.EventVerifyPasscode:
		p := types.VerifyPasscodePayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleVerifyPasscode(c, p)
		}
	case types.EventLeaveRoom:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleLeaveRoom(c, p.RoomID)
		}
	case types.EventAdminEndMeeting:
		p := types.AdminEndMeetingPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleAdminEndMeeting(c, p)
		}
	case types.EventSetMeetingTime:
		p := types.SetMeetingTimePayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleSetMeetingTime(c, p)
		}
	case types.EventSetMeetingEndTime:
		p := types.SetMeetingEndTimePayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleSetMeetingEndTime(c, p)
		}
	case types.EventSendMessage:
		p := types.SendMessagePayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleSendMessage(c, p)
		}
	case types.EventUserSpeaking:
		p := types.UserSpeakingPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleUserSpeaking(c, p)
		}
	case types.EventGetMeetingStats:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleGetMeetingStats(c, p.RoomID)
		}
	case types.EventGetParticipants:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleGetParticipants(c, p.RoomID)
		}
	case types.EventSignal:
		p := types.SignalPayload{}
		if json.Unmarshal(msg.Data, &p) == nil {
			h.handleSignal(c, p)
		}
	case types.EventMediaReady:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleMediaReady(c, p.RoomID)
		}
	case types.EventWhiteboardDraw:
		p := types.WhiteboardDrawPayload{}
		if json.Unmarshal(msg.Data, &p) == nil {
			h.handleWhiteboardDraw(c, p)
		}
	case types.EventWhiteboardClear:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleWhiteboardClear(c, p.RoomID)
		}
	case types.EventGetWhiteboard:
		p := types.RoomPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleGetWhiteboard(c, p.RoomID)
		}
	case types.EventSendReaction:
		p := types.SendReactionPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleSendReaction(c, p)
		}
	case types.EventRaiseHand:
		p := types.RaiseHandPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleRaiseHand(c, p)
		}
	case types.EventCameraStatusChanged:
		p := types.CameraStatusPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleCameraStatus(c, p)
		}
	case types.EventCreateEvent:
		p := types.CreateEventPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleCreateEvent(c, p)
		}
	case types.EventDeleteEvent:
		p := types.DeleteEventPayload{}
		if decodePayload(msg.Data, &p) == nil {
			h.handleDeleteEvent(c, p)
		}
	case types.EventGetEvents:
		h.handleGetEvents(c)
	default:
		globals.AppLogger.Debug("unknown event, dropped", "event", msg.Event)
	}
}

// handleTick runs the periodic maintenance on the hub goroutine: expired
// passcodes are swept and meetings past their scheduled end are terminated.
func (h *Hub) handleTick() {
	if n := h.state.passcodes.Sweep(); n > 0 {
		globals.AppLogger.Info("swept expired passcodes", "count", n)
	}
	h.endOverdueMeetings()
}

// NoClients returns the number of registered connections.
func (h *Hub) NoClients() int {
	return len(h.state.conns)
}

// sendTo marshals an outbound event and hands it to one connection's write
// pump. The send never blocks: a gone or saturated connection is skipped so
// one slow recipient cannot hold up a broadcast.
func (h *Hub) sendTo(c *Client, event string, payload interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		globals.AppLogger.Error("could not marshal payload", "event", event, "error", err)
		return
	}
	raw, err := json.Marshal(types.WebsocketMessage{Event: event, Data: data})
	if err != nil {
		globals.AppLogger.Error("could not marshal ws message", "event", event, "error", err)
		return
	}
	select {
	case c.Send <- raw:
	default:
		globals.AppLogger.Warn("send buffer full, dropping message", "id", c.ID, "event", event)
	}
}

// sendToID delivers to a connection id; unknown ids are silently dropped.
func (h *Hub) sendToID(id string, event string, payload interface{}) {
	h.sendTo(h.state.conns[id], event, payload)
}

func (h *Hub) broadcastRoom(room *types.Room, event string, payload interface{}) {
	for _, id := range room.Participants {
		h.sendToID(id, event, payload)
	}
}

func (h *Hub) broadcastRoomExcept(room *types.Room, exceptID, event string, payload interface{}) {
	for _, id := range room.Participants {
		if id == exceptID {
			continue
		}
		h.sendToID(id, event, payload)
	}
}

// broadcastAll reaches every registered connection, roomed or not. Only the
// calendar uses this.
func (h *Hub) broadcastAll(event string, payload interface{}) {
	for _, c := range h.state.conns {
		h.sendTo(c, event, payload)
	}
}

// participantList resolves the room's ordered connection ids against the
// connection registry.
func (h *Hub) participantList(room *types.Room) []types.Participant {
	list := make([]types.Participant, 0, len(room.Participants))
	for _, id := range room.Participants {
		if c, ok := h.state.conns[id]; ok {
			list = append(list, c.Participant())
		}
	}
	return list
}
