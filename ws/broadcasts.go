package ws

import (
	"time"

	"github.com/meetlite/meetlite/types"
)

// handleSendMessage marks the sender as a chat participant and rebroadcasts
// the message verbatim to the whole room, sender included.
func (h *Hub) handleSendMessage(c *Client, p types.SendMessagePayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		return
	}
	room.ChatSet[c.ID] = struct{}{}
	h.broadcastRoom(room, types.EventNewMessage, p.Message)
}

// handleUserSpeaking only ever adds to the speech set: it records "spoke at
// least once", not a live speaking state.
func (h *Hub) handleUserSpeaking(c *Client, p types.UserSpeakingPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		return
	}
	if p.IsSpeaking {
		room.SpeechSet[c.ID] = struct{}{}
	}
}

// handleGetMeetingStats answers the room admin only; anyone else is ignored.
func (h *Hub) handleGetMeetingStats(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok || room.AdminID != c.ID {
		return
	}
	h.sendTo(c, types.EventMeetingStats, h.statsSnapshot(room))
}

func (h *Hub) handleGetParticipants(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok {
		return
	}
	h.sendTo(c, types.EventParticipantList, h.participantList(room))
}

func (h *Hub) handleMediaReady(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok || !room.HasParticipant(c.ID) {
		return
	}
	h.broadcastRoomExcept(room, c.ID, types.EventParticipantMediaReady,
		types.MediaReadyNotice{UserID: c.ID, UserName: c.Name})
	h.broadcastRoom(room, types.EventNewMessage,
		types.NewSystemMessage(c.Name+" is ready for video calls"))
}

// handleWhiteboardDraw appends the opaque stroke to the room's log and
// forwards it to everyone but the sender.
func (h *Hub) handleWhiteboardDraw(c *Client, p types.WhiteboardDrawPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		return
	}
	room.Whiteboard = append(room.Whiteboard, p.DrawData)
	h.broadcastRoomExcept(room, c.ID, types.EventWhiteboardDraw, p.DrawData)
}

// handleWhiteboardClear empties the log and tells everyone, sender included.
func (h *Hub) handleWhiteboardClear(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok {
		return
	}
	room.Whiteboard = room.Whiteboard[:0]
	h.broadcastRoom(room, types.EventWhiteboardClear, nil)
}

// handleGetWhiteboard replays the full stroke log, in append order, to the
// requester only.
func (h *Hub) handleGetWhiteboard(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok {
		return
	}
	h.sendTo(c, types.EventWhiteboardData, room.Whiteboard)
}

func (h *Hub) handleSendReaction(c *Client, p types.SendReactionPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok || !room.HasParticipant(c.ID) {
		return
	}
	h.broadcastRoom(room, types.EventUserReaction, types.Reaction{
		Reaction:  p.Emoji,
		UserName:  c.Name,
		UserID:    c.ID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *Hub) handleRaiseHand(c *Client, p types.RaiseHandPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok || !room.HasParticipant(c.ID) {
		return
	}
	c.HandRaised = p.IsRaised
	h.broadcastRoom(room, types.EventHandRaisedUpdated, types.HandRaisedNotice{
		UserID:   c.ID,
		UserName: c.Name,
		IsRaised: p.IsRaised,
	})
}

// handleCameraStatus updates the addressed participant's camera flag and
// tells everyone except the sender.
func (h *Hub) handleCameraStatus(c *Client, p types.CameraStatusPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		return
	}
	if target, ok := h.state.conns[p.UserID]; ok && room.HasParticipant(p.UserID) {
		target.CameraOn = p.CameraOn
	}
	h.broadcastRoomExcept(room, c.ID, types.EventCameraStatusChanged, types.CameraStatusNotice{
		UserID:   p.UserID,
		UserName: p.UserName,
		CameraOn: p.CameraOn,
	})
}

// Meeting time setters are admin-only; anyone else is silently ignored.

func (h *Hub) handleSetMeetingTime(c *Client, p types.SetMeetingTimePayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok || room.AdminID != c.ID {
		return
	}
	room.MeetingTime = p.MeetingTime
	h.broadcastRoom(room, types.EventMeetingTimeUpdated, p.MeetingTime)
}

func (h *Hub) handleSetMeetingEndTime(c *Client, p types.SetMeetingEndTimePayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok || room.AdminID != c.ID {
		return
	}
	room.MeetingEndTime = p.MeetingEndTime
	h.broadcastRoom(room, types.EventMeetingEndTimeUpdated, p.MeetingEndTime)
}
