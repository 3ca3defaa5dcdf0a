package ws

import (
	"context"
	"strings"
	"time"

	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/types"
)

const mailDeliveryTimeout = 30 * time.Second

// admissionCheck runs the shared create/join/passcode-request validation:
// the room must exist, a non-empty room passcode must match, and the lowercase
// email must not already be joined.
func (h *Hub) admissionCheck(roomID, email, suppliedPasscode string) (*types.Room, error) {
	room, ok := h.state.rooms[roomID]
	if !ok {
		return nil, types.ErrRoomNotFound
	}
	if room.Passcode != "" && room.Passcode != suppliedPasscode {
		return nil, types.ErrPasscodeMismatch
	}
	if _, joined := room.JoinedEmails[email]; joined {
		return nil, types.ErrEmailInUse
	}
	return room, nil
}

// handleCreateRoom instantiates the room if absent and admits the creator as
// admin. Re-creation of an existing room id reassigns admin to the current
// connection without re-validating the passcode (last-create-wins, the
// documented admin-reclaim behavior).
func (h *Hub) handleCreateRoom(c *Client, p types.CreateRoomPayload) {
	email := strings.ToLower(p.UserEmail)
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		room = types.NewRoom(p.RoomID, p.RoomPasscode)
		h.state.rooms[p.RoomID] = room
	}
	// exactly one admin-flagged connection per room: demote the previous
	// admin before promoting the creator
	if prev, ok := h.state.conns[room.AdminID]; ok && prev != c {
		prev.IsAdmin = false
	}
	if p.UserName != "" {
		c.Name = p.UserName
	}
	c.Email = email
	c.RoomID = room.ID
	c.IsAdmin = true
	c.State = types.ConnActive
	room.AdminID = c.ID
	room.Participants = append(room.Participants, c.ID)
	room.JoinedEmails[email] = struct{}{}

	h.sendTo(c, types.EventAdminStatus, true)
	h.broadcastRoom(room, types.EventParticipantList, h.participantList(room))
	h.sendTo(c, types.EventAllUsers, h.otherParticipantIDs(room, c.ID))
	h.broadcastRoomExcept(room, c.ID, types.EventUserJoined, c.ID)
	globals.AppLogger.Info("room created", "room", room.ID, "admin", c.Name)
}

func (h *Hub) handleJoinRoom(c *Client, p types.JoinRoomPayload) {
	email := strings.ToLower(p.UserEmail)
	room, err := h.admissionCheck(p.RoomID, email, p.RoomPasscode)
	if err != nil {
		h.sendTo(c, types.EventEmailCheck, types.EmailCheck{Valid: false, Message: admissionMessage(err)})
		return
	}
	if p.UserName != "" {
		c.Name = p.UserName
	}
	c.Email = email
	c.RoomID = room.ID
	c.IsAdmin = false
	c.State = types.ConnActive
	room.Participants = append(room.Participants, c.ID)
	room.JoinedEmails[email] = struct{}{}

	h.sendTo(c, types.EventEmailCheck, types.EmailCheck{Valid: true, Message: "Joined successfully!"})
	h.sendTo(c, types.EventAdminStatus, false)
	h.broadcastRoom(room, types.EventParticipantList, h.participantList(room))
	h.sendTo(c, types.EventAllUsers, h.otherParticipantIDs(room, c.ID))
	h.broadcastRoomExcept(room, c.ID, types.EventUserJoined, c.ID)
	h.broadcastRoom(room, types.EventNewMessage, types.NewSystemMessage(c.Name+" joined the meeting"))
	// replay the current schedule to the joining connection only
	if room.MeetingTime != "" {
		h.sendTo(c, types.EventMeetingTimeUpdated, room.MeetingTime)
	}
	if room.MeetingEndTime != "" {
		h.sendTo(c, types.EventMeetingEndTimeUpdated, room.MeetingEndTime)
	}
	globals.AppLogger.Info("user joined room", "room", room.ID, "user", c.Name)
}

// handleRequestPasscode issues a one-time email passcode after the same
// checks as join. The entry is stored before the mail goroutine starts; only
// the choice between passcode-sent and passcode-error waits for the delivery
// outcome.
func (h *Hub) handleRequestPasscode(c *Client, p types.RequestPasscodePayload) {
	email := strings.ToLower(p.UserEmail)
	if _, err := h.admissionCheck(p.RoomID, email, p.RoomPasscode); err != nil {
		h.sendTo(c, types.EventPasscodeError, types.ErrorMessage{Message: admissionMessage(err)})
		return
	}
	code, err := h.state.passcodes.Issue(email, p.RoomID)
	if err != nil {
		h.sendTo(c, types.EventPasscodeError, types.ErrorMessage{Message: types.ErrPasscodeDeliveryFailed.Error()})
		return
	}
	roomID := p.RoomID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDeliveryTimeout)
		defer cancel()
		if err := h.mailer.Deliver(ctx, email, code, roomID); err != nil {
			globals.AppLogger.Error("passcode delivery failed", "address", email, "error", err)
			h.sendTo(c, types.EventPasscodeError, types.ErrorMessage{Message: types.ErrPasscodeDeliveryFailed.Error()})
			return
		}
		h.sendTo(c, types.EventPasscodeSent, types.PasscodeSent{Email: email})
	}()
}

func (h *Hub) handleVerifyPasscode(c *Client, p types.VerifyPasscodePayload) {
	email := strings.ToLower(p.UserEmail)
	switch err := h.state.passcodes.Verify(email, p.RoomID, p.Passcode); err {
	case nil:
		h.sendTo(c, types.EventPasscodeVerified, types.PasscodeVerified{Verified: true, RoomID: p.RoomID})
	case types.ErrPasscodeExpired:
		h.sendTo(c, types.EventPasscodeVerified, types.PasscodeVerified{Verified: false, Message: "Passcode expired."})
	case types.ErrPasscodeNotFound:
		h.sendTo(c, types.EventPasscodeVerified, types.PasscodeVerified{Verified: false})
	default:
		h.sendTo(c, types.EventPasscodeVerified, types.PasscodeVerified{Verified: false, Message: "Invalid passcode."})
	}
}

func (h *Hub) otherParticipantIDs(room *types.Room, exceptID string) []string {
	ids := make([]string, 0, len(room.Participants))
	for _, id := range room.Participants {
		if id != exceptID {
			ids = append(ids, id)
		}
	}
	return ids
}

// admissionMessage maps the taxonomy onto the wire messages the frontend
// displays.
func admissionMessage(err error) string {
	switch err {
	case types.ErrRoomNotFound:
		return "Room does not exist!"
	case types.ErrPasscodeMismatch:
		return "Invalid room passcode!"
	case types.ErrEmailInUse:
		return "This email is already in use."
	}
	return err.Error()
}
