package ws

import (
	"strings"
	"time"

	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/types"
)

var endTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

const scheduledEndReason = "Scheduled end time reached"

// handleLeaveRoom is the explicit leave. An admin leaving terminates the
// whole room; anyone else is removed and announced.
func (h *Hub) handleLeaveRoom(c *Client, roomID string) {
	room, ok := h.state.rooms[roomID]
	if !ok || !room.HasParticipant(c.ID) {
		return
	}
	c.State = types.ConnLeaving
	if c.ID == room.AdminID {
		h.terminateAsAdminGone(room, c)
		return
	}
	h.removeParticipant(room, c)
}

// handleDisconnect is the implicit transport-level leave, driven from the
// connection registry rather than an explicit room argument.
func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.state.conns[c.ID]; !ok {
		// already purged by a terminal room transition
		return
	}
	c.State = types.ConnDisconnected
	room, ok := h.state.rooms[c.RoomID]
	if !ok || !room.HasParticipant(c.ID) {
		h.purgeConn(c)
		return
	}
	if c.ID == room.AdminID {
		h.terminateAsAdminGone(room, c)
		return
	}
	h.removeParticipant(room, c)
}

// handleAdminEndMeeting is the authority-gated termination. The requester
// must be attributed to the room and admin-flagged; otherwise only the
// requester hears about it and the room is untouched.
func (h *Hub) handleAdminEndMeeting(c *Client, p types.AdminEndMeetingPayload) {
	room, ok := h.state.rooms[p.RoomID]
	if !ok {
		return
	}
	if !room.HasParticipant(c.ID) || !c.IsAdmin {
		globals.AppLogger.Warn("unauthorized meeting end attempt", "id", c.ID, "room", p.RoomID, "error", types.ErrUnauthorized)
		h.sendTo(c, types.EventAdminActionError, types.ErrorMessage{Message: "Only admins can end meetings"})
		return
	}
	h.endMeeting(room, p.AdminName, p.Reason)
}

// endMeeting broadcasts the final stats and system message, pushes a
// structured meeting-ended event to every participant including the admin,
// then purges the room and every participant record.
func (h *Hub) endMeeting(room *types.Room, adminName, reason string) {
	stats := h.statsSnapshot(room)
	stats.EndReason = reason
	stats.EndTime = time.Now().Format(time.RFC3339)

	h.broadcastRoom(room, types.EventNewMessage,
		types.NewSystemMessage("Meeting ended by admin "+adminName+". Reason: "+reason))

	message := "The meeting has been ended by admin " + adminName + ". Reason: " + reason
	if strings.Contains(reason, "Scheduled end time") {
		message = "The meeting has reached its scheduled end time and has been automatically terminated."
	}
	notice := types.MeetingEndedNotice{
		Stats:     stats,
		AdminName: adminName,
		Reason:    reason,
		RoomID:    room.ID,
		Message:   message,
	}
	for _, id := range room.Participants {
		h.sendToID(id, types.EventMeetingEndedByAdmin, notice)
	}
	h.purgeRoom(room)
	globals.AppLogger.Info("meeting ended", "room", room.ID, "admin", adminName, "reason", reason)
}

// terminateAsAdminGone handles the admin leaving or dropping: the room
// terminates, everyone else gets the final stats individually, and all
// participant records go away.
func (h *Hub) terminateAsAdminGone(room *types.Room, admin *Client) {
	stats := h.statsSnapshot(room)
	notice := types.AdminLeftNotice{Stats: stats, RoomID: room.ID}
	for _, id := range room.Participants {
		if id == admin.ID {
			continue
		}
		h.sendToID(id, types.EventAdminLeftMeeting, notice)
	}
	h.purgeRoom(room)
	globals.AppLogger.Info("admin left, room terminated", "room", room.ID, "admin", admin.Name)
}

// removeParticipant takes a non-admin out of the room, announces it, and
// drops the room itself once the last participant is gone.
func (h *Hub) removeParticipant(room *types.Room, c *Client) {
	delete(room.JoinedEmails, strings.ToLower(c.Email))
	room.RemoveParticipant(c.ID)

	h.broadcastRoom(room, types.EventNewMessage, types.NewSystemMessage(c.Name+" left the meeting"))
	h.broadcastRoomExcept(room, c.ID, types.EventUserLeft, c.ID)
	h.broadcastRoom(room, types.EventParticipantList, h.participantList(room))
	if len(room.Participants) == 0 {
		delete(h.state.rooms, room.ID)
	}
	h.purgeConn(c)
	globals.AppLogger.Info("user left room", "room", room.ID, "user", c.Name)
}

// purgeRoom removes the room and every participant's connection record.
// Every termination path funnels through here, so no path can leave partial
// state behind.
func (h *Hub) purgeRoom(room *types.Room) {
	for _, id := range room.Participants {
		if c, ok := h.state.conns[id]; ok {
			c.State = types.ConnPurged
		}
		delete(h.state.conns, id)
	}
	delete(h.state.rooms, room.ID)
}

func (h *Hub) purgeConn(c *Client) {
	c.State = types.ConnPurged
	delete(h.state.conns, c.ID)
}

// statsSnapshot resolves the speech/chat sets against the connection
// registry. Connections that can no longer be resolved keep their raw id, so
// the counts stay truthful.
func (h *Hub) statsSnapshot(room *types.Room) types.MeetingStats {
	resolve := func(set map[string]struct{}) []string {
		names := make([]string, 0, len(set))
		for id := range set {
			if c, ok := h.state.conns[id]; ok {
				names = append(names, c.Name)
			} else {
				names = append(names, id)
			}
		}
		return names
	}
	return types.MeetingStats{
		TotalParticipants:  len(room.Participants),
		SpeechParticipants: len(room.SpeechSet),
		ChatParticipants:   len(room.ChatSet),
		SpeechUsers:        resolve(room.SpeechSet),
		ChatUsers:          resolve(room.ChatSet),
	}
}

// endOverdueMeetings terminates every room whose scheduled end time has
// passed, with the same semantics as an admin-initiated end.
func (h *Hub) endOverdueMeetings() {
	now := time.Now()
	overdue := make([]*types.Room, 0)
	for _, room := range h.state.rooms {
		if room.MeetingEndTime == "" {
			continue
		}
		end, ok := parseEndTime(room.MeetingEndTime)
		if ok && now.After(end) {
			overdue = append(overdue, room)
		}
	}
	for _, room := range overdue {
		adminName := room.AdminID
		if admin, ok := h.state.conns[room.AdminID]; ok {
			adminName = admin.Name
		}
		h.endMeeting(room, adminName, scheduledEndReason)
	}
}

func parseEndTime(raw string) (time.Time, bool) {
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
