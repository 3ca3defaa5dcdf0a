package ws

import (
	"sort"
	"time"

	"github.com/meetlite/meetlite/globals"
	"github.com/meetlite/meetlite/types"
)

// The calendar is the single globally visible list of scheduled meetings.
// Every mutation re-sorts by date+time and is announced to every connected
// client, roomed or not.

func (h *Hub) handleCreateEvent(c *Client, p types.CreateEventPayload) {
	event := types.Event{
		ID:         p.RoomID,
		RoomID:     p.RoomID,
		Title:      p.Title,
		Date:       p.Date,
		Time:       p.Time,
		AdminName:  p.AdminName,
		AdminEmail: p.AdminEmail,
		AdminID:    c.ID,
		CreatedAt:  time.Now(),
	}
	h.state.calendar = append(h.state.calendar, event)
	h.sortCalendar()
	if h.Persister != nil {
		if err := h.Persister.StoreEvent(event); err != nil {
			globals.AppLogger.Error("could not persist calendar event", "id", event.ID, "error", err)
		}
	}
	h.broadcastAll(types.EventEventsUpdated, h.state.calendar)
}

// handleDeleteEvent removes an event only when the requester supplies the
// creator's name and email; otherwise only the requester is told.
func (h *Hub) handleDeleteEvent(c *Client, p types.DeleteEventPayload) {
	idx := -1
	for i, event := range h.state.calendar {
		if event.RoomID == p.EventID && event.AdminName == p.AdminName && event.AdminEmail == p.AdminEmail {
			idx = i
			break
		}
	}
	if idx < 0 {
		globals.AppLogger.Warn("event not found or unauthorized delete attempt", "id", p.EventID)
		h.sendTo(c, types.EventDeleteEventError, types.ErrorMessage{
			Message: "Event not found or you are not authorized to delete this event.",
		})
		return
	}
	deleted := h.state.calendar[idx]
	h.state.calendar = append(h.state.calendar[:idx], h.state.calendar[idx+1:]...)
	if h.Persister != nil {
		if err := h.Persister.DeleteEvent(deleted.ID); err != nil {
			globals.AppLogger.Error("could not delete persisted calendar event", "id", deleted.ID, "error", err)
		}
	}
	h.broadcastAll(types.EventEventsUpdated, h.state.calendar)
	h.sendTo(c, types.EventDeleteEventSuccess, types.DeleteEventSuccess{
		EventID:    p.EventID,
		EventTitle: deleted.Title,
		Message:    "Event \"" + deleted.Title + "\" has been deleted successfully.",
	})
}

func (h *Hub) handleGetEvents(c *Client) {
	h.sendTo(c, types.EventEventsUpdated, h.state.calendar)
}

func (h *Hub) sortCalendar() {
	sort.SliceStable(h.state.calendar, func(i, j int) bool {
		return h.state.calendar[i].StartsAt().Before(h.state.calendar[j].StartsAt())
	})
}
