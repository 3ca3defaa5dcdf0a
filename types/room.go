package types

import "encoding/json"

// Room is a named meeting session. It exists exactly as long as it has an
// entry in the room registry. Participants holds connection ids in join
// order; the connection records themselves are owned by the connection
// registry, never by the room.
type Room struct {
	ID             string
	Participants   []string
	AdminID        string
	MeetingTime    string // empty = not scheduled
	MeetingEndTime string
	Passcode       string // empty = open room
	JoinedEmails   map[string]struct{}
	SpeechSet      map[string]struct{} // connection ids that spoke at least once
	ChatSet        map[string]struct{} // connection ids that chatted at least once
	Whiteboard     []json.RawMessage   // append-only stroke log
}

func NewRoom(id, passcode string) *Room {
	return &Room{
		ID:           id,
		Participants: make([]string, 0, 4),
		Passcode:     passcode,
		JoinedEmails: make(map[string]struct{}),
		SpeechSet:    make(map[string]struct{}),
		ChatSet:      make(map[string]struct{}),
		Whiteboard:   make([]json.RawMessage, 0),
	}
}

func (r *Room) HasParticipant(connID string) bool {
	for _, id := range r.Participants {
		if id == connID {
			return true
		}
	}
	return false
}

// RemoveParticipant drops a connection id from the ordered list without
// reordering the remaining entries.
func (r *Room) RemoveParticipant(connID string) {
	for i, id := range r.Participants {
		if id == connID {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return
		}
	}
}
