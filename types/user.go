package types

// ConnState tracks where a connection is in its lifecycle. Transitions only
// happen on the coordinator goroutine.
type ConnState int

const (
	ConnJoining ConnState = iota // connected, not yet admitted to a room
	ConnActive                   // admitted, attributed to a room
	ConnLeaving                  // termination in progress
	ConnDisconnected             // transport gone, cleanup pending
	ConnPurged                   // removed from the registry
)

func (s ConnState) String() string {
	switch s {
	case ConnJoining:
		return "joining"
	case ConnActive:
		return "active"
	case ConnLeaving:
		return "leaving"
	case ConnDisconnected:
		return "disconnected"
	case ConnPurged:
		return "purged"
	}
	return "unknown"
}

// Participant is the room-facing view of a connection, as sent in
// participant-list broadcasts.
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"isAdmin"`
	CameraOn   bool   `json:"cameraOn"`
	HandRaised bool   `json:"handRaised"`
}
