package ws

import (
	"time"

	"github.com/meetlite/meetlite/passcode"
	"github.com/meetlite/meetlite/types"
)

// State is the explicit container for all coordinator registries. It is owned
// by the hub goroutine; nothing outside that goroutine may touch it. Lifetime
// is the process lifetime, a restart loses all rooms, sessions and pending
// codes.
type State struct {
	// conns maps live connection id -> connection record.
	conns map[string]*Client

	// rooms maps room id -> room state. A room exists iff it has an entry
	// here.
	rooms map[string]*types.Room

	// passcodes holds pending email passcodes, keyed by lowercase email.
	passcodes *passcode.Store

	// calendar is the single globally visible event list, kept sorted by
	// date+time.
	calendar []types.Event
}

func NewState(passcodeTTL time.Duration) *State {
	return &State{
		conns:     make(map[string]*Client),
		rooms:     make(map[string]*types.Room),
		passcodes: passcode.NewStore(passcodeTTL),
		calendar:  make([]types.Event, 0),
	}
}
