package persistence

import (
	"fmt"
	"strings"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/types"
)

// Persister is the optional calendar-event store. Rooms, connections and
// pending passcodes are deliberately never persisted; only the globally
// visible meeting schedule survives a restart.
type Persister interface {
	StoreEvent(types.Event) error
	DeleteEvent(id string) error
	GetEvents() ([]types.Event, error)
	Close() error
}

// NewPersister picks the persister for the given configuration. A missing or
// empty persistence block returns a nil Persister, which keeps the calendar
// in memory only.
func NewPersister(cfg *config.Config) (Persister, error) {
	switch strings.ToLower(cfg.PersistenceConfig.Type) {
	case "":
		return nil, nil
	case "buntdb":
		return NewBuntPersister(cfg)
	}
	return nil, fmt.Errorf("unknown persistence type %q", cfg.PersistenceConfig.Type)
}
