package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/types"
	"github.com/tidwall/buntdb"
)

type BuntDBPersist struct {
	db *buntdb.DB
}

func NewBuntPersister(cfg *config.Config) (Persister, error) {
	if cfg.PersistenceConfig.DSN == "" {
		return nil, fmt.Errorf("buntdb persistence requires a dsn (file path or :memory:)")
	}
	db, err := buntdb.Open(cfg.PersistenceConfig.DSN)
	if err != nil {
		return nil, err
	}
	err = db.CreateIndex("eventsts", "event:*", buntdb.IndexJSON("createdAt"))
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BuntDBPersist{db}, nil
}

func (p *BuntDBPersist) StoreEvent(event types.Event) error {
	e, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set("event:"+event.ID, string(e), nil)
		return err
	})
}

func (p *BuntDBPersist) DeleteEvent(id string) error {
	return p.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete("event:" + id)
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
}

func (p *BuntDBPersist) GetEvents() ([]types.Event, error) {
	events := make([]types.Event, 0)
	err := p.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("eventsts", func(key, val string) bool {
			event := types.Event{}
			if err := json.Unmarshal([]byte(val), &event); err == nil {
				events = append(events, event)
			}
			return true
		})
	})
	return events, err
}

func (p *BuntDBPersist) Close() error {
	return p.db.Close()
}
