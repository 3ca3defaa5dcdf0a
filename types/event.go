package types

import "time"

// Event is one calendar entry in the globally visible meeting schedule.
// Its id is the room id of the meeting it announces.
type Event struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	Title      string    `json:"title"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	AdminName  string    `json:"adminName"`
	AdminEmail string    `json:"adminEmail"`
	AdminID    string    `json:"adminId"`
	CreatedAt  time.Time `json:"createdAt"`
}

var eventTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02",
}

// StartsAt parses the date+time fields for schedule ordering. Unparsable
// entries sort to the zero time, i.e. first.
func (e Event) StartsAt() time.Time {
	raw := e.Date
	if e.Time != "" {
		raw = e.Date + " " + e.Time
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
