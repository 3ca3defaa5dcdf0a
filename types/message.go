package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Inbound event names. Every message a client may send is one of these.
const (
	EventCreateEvent          = "create-event"
	EventDeleteEvent          = "delete-event"
	EventGetEvents            = "get-events"
	EventRequestEmailPasscode = "request-email-passcode"
	EventVerifyPasscode       = "verify-passcode"
	EventCreateRoom           = "create-room"
	EventJoinRoom             = "join-room"
	EventSetMeetingTime       = "set-meeting-time"
	EventSetMeetingEndTime    = "set-meeting-end-time"
	EventSendMessage          = "send-message"
	EventUserSpeaking         = "user-speaking"
	EventGetMeetingStats      = "get-meeting-stats"
	EventGetParticipants      = "get-participants"
	EventSignal               = "signal"
	EventMediaReady           = "media-ready"
	EventWhiteboardDraw       = "whiteboard-draw"
	EventWhiteboardClear      = "whiteboard-clear"
	EventGetWhiteboard        = "get-whiteboard"
	EventSendReaction         = "send-reaction"
	EventRaiseHand            = "raise-hand"
	EventCameraStatusChanged  = "camera-status-changed"
	EventAdminEndMeeting      = "admin-end-meeting"
	EventLeaveRoom            = "leave-room"
)

// Outbound event names.
const (
	EventEventsUpdated         = "events-updated"
	EventDeleteEventSuccess    = "delete-event-success"
	EventDeleteEventError      = "delete-event-error"
	EventPasscodeSent          = "passcode-sent"
	EventPasscodeError         = "passcode-error"
	EventPasscodeVerified      = "passcode-verified"
	EventEmailCheck            = "email-check"
	EventAdminStatus           = "admin-status"
	EventParticipantList       = "participant-list"
	EventAllUsers              = "all-users"
	EventUserJoined            = "user-joined"
	EventUserLeft              = "user-left"
	EventNewMessage            = "new-message"
	EventMeetingTimeUpdated    = "meeting-time-updated"
	EventMeetingEndTimeUpdated = "meeting-end-time-updated"
	EventMeetingStats          = "meeting-stats"
	EventParticipantMediaReady = "participant-media-ready"
	EventWhiteboardData        = "whiteboard-data"
	EventUserReaction          = "user-reaction"
	EventHandRaisedUpdated     = "hand-raised-updated"
	EventAdminActionError      = "admin-action-error"
	EventMeetingEndedByAdmin   = "meeting-ended-by-admin"
	EventAdminLeftMeeting      = "admin-left-meeting"
)

// JSON-serialized WebsocketMessage is what is actually sent via the Websocket connection
type WebsocketMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound payloads. Field names on the wire follow the frontend contract.

type CreateRoomPayload struct {
	RoomID       string `json:"roomId" mapstructure:"roomId"`
	UserName     string `json:"userName" mapstructure:"userName"`
	UserEmail    string `json:"userEmail" mapstructure:"userEmail"`
	IsAdmin      bool   `json:"isAdmin" mapstructure:"isAdmin"`
	RoomPasscode string `json:"roomPasscode" mapstructure:"roomPasscode"`
}

type JoinRoomPayload struct {
	RoomID       string `json:"roomId" mapstructure:"roomId"`
	UserName     string `json:"userName" mapstructure:"userName"`
	UserEmail    string `json:"userEmail" mapstructure:"userEmail"`
	RoomPasscode string `json:"roomPasscode" mapstructure:"roomPasscode"`
}

type RequestPasscodePayload struct {
	RoomID       string `json:"roomId" mapstructure:"roomId"`
	UserEmail    string `json:"userEmail" mapstructure:"userEmail"`
	RoomPasscode string `json:"roomPasscode" mapstructure:"roomPasscode"`
}

type VerifyPasscodePayload struct {
	RoomID    string `json:"roomId" mapstructure:"roomId"`
	UserEmail string `json:"userEmail" mapstructure:"userEmail"`
	Passcode  string `json:"passcode" mapstructure:"passcode"`
}

// RoomPayload covers the inbound events that carry nothing but a room id
// (get-meeting-stats, get-participants, media-ready, whiteboard-clear,
// get-whiteboard, leave-room).
type RoomPayload struct {
	RoomID string `json:"roomId" mapstructure:"roomId"`
}

type SetMeetingTimePayload struct {
	RoomID      string `json:"roomId" mapstructure:"roomId"`
	MeetingTime string `json:"meetingTime" mapstructure:"meetingTime"`
}

type SetMeetingEndTimePayload struct {
	RoomID         string `json:"roomId" mapstructure:"roomId"`
	MeetingEndTime string `json:"meetingEndTime" mapstructure:"meetingEndTime"`
}

type SendMessagePayload struct {
	RoomID  string      `json:"roomId" mapstructure:"roomId"`
	Message ChatMessage `json:"message" mapstructure:"message"`
}

type UserSpeakingPayload struct {
	RoomID     string `json:"roomId" mapstructure:"roomId"`
	IsSpeaking bool   `json:"isSpeaking" mapstructure:"isSpeaking"`
}

// SignalPayload is an opaque signaling envelope. The coordinator never looks
// inside Signal, it only forwards it to the connection addressed by To.
type SignalPayload struct {
	To     string          `json:"to"`
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

// SignalForward is what the addressee receives.
type SignalForward struct {
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

// WhiteboardDrawPayload carries one opaque stroke.
type WhiteboardDrawPayload struct {
	RoomID   string          `json:"roomId"`
	DrawData json.RawMessage `json:"drawData"`
}

type SendReactionPayload struct {
	RoomID string `json:"roomId" mapstructure:"roomId"`
	Emoji  string `json:"emoji" mapstructure:"emoji"`
}

type RaiseHandPayload struct {
	RoomID   string `json:"roomId" mapstructure:"roomId"`
	IsRaised bool   `json:"isRaised" mapstructure:"isRaised"`
}

type CameraStatusPayload struct {
	RoomID   string `json:"roomId" mapstructure:"roomId"`
	UserID   string `json:"userId" mapstructure:"userId"`
	UserName string `json:"userName" mapstructure:"userName"`
	CameraOn bool   `json:"cameraOn" mapstructure:"cameraOn"`
}

type AdminEndMeetingPayload struct {
	RoomID    string `json:"roomId" mapstructure:"roomId"`
	AdminName string `json:"adminName" mapstructure:"adminName"`
	Reason    string `json:"reason" mapstructure:"reason"`
}

type CreateEventPayload struct {
	RoomID     string `json:"roomId" mapstructure:"roomId"`
	Title      string `json:"title" mapstructure:"title"`
	Date       string `json:"date" mapstructure:"date"`
	Time       string `json:"time" mapstructure:"time"`
	AdminName  string `json:"adminName" mapstructure:"adminName"`
	AdminEmail string `json:"adminEmail" mapstructure:"adminEmail"`
}

type DeleteEventPayload struct {
	EventID    string `json:"eventId" mapstructure:"eventId"`
	AdminName  string `json:"adminName" mapstructure:"adminName"`
	AdminEmail string `json:"adminEmail" mapstructure:"adminEmail"`
}

// Outbound payloads.

type EmailCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type PasscodeSent struct {
	Email string `json:"email"`
}

type PasscodeVerified struct {
	Verified bool   `json:"verified"`
	RoomID   string `json:"roomId,omitempty"`
	Message  string `json:"message,omitempty"`
}

type MediaReadyNotice struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type Reaction struct {
	Reaction  string `json:"reaction"`
	UserName  string `json:"userName"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

type HandRaisedNotice struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsRaised bool   `json:"isRaised"`
}

type CameraStatusNotice struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	CameraOn bool   `json:"cameraOn"`
}

// MeetingStats is the aggregate snapshot computed for the admin on request and
// on every room-ending event.
type MeetingStats struct {
	TotalParticipants  int      `json:"totalParticipants"`
	SpeechParticipants int      `json:"speechParticipants"`
	ChatParticipants   int      `json:"chatParticipants"`
	SpeechUsers        []string `json:"speechUsers"`
	ChatUsers          []string `json:"chatUsers"`
	EndReason          string   `json:"endReason,omitempty"`
	EndTime            string   `json:"endTime,omitempty"`
}

type MeetingEndedNotice struct {
	Stats     MeetingStats `json:"stats"`
	AdminName string       `json:"adminName"`
	Reason    string       `json:"reason"`
	RoomID    string       `json:"roomId"`
	Message   string       `json:"message"`
}

type AdminLeftNotice struct {
	Stats  MeetingStats `json:"stats"`
	RoomID string       `json:"roomId"`
}

type DeleteEventSuccess struct {
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	Message    string `json:"message"`
}

// ChatMessage is relayed verbatim to the whole room. System lines (join,
// leave, media-ready, meeting end) use the same shape with Type "system".
type ChatMessage struct {
	ID        string `json:"id" mapstructure:"id"`
	User      string `json:"user" mapstructure:"user"`
	Text      string `json:"text" mapstructure:"text"`
	Timestamp string `json:"timestamp" mapstructure:"timestamp"`
	Type      string `json:"type" mapstructure:"type"`
}

// CreateId derives a stable message id from the message content and timestamp.
func (m *ChatMessage) CreateId() error {
	hash, err := hashstructure.Hash(m, hashstructure.FormatV2, nil)
	if err != nil {
		return err
	}
	m.ID = fmt.Sprintf("%016x", hash)
	return nil
}

// NewSystemMessage builds a system chat line the way the room broadcasts them.
func NewSystemMessage(text string) ChatMessage {
	m := ChatMessage{
		User:      "System",
		Text:      text,
		Timestamp: time.Now().Format("3:04:05 PM"),
		Type:      "system",
	}
	if err := m.CreateId(); err != nil {
		m.ID = fmt.Sprintf("system-%d", time.Now().UnixNano())
	}
	return m
}
