package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meetlite/meetlite/config"
	"github.com/meetlite/meetlite/mail"
	"github.com/meetlite/meetlite/types"
)

func newTestHub() *Hub {
	cfg := &config.Config{PasscodeTTL: 10 * time.Minute}
	return NewHub(cfg, &mail.LogMailer{}, nil)
}

// connect registers a bare client the way the transport layer would, without
// a real websocket connection.
func connect(h *Hub, id, name string) *Client {
	c := NewClient(h, nil, id, name)
	h.state.conns[c.ID] = c
	return c
}

// drain empties a client's send channel and decodes the envelopes.
func drain(c *Client) []types.WebsocketMessage {
	msgs := make([]types.WebsocketMessage, 0)
	for {
		select {
		case raw := <-c.Send:
			m := types.WebsocketMessage{}
			if err := json.Unmarshal(raw, &m); err == nil {
				msgs = append(msgs, m)
			}
		default:
			return msgs
		}
	}
}

func findEvent(msgs []types.WebsocketMessage, name string) (types.WebsocketMessage, bool) {
	for _, m := range msgs {
		if m.Event == name {
			return m, true
		}
	}
	return types.WebsocketMessage{}, false
}

func countEvent(msgs []types.WebsocketMessage, name string) int {
	n := 0
	for _, m := range msgs {
		if m.Event == name {
			n++
		}
	}
	return n
}

// waitEvent polls for an event emitted from another goroutine (mail
// delivery responses).
func waitEvent(t *testing.T, c *Client, name string) types.WebsocketMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw := <-c.Send:
			m := types.WebsocketMessage{}
			if err := json.Unmarshal(raw, &m); err == nil && m.Event == name {
				return m
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event %s", name)
		}
	}
}

func TestCreateRoom(t *testing.T) {
	h := newTestHub()
	c := connect(h, "u1", "Alice")
	h.handleCreateRoom(c, types.CreateRoomPayload{
		RoomID: "R1", UserName: "Alice", UserEmail: "Alice@Example.com", IsAdmin: true, RoomPasscode: "1234",
	})

	room, ok := h.state.rooms["R1"]
	assert.True(t, ok)
	assert.Equal(t, "u1", room.AdminID)
	assert.Equal(t, []string{"u1"}, room.Participants)
	assert.True(t, c.IsAdmin)
	assert.Equal(t, types.ConnActive, c.State)
	assert.Equal(t, "alice@example.com", c.Email)
	_, joined := room.JoinedEmails["alice@example.com"]
	assert.True(t, joined)

	msgs := drain(c)
	status, ok := findEvent(msgs, types.EventAdminStatus)
	assert.True(t, ok)
	assert.Equal(t, "true", string(status.Data))
	list, ok := findEvent(msgs, types.EventParticipantList)
	assert.True(t, ok)
	participants := []types.Participant{}
	assert.NoError(t, json.Unmarshal(list.Data, &participants))
	assert.Len(t, participants, 1)
	others, ok := findEvent(msgs, types.EventAllUsers)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(others.Data))
}

func TestJoinRoomAdmissionChecks(t *testing.T) {
	h := newTestHub()
	admin := connect(h, "u1", "Alice")
	h.handleCreateRoom(admin, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com", RoomPasscode: "1234"})
	drain(admin)

	joiner := connect(h, "u2", "Bob")

	// unknown room
	h.handleJoinRoom(joiner, types.JoinRoomPayload{RoomID: "nope", UserName: "Bob", UserEmail: "bob@example.com"})
	msgs := drain(joiner)
	check, ok := findEvent(msgs, types.EventEmailCheck)
	assert.True(t, ok)
	ec := types.EmailCheck{}
	assert.NoError(t, json.Unmarshal(check.Data, &ec))
	assert.False(t, ec.Valid)
	assert.Equal(t, "Room does not exist!", ec.Message)

	// wrong passcode
	h.handleJoinRoom(joiner, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com", RoomPasscode: "0000"})
	msgs = drain(joiner)
	check, _ = findEvent(msgs, types.EventEmailCheck)
	assert.NoError(t, json.Unmarshal(check.Data, &ec))
	assert.False(t, ec.Valid)
	assert.Equal(t, "Invalid room passcode!", ec.Message)
	assert.False(t, h.state.rooms["R1"].HasParticipant("u2"))

	// email already joined, regardless of passcode
	h.handleJoinRoom(joiner, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "ALICE@example.com", RoomPasscode: "1234"})
	msgs = drain(joiner)
	check, _ = findEvent(msgs, types.EventEmailCheck)
	assert.NoError(t, json.Unmarshal(check.Data, &ec))
	assert.False(t, ec.Valid)
	assert.Equal(t, "This email is already in use.", ec.Message)

	// success
	h.handleJoinRoom(joiner, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com", RoomPasscode: "1234"})
	msgs = drain(joiner)
	check, _ = findEvent(msgs, types.EventEmailCheck)
	assert.NoError(t, json.Unmarshal(check.Data, &ec))
	assert.True(t, ec.Valid)
	assert.False(t, joiner.IsAdmin)
	assert.Equal(t, []string{"u1", "u2"}, h.state.rooms["R1"].Participants)

	adminMsgs := drain(admin)
	joinedID, ok := findEvent(adminMsgs, types.EventUserJoined)
	assert.True(t, ok)
	assert.Equal(t, `"u2"`, string(joinedID.Data))
	_, ok = findEvent(adminMsgs, types.EventNewMessage)
	assert.True(t, ok)
}

func TestJoinReplaysSchedule(t *testing.T) {
	h := newTestHub()
	admin := connect(h, "u1", "Alice")
	h.handleCreateRoom(admin, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com"})
	h.handleSetMeetingTime(admin, types.SetMeetingTimePayload{RoomID: "R1", MeetingTime: "2026-09-01T10:00"})
	h.handleSetMeetingEndTime(admin, types.SetMeetingEndTimePayload{RoomID: "R1", MeetingEndTime: "2026-09-01T11:00"})
	drain(admin)

	joiner := connect(h, "u2", "Bob")
	h.handleJoinRoom(joiner, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com"})
	msgs := drain(joiner)
	mt, ok := findEvent(msgs, types.EventMeetingTimeUpdated)
	assert.True(t, ok)
	assert.Equal(t, `"2026-09-01T10:00"`, string(mt.Data))
	_, ok = findEvent(msgs, types.EventMeetingEndTimeUpdated)
	assert.True(t, ok)
}

func TestAdminReclaimLastCreateWins(t *testing.T) {
	h := newTestHub()
	first := connect(h, "u1", "Alice")
	h.handleCreateRoom(first, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com", RoomPasscode: "1234"})
	second := connect(h, "u2", "Bob")
	// no passcode supplied: re-create does not re-validate, by design
	h.handleCreateRoom(second, types.CreateRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com"})

	room := h.state.rooms["R1"]
	assert.Equal(t, "u2", room.AdminID)
	assert.False(t, first.IsAdmin)
	assert.True(t, second.IsAdmin)
	// the original passcode survives the reclaim
	assert.Equal(t, "1234", room.Passcode)

	adminFlagged := 0
	for _, id := range room.Participants {
		if h.state.conns[id].IsAdmin {
			adminFlagged++
		}
	}
	assert.Equal(t, 1, adminFlagged)
}

func setupMeeting(h *Hub) (admin, guest1, guest2 *Client) {
	admin = connect(h, "a1", "Alice")
	h.handleCreateRoom(admin, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com"})
	guest1 = connect(h, "g1", "Bob")
	h.handleJoinRoom(guest1, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com"})
	guest2 = connect(h, "g2", "Carol")
	h.handleJoinRoom(guest2, types.JoinRoomPayload{RoomID: "R1", UserName: "Carol", UserEmail: "carol@example.com"})
	drain(admin)
	drain(guest1)
	drain(guest2)
	return admin, guest1, guest2
}

func assertFullyPurged(t *testing.T, h *Hub, ids ...string) {
	t.Helper()
	assert.Empty(t, h.state.rooms)
	for _, id := range ids {
		_, ok := h.state.conns[id]
		assert.False(t, ok, "connection %s not purged", id)
	}
}

func TestAdminEndMeetingCleansEverything(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleAdminEndMeeting(admin, types.AdminEndMeetingPayload{RoomID: "R1", AdminName: "Alice", Reason: "done"})

	assertFullyPurged(t, h, admin.ID, guest1.ID, guest2.ID)
	for _, c := range []*Client{admin, guest1, guest2} {
		msgs := drain(c)
		ended, ok := findEvent(msgs, types.EventMeetingEndedByAdmin)
		assert.True(t, ok, "%s missed the meeting-ended notice", c.Name)
		notice := types.MeetingEndedNotice{}
		assert.NoError(t, json.Unmarshal(ended.Data, &notice))
		assert.Equal(t, "R1", notice.RoomID)
		assert.Equal(t, "done", notice.Reason)
		assert.Equal(t, "done", notice.Stats.EndReason)
		_, ok = findEvent(msgs, types.EventNewMessage)
		assert.True(t, ok)
		assert.Equal(t, types.ConnPurged, c.State)
	}
}

func TestAdminEndMeetingUnauthorized(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	h.handleAdminEndMeeting(guest1, types.AdminEndMeetingPayload{RoomID: "R1", AdminName: "Bob", Reason: "hijack"})

	_, roomAlive := h.state.rooms["R1"]
	assert.True(t, roomAlive)
	msgs := drain(guest1)
	errMsg, ok := findEvent(msgs, types.EventAdminActionError)
	assert.True(t, ok)
	em := types.ErrorMessage{}
	assert.NoError(t, json.Unmarshal(errMsg.Data, &em))
	assert.Equal(t, "Only admins can end meetings", em.Message)
	// nobody else heard anything
	assert.Empty(t, drain(admin))
}

func TestAdminLeaveTerminatesRoom(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleLeaveRoom(admin, "R1")

	assertFullyPurged(t, h, admin.ID, guest1.ID, guest2.ID)
	for _, c := range []*Client{guest1, guest2} {
		msgs := drain(c)
		left, ok := findEvent(msgs, types.EventAdminLeftMeeting)
		assert.True(t, ok)
		notice := types.AdminLeftNotice{}
		assert.NoError(t, json.Unmarshal(left.Data, &notice))
		assert.Equal(t, "R1", notice.RoomID)
		assert.Equal(t, 3, notice.Stats.TotalParticipants)
	}
	// the admin gets no admin-left notice
	_, ok := findEvent(drain(admin), types.EventAdminLeftMeeting)
	assert.False(t, ok)
}

func TestAdminDisconnectTerminatesRoom(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleDisconnect(admin)

	assertFullyPurged(t, h, admin.ID, guest1.ID, guest2.ID)
	_, ok := findEvent(drain(guest1), types.EventAdminLeftMeeting)
	assert.True(t, ok)
	_, ok = findEvent(drain(guest2), types.EventAdminLeftMeeting)
	assert.True(t, ok)
}

func TestNonAdminLeave(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleLeaveRoom(guest1, "R1")

	room := h.state.rooms["R1"]
	assert.Equal(t, []string{"a1", "g2"}, room.Participants)
	_, joined := room.JoinedEmails["bob@example.com"]
	assert.False(t, joined)
	_, ok := h.state.conns[guest1.ID]
	assert.False(t, ok)
	assert.Equal(t, types.ConnPurged, guest1.State)

	msgs := drain(admin)
	sys, ok := findEvent(msgs, types.EventNewMessage)
	assert.True(t, ok)
	cm := types.ChatMessage{}
	assert.NoError(t, json.Unmarshal(sys.Data, &cm))
	assert.Equal(t, "Bob left the meeting", cm.Text)
	assert.Equal(t, "system", cm.Type)
	leftID, ok := findEvent(msgs, types.EventUserLeft)
	assert.True(t, ok)
	assert.Equal(t, `"g1"`, string(leftID.Data))

	// remaining members observe the shrunken list, the leaver hears nothing
	list, _ := findEvent(msgs, types.EventParticipantList)
	participants := []types.Participant{}
	assert.NoError(t, json.Unmarshal(list.Data, &participants))
	assert.Len(t, participants, 2)
	assert.Empty(t, drain(guest1))
	_, ok = findEvent(drain(guest2), types.EventParticipantList)
	assert.True(t, ok)
}

func TestLastParticipantLeavePurgesRoom(t *testing.T) {
	h := newTestHub()
	admin := connect(h, "a1", "Alice")
	h.handleCreateRoom(admin, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com"})
	guest := connect(h, "g1", "Bob")
	h.handleJoinRoom(guest, types.JoinRoomPayload{RoomID: "R1", UserName: "Bob", UserEmail: "bob@example.com"})

	// the guest leaves first, then the admin is the sole remaining member
	h.handleLeaveRoom(guest, "R1")
	room, ok := h.state.rooms["R1"]
	assert.True(t, ok)
	assert.Equal(t, []string{"a1"}, room.Participants)

	h.handleDisconnect(admin)
	assertFullyPurged(t, h, "a1", "g1")
}

func TestDisconnectAfterPurgeIsNoop(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	h.handleAdminEndMeeting(admin, types.AdminEndMeetingPayload{RoomID: "R1", AdminName: "Alice", Reason: "done"})
	// the transport notices the closed sockets afterwards
	h.handleDisconnect(guest1)
	h.handleDisconnect(admin)

	assert.Empty(t, h.state.rooms)
	assert.Empty(t, h.state.conns)
}

func TestMeetingStats(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleSendMessage(admin, types.SendMessagePayload{RoomID: "R1", Message: types.ChatMessage{User: "Alice", Text: "hi"}})
	h.handleSendMessage(guest1, types.SendMessagePayload{RoomID: "R1", Message: types.ChatMessage{User: "Bob", Text: "hello"}})
	h.handleUserSpeaking(guest2, types.UserSpeakingPayload{RoomID: "R1", IsSpeaking: true})
	h.handleUserSpeaking(guest2, types.UserSpeakingPayload{RoomID: "R1", IsSpeaking: false})
	drain(admin)

	// non-admin requests are ignored
	h.handleGetMeetingStats(guest1, "R1")
	_, ok := findEvent(drain(guest1), types.EventMeetingStats)
	assert.False(t, ok)

	h.handleGetMeetingStats(admin, "R1")
	statsMsg, ok := findEvent(drain(admin), types.EventMeetingStats)
	assert.True(t, ok)
	stats := types.MeetingStats{}
	assert.NoError(t, json.Unmarshal(statsMsg.Data, &stats))
	assert.Equal(t, 3, stats.TotalParticipants)
	assert.Equal(t, 2, stats.ChatParticipants)
	assert.Equal(t, 1, stats.SpeechParticipants)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, stats.ChatUsers)
	assert.Equal(t, []string{"Carol"}, stats.SpeechUsers)
}

func TestChatRebroadcastVerbatim(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	msg := types.ChatMessage{ID: "m1", User: "Bob", Text: "hello", Timestamp: "1:02:03 PM", Type: "user"}
	h.handleSendMessage(guest1, types.SendMessagePayload{RoomID: "R1", Message: msg})

	for _, c := range []*Client{admin, guest1} {
		got, ok := findEvent(drain(c), types.EventNewMessage)
		assert.True(t, ok)
		cm := types.ChatMessage{}
		assert.NoError(t, json.Unmarshal(got.Data, &cm))
		assert.Equal(t, msg, cm)
	}
}

func TestSignalRelay(t *testing.T) {
	h := newTestHub()
	_, guest1, guest2 := setupMeeting(h)

	payload := json.RawMessage(`{"sdp":"offer","type":"offer"}`)
	h.handleSignal(guest1, types.SignalPayload{To: guest2.ID, From: guest1.ID, Signal: payload})

	fwd, ok := findEvent(drain(guest2), types.EventSignal)
	assert.True(t, ok)
	sf := types.SignalForward{}
	assert.NoError(t, json.Unmarshal(fwd.Data, &sf))
	assert.Equal(t, guest1.ID, sf.From)
	assert.JSONEq(t, string(payload), string(sf.Signal))

	// unknown addressee is silently dropped
	h.handleSignal(guest1, types.SignalPayload{To: "gone", From: guest1.ID, Signal: payload})
	assert.Empty(t, drain(guest1))
}

func TestWhiteboardReplayOrder(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	strokeA := json.RawMessage(`{"stroke":"A"}`)
	strokeB := json.RawMessage(`{"stroke":"B"}`)
	h.handleWhiteboardDraw(guest1, types.WhiteboardDrawPayload{RoomID: "R1", DrawData: strokeA})
	h.handleWhiteboardDraw(admin, types.WhiteboardDrawPayload{RoomID: "R1", DrawData: strokeB})

	// draw goes to everyone but the sender
	msgs := drain(guest1)
	assert.Equal(t, 1, countEvent(msgs, types.EventWhiteboardDraw))

	h.handleGetWhiteboard(guest2, "R1")
	data, ok := findEvent(drain(guest2), types.EventWhiteboardData)
	assert.True(t, ok)
	strokes := []json.RawMessage{}
	assert.NoError(t, json.Unmarshal(data.Data, &strokes))
	assert.Len(t, strokes, 2)
	assert.JSONEq(t, `{"stroke":"A"}`, string(strokes[0]))
	assert.JSONEq(t, `{"stroke":"B"}`, string(strokes[1]))

	h.handleWhiteboardClear(admin, "R1")
	_, ok = findEvent(drain(admin), types.EventWhiteboardClear)
	assert.True(t, ok)
	h.handleGetWhiteboard(guest2, "R1")
	data, _ = findEvent(drain(guest2), types.EventWhiteboardData)
	assert.Equal(t, "[]", string(data.Data))
}

func TestRaiseHandAndCamera(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	h.handleRaiseHand(guest1, types.RaiseHandPayload{RoomID: "R1", IsRaised: true})
	assert.True(t, guest1.HandRaised)
	notice, ok := findEvent(drain(admin), types.EventHandRaisedUpdated)
	assert.True(t, ok)
	hr := types.HandRaisedNotice{}
	assert.NoError(t, json.Unmarshal(notice.Data, &hr))
	assert.Equal(t, guest1.ID, hr.UserID)
	assert.True(t, hr.IsRaised)

	h.handleCameraStatus(guest1, types.CameraStatusPayload{RoomID: "R1", UserID: guest1.ID, UserName: "Bob", CameraOn: true})
	assert.True(t, guest1.CameraOn)
	// camera changes skip the sender
	_, ok = findEvent(drain(guest1), types.EventCameraStatusChanged)
	assert.False(t, ok)
	_, ok = findEvent(drain(admin), types.EventCameraStatusChanged)
	assert.True(t, ok)
}

func TestReactionBroadcast(t *testing.T) {
	h := newTestHub()
	admin, guest1, guest2 := setupMeeting(h)

	h.handleSendReaction(guest1, types.SendReactionPayload{RoomID: "R1", Emoji: "👍"})
	for _, c := range []*Client{admin, guest1, guest2} {
		msg, ok := findEvent(drain(c), types.EventUserReaction)
		assert.True(t, ok)
		r := types.Reaction{}
		assert.NoError(t, json.Unmarshal(msg.Data, &r))
		assert.Equal(t, "👍", r.Reaction)
		assert.Equal(t, "Bob", r.UserName)
		assert.Equal(t, guest1.ID, r.UserID)
	}
}

func TestMediaReady(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	h.handleMediaReady(guest1, "R1")
	msgs := drain(admin)
	ready, ok := findEvent(msgs, types.EventParticipantMediaReady)
	assert.True(t, ok)
	mr := types.MediaReadyNotice{}
	assert.NoError(t, json.Unmarshal(ready.Data, &mr))
	assert.Equal(t, "Bob", mr.UserName)
	_, ok = findEvent(msgs, types.EventNewMessage)
	assert.True(t, ok)
	// the sender still gets the system line but not the readiness notice
	selfMsgs := drain(guest1)
	_, ok = findEvent(selfMsgs, types.EventParticipantMediaReady)
	assert.False(t, ok)
	_, ok = findEvent(selfMsgs, types.EventNewMessage)
	assert.True(t, ok)
}

func TestMeetingTimeSettersAdminOnly(t *testing.T) {
	h := newTestHub()
	admin, guest1, _ := setupMeeting(h)

	h.handleSetMeetingTime(guest1, types.SetMeetingTimePayload{RoomID: "R1", MeetingTime: "2026-09-01T10:00"})
	assert.Empty(t, h.state.rooms["R1"].MeetingTime)
	assert.Empty(t, drain(admin))

	h.handleSetMeetingTime(admin, types.SetMeetingTimePayload{RoomID: "R1", MeetingTime: "2026-09-01T10:00"})
	assert.Equal(t, "2026-09-01T10:00", h.state.rooms["R1"].MeetingTime)
	_, ok := findEvent(drain(guest1), types.EventMeetingTimeUpdated)
	assert.True(t, ok)
}

func TestRequestPasscodeFlow(t *testing.T) {
	h := newTestHub()
	admin := connect(h, "a1", "Alice")
	h.handleCreateRoom(admin, types.CreateRoomPayload{RoomID: "R1", UserName: "Alice", UserEmail: "alice@example.com", RoomPasscode: "1234"})
	drain(admin)

	requester := connect(h, "r1", "Eve")
	// wrong room passcode is rejected before any code is issued
	h.handleRequestPasscode(requester, types.RequestPasscodePayload{RoomID: "R1", UserEmail: "eve@example.com", RoomPasscode: "0000"})
	errMsg, ok := findEvent(drain(requester), types.EventPasscodeError)
	assert.True(t, ok)
	em := types.ErrorMessage{}
	assert.NoError(t, json.Unmarshal(errMsg.Data, &em))
	assert.Equal(t, "Invalid room passcode!", em.Message)
	assert.Equal(t, 0, h.state.passcodes.Pending())

	h.handleRequestPasscode(requester, types.RequestPasscodePayload{RoomID: "R1", UserEmail: "Eve@Example.com", RoomPasscode: "1234"})
	assert.Equal(t, 1, h.state.passcodes.Pending())
	sent := waitEvent(t, requester, types.EventPasscodeSent)
	ps := types.PasscodeSent{}
	assert.NoError(t, json.Unmarshal(sent.Data, &ps))
	assert.Equal(t, "eve@example.com", ps.Email)

	// no entry for this email and room yet: verification fails closed
	h.handleVerifyPasscode(requester, types.VerifyPasscodePayload{RoomID: "other", UserEmail: "eve@example.com", Passcode: "000000"})
	verified, ok := findEvent(drain(requester), types.EventPasscodeVerified)
	assert.True(t, ok)
	pv := types.PasscodeVerified{}
	assert.NoError(t, json.Unmarshal(verified.Data, &pv))
	assert.False(t, pv.Verified)
}

func TestDispatchDecodesWirePayloads(t *testing.T) {
	h := newTestHub()
	c := connect(h, "u1", "Alice")
	data, _ := json.Marshal(map[string]interface{}{
		"roomId": "R1", "userName": "Alice", "userEmail": "alice@example.com", "isAdmin": true, "roomPasscode": "1234",
	})
	h.dispatch(c, types.WebsocketMessage{Event: types.EventCreateRoom, Data: data})
	assert.Contains(t, h.state.rooms, "R1")

	// unknown events fall through without effect
	h.dispatch(c, types.WebsocketMessage{Event: "bogus", Data: json.RawMessage(`{}`)})
	drain(c)
}
