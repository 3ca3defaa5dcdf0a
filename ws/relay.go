package ws

import "github.com/meetlite/meetlite/types"

// handleSignal is the stateless signaling relay: look up the addressee,
// re-emit {from, signal}. The payload is opaque and no room membership is
// checked; an unknown addressee means the message is silently dropped.
func (h *Hub) handleSignal(_ *Client, p types.SignalPayload) {
	h.sendToID(p.To, types.EventSignal, types.SignalForward{
		From:   p.From,
		Signal: p.Signal,
	})
}
