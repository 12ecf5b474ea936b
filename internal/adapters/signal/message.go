package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

func (ctl *Controller) handleMessage(id core.ConnID, conn *WsConn, data []byte) {
	type messagePayload struct {
		Type       string `json:"type"`
		RoomCode   string `json:"roomCode"`
		Content    string `json:"content"`
		SenderID   string `json:"senderId"`
		SenderName string `json:"senderName"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	// A message for an unknown room is dropped inside the coordinator; no
	// error goes back to the sender.
	ctl.Coord.Message(domain.NormalizeCode(p.RoomCode), p.Content, p.SenderID, p.SenderName)
}
