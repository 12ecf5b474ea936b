package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

func (ctl *Controller) handleCreate(id core.ConnID, conn *WsConn) {
	code, err := ctl.Coord.Create()
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("create room")
		ctl.sendError(conn, "could not create room")
		return
	}
	resp := struct {
		Type     string          `json:"type"`
		RoomCode domain.RoomCode `json:"roomCode"`
	}{
		"room-created",
		code,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *Controller) handleJoin(id core.ConnID, conn *WsConn, data []byte) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	code := domain.NormalizeCode(p.RoomID)

	// The joined-room reply and member-count broadcast are emitted by the
	// coordinator inside its critical section, so the joiner never sees a
	// message event before its own history snapshot.
	if err := ctl.Coord.Join(code, id, conn); err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			log.Info().Str("module", "signal").Str("room", string(code)).Msg("join of unknown room")
			ctl.sendError(conn, "room not found")
			return
		}
		ctl.sendError(conn, "join failed")
	}
}

func (ctl *Controller) handleLeave(id core.ConnID, conn *WsConn, data []byte) {
	type leavePayload struct {
		Type     string `json:"type"`
		RoomCode string `json:"roomCode"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.RoomCode).Msg("leave")
	ctl.Coord.Leave(domain.NormalizeCode(p.RoomCode), id)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}
