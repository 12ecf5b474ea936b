package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

func (ctl *Controller) handleDeclareIdentity(id core.ConnID, conn *WsConn, data []byte) {
	type identityPayload struct {
		Type     string `json:"type"`
		Identity string `json:"identity"`
	}
	var p identityPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad identity payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	identity, err := domain.NewIdentity(p.Identity)
	if err != nil {
		ctl.sendError(conn, "invalid_identity")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("identity", p.Identity).Msg("declare identity")
	ctl.Coord.DeclareIdentity(id, identity)
	resp := struct {
		Type     string          `json:"type"`
		Identity domain.Identity `json:"identity"`
	}{
		"identity-set",
		identity,
	}
	ctl.sendJSON(conn, resp)
}
