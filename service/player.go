// Package service exposes the pitaya handler components. Payloads are
// JSON envelopes decoded here and routed to the player's table.
package service

import (
	"context"
	"encoding/json"

	"github.com/minnan-games/fjmahjong/game"
	pitaya "github.com/topfreegames/pitaya/v3/pkg"
	"github.com/topfreegames/pitaya/v3/pkg/component"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// Player is the per-user game-message entry point.
type Player struct {
	component.Base
	app pitaya.Pitaya
}

func NewPlayer(app pitaya.Pitaya) *Player {
	return &Player{
		app: app,
	}
}

func (p *Player) Message(ctx context.Context, data []byte) {
	userID := p.app.GetSessionFromCtx(ctx).UID()
	if userID == "" {
		logger.Log.Error("received player message with empty user ID")
		return
	}

	req := &game.Request{}
	if err := json.Unmarshal(data, req); err != nil {
		logger.Log.Errorf("malformed request from %s: %v", userID, err)
		return
	}

	player := game.GetPlayerManager().Get(userID)
	if player == nil {
		logger.Log.Errorf("player not found: %s", userID)
		return
	}
	if err := player.HandleMessage(ctx, req); err != nil {
		logger.Log.Errorf("error handling player message: %v", err)
	}
}
