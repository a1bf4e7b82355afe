package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/minnan-games/fjmahjong/match"
	pitaya "github.com/topfreegames/pitaya/v3/pkg"
	"github.com/topfreegames/pitaya/v3/pkg/component"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// MatchReq is the lobby request envelope.
type MatchReq struct {
	MatchID int32  `json:"match_id"`
	Type    string `json:"type"`
}

const (
	MatchReqSign = "sign"
	MatchReqExit = "exit"
)

// Match is the lobby entry point: signups in, table bookings out.
type Match struct {
	component.Base
	app pitaya.Pitaya
}

func NewMatch(app pitaya.Pitaya) *Match {
	return &Match{
		app: app,
	}
}

func (s *Match) Message(ctx context.Context, data []byte) ([]byte, error) {
	req := &MatchReq{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, err
	}

	m := match.GetMatch(req.MatchID)
	if m == nil {
		return nil, errors.New("match not found")
	}

	var err error
	switch req.Type {
	case MatchReqSign:
		err = m.Sign(ctx)
	case MatchReqExit:
		err = m.Exit(ctx)
	default:
		err = errors.New("unknown request type " + req.Type)
	}
	if err != nil {
		logger.Log.Errorf("match %d %s: %v", req.MatchID, req.Type, err)
		return nil, err
	}
	return []byte(`{"ok":true}`), nil
}
