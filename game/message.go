package game

import (
	"encoding/json"

	"github.com/minnan-games/fjmahjong/mahjong"
)

// Request is the client-to-table envelope. Type selects the handler;
// table routing runs on match_id:table_id.
type Request struct {
	MatchID int32      `json:"match_id"`
	TableID int32      `json:"table_id"`
	Type    string     `json:"type"`
	Action  *ActionReq `json:"action,omitempty"`
}

const (
	ReqEnter  = "enter"
	ReqAction = "action"
)

// ActionReq is one in-round move. Tile carries the packed tile value for
// discard and kong; Chow carries the chosen placement for a chow call.
type ActionReq struct {
	Act     string              `json:"act"`
	Tile    int32               `json:"tile,omitempty"`
	Operate int32               `json:"operate,omitempty"`
	Chow    *mahjong.ChowOption `json:"chow,omitempty"`
}

const (
	ActDraw    = "draw"
	ActDiscard = "discard"
	ActWin     = "win"
	ActKong    = "kong"
	ActCall    = "call"
)

// Push is the table-to-client envelope.
type Push struct {
	ServerID string          `json:"server_id"`
	MatchID  int32           `json:"match_id"`
	TableID  int32           `json:"table_id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	PushTablePlayer  = "table_player"
	PushGameBegin    = "game_begin"
	PushView         = "view"
	PushReject       = "reject"
	PushGameResult   = "game_result"
	PushGameOver     = "game_over"
	PushHistoryBegin = "history_begin"
	PushHistoryEnd   = "history_end"
)

type TablePlayerAck struct {
	PlayerID string `json:"player_id"`
	Seat     int32  `json:"seat"`
}

type GameBeginAck struct {
	CurGameCount int32 `json:"cur_game_count"`
}

type RejectAck struct {
	Reason string `json:"reason"`
}

type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Seat     int32  `json:"seat"`
	Score    int64  `json:"score"`
}

type GameResultAck struct {
	CurGameCount int32          `json:"cur_game_count"`
	SessionID    string         `json:"session_id"`
	EndReason    string         `json:"end_reason"`
	Players      []PlayerResult `json:"players"`
}

type GameOverAck struct {
	CurGameCount int32 `json:"cur_game_count"`
}
