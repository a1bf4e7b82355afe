// Package game is the pitaya-facing room layer: tables route player
// requests into the session machine, the shared ticker drives timers
// and bot seats, and every push is a JSON envelope.
package game

import (
	pitaya "github.com/topfreegames/pitaya/v3/pkg"

	"github.com/minnan-games/fjmahjong/archive"
	"github.com/minnan-games/fjmahjong/notify"
	"github.com/minnan-games/fjmahjong/session"
	"github.com/minnan-games/fjmahjong/storage"
)

// Deps carries the shared collaborators every table uses. Everything
// but the Machine is optional; a nil value disables that concern.
type Deps struct {
	Machine  *session.Machine
	Archiver *archive.Archiver
	Notifier *notify.Notifier
	Binding  *storage.ETCDBinding
}

var playerManager *PlayerManager
var tableManager *TableManager
var tableClosedHook func(matchID, tableID int32)

// OnTableClosed registers the lobby callback fired when a room closes,
// so the match layer can recycle the table id and its roster.
func OnTableClosed(f func(matchID, tableID int32)) {
	tableClosedHook = f
}

// InitGame wires the room layer once at server start.
func InitGame(app pitaya.Pitaya, deps Deps) {
	playerManager = NewPlayerManager()
	tableManager = NewTableManager(app, deps)
}

func GetPlayerManager() *PlayerManager {
	return playerManager
}

func GetTableManager() *TableManager {
	return tableManager
}
