package match

import (
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/minnan-games/fjmahjong/game"
	"github.com/minnan-games/fjmahjong/notify"
	pitaya "github.com/topfreegames/pitaya/v3/pkg"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

var defaultMatchmgr *Matchmgr

// Init loads every match config for this server type and starts the
// lobby tickers. The notifier may be nil; occupancy reporting is then
// disabled.
func Init(app pitaya.Pitaya, notifier *notify.Notifier) error {
	mgr, err := NewMatchmgr(app, notifier)
	if err != nil {
		return err
	}
	defaultMatchmgr = mgr
	game.OnTableClosed(func(matchID, tableID int32) {
		if m := GetMatch(matchID); m != nil {
			m.CloseTable(tableID)
		}
	})
	return nil
}

func GetMatch(matchid int32) *Match {
	return defaultMatchmgr.Get(matchid)
}

// Matchmgr owns every configured match on this server.
type Matchmgr struct {
	App      pitaya.Pitaya
	Matchs   map[int32]*Match
	notifier *notify.Notifier
	ticker   *time.Ticker
}

func NewMatchmgr(app pitaya.Pitaya, notifier *notify.Notifier) (*Matchmgr, error) {
	m := &Matchmgr{
		App:      app,
		Matchs:   make(map[int32]*Match),
		notifier: notifier,
		ticker:   time.NewTicker(time.Second),
	}
	if err := m.LoadMatchs(); err != nil {
		return nil, err
	}
	go m.startReportPlayerCount()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorf("panic recovered %s\n %s", r, string(debug.Stack()))
			}
		}()
		for range m.ticker.C {
			m.tick()
		}
	}()
	return m, nil
}

func (m *Matchmgr) tick() {
	for _, match := range m.Matchs {
		match.Tick()
	}
}

// LoadMatchs reads every yaml file under etc/<server-type>/.
func (m *Matchmgr) LoadMatchs() error {
	files, err := filepath.Glob(filepath.Join("etc", m.App.GetServer().Type, "*.yaml"))
	if err != nil {
		return err
	}
	for _, file := range files {
		logger.Log.Infof("loading match config: %s", file)
		match, err := NewMatch(m.App, file)
		if err != nil {
			return err
		}
		m.Add(match)
	}
	return nil
}

// startReportPlayerCount publishes lobby occupancy every 40 seconds.
func (m *Matchmgr) startReportPlayerCount() {
	if m.notifier == nil {
		return
	}
	ticker := time.NewTicker(40 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.reportPlayerCount()
	}
}

func (m *Matchmgr) reportPlayerCount() {
	infos := make([]notify.LobbyInfo, 0, len(m.Matchs))
	for matchID, match := range m.Matchs {
		infos = append(infos, notify.LobbyInfo{
			MatchID:   matchID,
			Name:      match.Conf.Name,
			GameType:  match.Conf.GameType,
			ServerID:  m.App.GetServerID(),
			Condition: match.Conf.SignCondition,
			Online:    int32(match.playermgr.playerCount()),
		})
	}
	if err := m.notifier.PublishLobby(infos); err != nil {
		logger.Log.Errorf("lobby occupancy report failed: %v", err)
	}
}

func (m *Matchmgr) Add(match *Match) {
	m.Matchs[match.Conf.Matchid] = match
}

func (m *Matchmgr) Get(matchId int32) *Match {
	return m.Matchs[matchId]
}
