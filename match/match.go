// Package match is the lobby layer: yaml-configured matches sign
// players up, seat them into tables and hand full (or timed-out) tables
// to the game layer in process.
package match

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/spf13/viper"
	pitaya "github.com/topfreegames/pitaya/v3/pkg"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// Ack is the lobby-to-client envelope.
type Ack struct {
	ServerID string          `json:"server_id"`
	MatchID  int32           `json:"match_id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	AckStartClient = "start_client"
	AckSigned      = "signed"
	AckExited      = "exited"
)

// StartClientAck tells the client which table to attach to.
type StartClientAck struct {
	MatchType string `json:"match_type"`
	GameType  string `json:"game_type"`
	ServerID  string `json:"server_id"`
	MatchID   int32  `json:"match_id"`
	TableID   int32  `json:"table_id"`
}

type SignedAck struct {
	TableID int32 `json:"table_id"`
	Seat    int32 `json:"seat"`
	Chips   int64 `json:"chips"`
}

// Match is one configured game mode. Signups accumulate on an open
// table; a full table starts at once, a stale one starts with bots.
type Match struct {
	App       pitaya.Pitaya
	Conf      *Config
	Viper     *viper.Viper
	playermgr *Playermgr
	tableIds  *TableIDs
	tables    sync.Map

	mu            sync.Mutex
	openTable     *Table
	openTableWait time.Time
}

func NewMatch(app pitaya.Pitaya, file string) (*Match, error) {
	m := &Match{
		App:       app,
		Viper:     viper.New(),
		playermgr: NewPlayermgr(),
		tableIds:  NewTableIDs(),
	}
	if err := m.initConfig(file); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) initConfig(file string) error {
	m.Viper.SetConfigType("yaml")
	m.Viper.SetConfigFile(file)
	if err := m.Viper.ReadInConfig(); err != nil {
		return err
	}
	m.Viper.SetDefault("player_per_table", 4)
	m.Viper.SetDefault("game_count", 1)
	m.Viper.SetDefault("score_base", 1)
	m.Viper.SetDefault("sign_timeout_sec", 15)
	conf := &Config{}
	if err := m.Viper.Unmarshal(conf); err != nil {
		return err
	}
	m.Conf = conf
	return nil
}

// Sign books the calling user onto the open table. A solo match starts
// immediately with bot opponents.
func (m *Match) Sign(ctx context.Context) error {
	player, err := m.ValidatePlayer(ctx, WithCheckPlayerNotInMatch(), WithAllowCreateNewPlayer())
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openTable == nil {
		m.openTable = NewTable(m)
		if m.openTable == nil {
			m.playermgr.Delete(player.ID)
			return errors.New("no table available")
		}
		m.openTableWait = time.Now()
		m.tables.Store(m.openTable.ID, m.openTable)
	}

	seat, err := m.openTable.AddPlayer(player)
	if err != nil {
		m.playermgr.Delete(player.ID)
		return err
	}
	m.PushMsg(player, AckSigned, &SignedAck{
		TableID: player.TableId,
		Seat:    seat,
		Chips:   player.Score,
	})

	if m.Conf.SignCondition == "solo" || m.openTable.IsFull() {
		m.startOpenTable()
	}
	return nil
}

// Exit removes a signed-up player who has not started playing yet.
func (m *Match) Exit(ctx context.Context) error {
	player, err := m.ValidatePlayer(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openTable == nil || !m.openTable.IsOnTable(player) {
		return errors.New("player already playing")
	}
	m.openTable.RemovePlayer(player)
	m.playermgr.Delete(player.ID)
	player.State = StateExited
	m.PushMsg(player, AckExited, struct{}{})
	return nil
}

// Tick fires once per second; a signup that waited past the timeout
// starts short-handed, the game layer fills the empty seats with bots.
func (m *Match) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openTable == nil || m.openTable.PlayerCount() == 0 {
		return
	}
	timeout := time.Duration(m.Conf.SignTimeoutSec) * time.Second
	if time.Since(m.openTableWait) >= timeout {
		m.startOpenTable()
	}
}

// startOpenTable hands the open table to the game layer; the caller
// holds m.mu.
func (m *Match) startOpenTable() {
	table := m.openTable
	m.openTable = nil
	if err := table.Start(); err != nil {
		logger.Log.Errorf("match %d start table %d: %v", m.Conf.Matchid, table.ID, err)
		m.tables.Delete(table.ID)
		m.tableIds.PutBack(table.ID)
	}
}

// CloseTable recycles a finished table's id and clears its roster.
func (m *Match) CloseTable(tableID int32) {
	if v, ok := m.tables.LoadAndDelete(tableID); ok {
		t := v.(*Table)
		for _, p := range t.seats {
			if p != nil {
				m.playermgr.Delete(p.ID)
			}
		}
	}
	m.tableIds.PutBack(tableID)
}

func (m *Match) nextTableID() int32 {
	id, err := m.tableIds.Take()
	if err != nil {
		logger.Log.Error(err.Error())
		return 0
	}
	return id
}

// PushMsg sends one lobby envelope to a player through its frontend.
func (m *Match) PushMsg(p *Player, ackType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("match %d encode %s: %v", m.Conf.Matchid, ackType, err)
		return
	}
	ack := &Ack{
		ServerID: m.App.GetServerID(),
		MatchID:  m.Conf.Matchid,
		Type:     ackType,
		Payload:  data,
	}
	out, err := json.Marshal(ack)
	if err != nil {
		return
	}
	if _, err := m.App.SendPushToUsers(m.App.GetServer().Type, out, []string{p.ID}, "proxy"); err != nil {
		logger.Log.Errorf("push to %s failed: %v", p.ID, err)
	}
}
