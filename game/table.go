package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/minnan-games/fjmahjong/bot"
	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/notify"
	"github.com/minnan-games/fjmahjong/session"
	pitaya "github.com/topfreegames/pitaya/v3/pkg"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// TableConfig is what the match layer hands over when it books a table.
type TableConfig struct {
	ScoreBase   int64
	GameCount   int32
	PlayerCount int32
	Property    string
}

// Table binds one room's humans and bots to a session on the store. The
// per-second tick drives session timers and bot turns; player requests
// route through the handlers map.
type Table struct {
	matchID int32
	tableID int32
	app     pitaya.Pitaya
	deps    Deps

	players      map[string]*Player
	bots         map[int32]*bot.Agent
	scoreBase    int64
	gameCount    int32
	curGameCount int32
	playerCount  int32
	property     string

	sessionID    string
	lastSeq      int64
	dealer       int32
	dealerStreak int32

	handlers     map[string]func(*Player, *Request) error
	gameMutex    sync.Mutex
	historyMsg   map[string][]*Push
	historyMutex sync.Mutex
	gameOnce     sync.Once
}

func NewTable(matchID, tableID int32, app pitaya.Pitaya, deps Deps) *Table {
	t := &Table{
		matchID:    matchID,
		tableID:    tableID,
		app:        app,
		deps:       deps,
		players:    make(map[string]*Player),
		bots:       make(map[int32]*bot.Agent),
		handlers:   make(map[string]func(*Player, *Request) error),
		historyMsg: make(map[string][]*Push),
	}
	t.init()
	return t
}

func (t *Table) init() {
	t.handlers[ReqEnter] = t.handleEnterGame
	t.handlers[ReqAction] = t.handleAction
}

// OnPlayerMsg dispatches one client request by its type.
func (t *Table) OnPlayerMsg(ctx context.Context, player *Player, req *Request) error {
	if req == nil {
		return errors.New("invalid request")
	}
	if handler, ok := t.handlers[req.Type]; ok {
		return handler(player, req)
	}
	return errors.New("unknown request type")
}

// AddTable applies the booking config before any player arrives.
func (t *Table) AddTable(conf TableConfig) {
	t.scoreBase = conf.ScoreBase
	t.gameCount = conf.GameCount
	t.playerCount = conf.PlayerCount
	t.property = conf.Property
}

// AddPlayer seats one human. The match layer has already picked the seat
// and the buy-in.
func (t *Table) AddPlayer(playerID string, seat int32, score int64) error {
	if t.isOnTable(playerID) {
		return errors.New("player already on table")
	}
	player, err := playerManager.Store(playerID)
	if err != nil {
		return err
	}
	player.SetSeat(seat)
	player.AddScore(score)
	t.players[playerID] = player
	if t.deps.Binding != nil {
		if err := t.deps.Binding.Put(playerID, t.matchID, t.tableID); err != nil {
			logger.Log.Errorf("bind %s to table %d: %v", playerID, t.tableID, err)
		}
	}
	return nil
}

// CancelTable tears the table down before or after its rounds.
func (t *Table) CancelTable() {
	t.gameOver()
}

// OnNetState flips a player's online flag; an offline seat keeps playing
// through the session's turn timer.
func (t *Table) OnNetState(playerID string, online bool) error {
	player := playerManager.Get(playerID)
	if player == nil {
		return errors.New("player not found")
	}
	if player.online == online {
		return errors.New("player online status not changed")
	}
	player.online = online
	logger.Log.Infof("player %s online=%v on table %d", playerID, online, t.tableID)
	return nil
}

func (t *Table) handleEnterGame(player *Player, _ *Request) error {
	if !t.isOnTable(player.id) {
		return errors.New("player not on table")
	}

	if player.Status == PlayerStatusEnter {
		t.notifyTablePlayer(player, true)
		t.sendHisMsges(player)
	} else {
		player.Status = PlayerStatusEnter
		t.broadcastTablePlayer(player)
		t.notifyTablePlayer(player, false)
	}

	if t.isAllPlayersReady() {
		t.gameMutex.Lock()
		defer t.gameMutex.Unlock()
		t.gamebegin()
	}
	return nil
}

// gamebegin starts the next round; the caller holds gameMutex.
func (t *Table) gamebegin() {
	ctx := context.Background()
	t.curGameCount++
	t.gameOnce = sync.Once{}
	t.clearHistory()
	t.fillBots()

	s, err := t.deps.Machine.Create(ctx, t.dealer, t.dealerStreak)
	if err != nil {
		logger.Log.Errorf("table %d create session: %v", t.tableID, err)
		return
	}
	t.sessionID = s.ID
	t.lastSeq = 0

	t.sendGameBegin()
	s, err = t.deps.Machine.Start(ctx, t.sessionID)
	if err != nil {
		logger.Log.Errorf("table %d start session %s: %v", t.tableID, t.sessionID, err)
		return
	}
	t.publish(notify.EventRoundStarted, -1, nil)
	t.pushViews(s)
	t.lastSeq = s.PhaseSeq
	if s.Phase == session.PhaseEnded {
		t.finishRound(s)
	}
}

// handleAction maps one move onto the session machine. A rejected move
// answers the sender only; nothing is broadcast.
func (t *Table) handleAction(player *Player, req *Request) error {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if req.Action == nil {
		return errors.New("empty action")
	}
	if t.sessionID == "" {
		return errors.New("game not started")
	}

	ctx := context.Background()
	m := t.deps.Machine
	seat := player.Seat

	var s *session.Session
	var err error
	switch req.Action.Act {
	case ActDraw:
		s, err = m.Draw(ctx, t.sessionID, seat)
	case ActDiscard:
		s, err = m.Discard(ctx, t.sessionID, seat, mahjong.Tile(req.Action.Tile))
	case ActWin:
		s, err = m.DeclareWin(ctx, t.sessionID, seat)
	case ActKong:
		s, err = m.DeclareKong(ctx, t.sessionID, seat, mahjong.Tile(req.Action.Tile))
	case ActCall:
		resp := session.CallResponse{Operate: req.Action.Operate, Chow: req.Action.Chow}
		s, err = m.RespondToCall(ctx, t.sessionID, seat, resp)
	default:
		return errors.New("unknown action " + req.Action.Act)
	}
	if errors.Is(err, session.ErrInvalidMove) {
		t.sendReject(player, err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	t.afterMutation(s)
	return nil
}

// afterMutation pushes fresh views when the round advanced and settles
// when it ended. The caller holds gameMutex.
func (t *Table) afterMutation(s *session.Session) {
	if s.PhaseSeq != t.lastSeq {
		t.lastSeq = s.PhaseSeq
		t.pushViews(s)
	}
	if s.Phase == session.PhaseEnded {
		t.finishRound(s)
	}
}

// tick runs once per second from the table manager: session timers
// first, then one bot step per seat.
func (t *Table) tick() {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.sessionID == "" {
		return
	}
	ctx := context.Background()

	s, err := t.deps.Machine.Tick(ctx, t.sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.Log.Errorf("table %d tick: %v", t.tableID, err)
		}
		return
	}

	for seat, agent := range t.bots {
		if s.Phase == session.PhaseEnded {
			break
		}
		if err := agent.Act(ctx, t.deps.Machine, s.View(seat)); err != nil {
			logger.Log.Errorf("table %d bot seat %d: %v", t.tableID, seat, err)
		}
		if s, err = t.deps.Machine.Load(ctx, t.sessionID); err != nil {
			return
		}
	}
	t.afterMutation(s)
}

// fillBots covers every seat without a human.
func (t *Table) fillBots() {
	profile := botProfile(t.property)
	taken := make(map[int32]bool, len(t.players))
	for _, p := range t.players {
		taken[p.Seat] = true
	}
	for seat := int32(0); seat < t.playerCount; seat++ {
		if !taken[seat] && t.bots[seat] == nil {
			t.bots[seat] = bot.New(seat, profile)
		}
	}
}

func botProfile(property string) bot.Profile {
	switch property {
	case bot.Easy.Name:
		return bot.Easy
	case bot.Hard.Name:
		return bot.Hard
	default:
		return bot.Normal
	}
}

// finishRound settles one ended session exactly once, archives it and
// either books the next round or closes the table.
func (t *Table) finishRound(s *session.Session) {
	t.gameOnce.Do(func() {
		ctx := context.Background()

		result := &GameResultAck{
			CurGameCount: t.curGameCount,
			SessionID:    s.ID,
			EndReason:    string(s.EndReason),
			Players:      make([]PlayerResult, 0, len(t.players)),
		}
		for _, p := range t.players {
			p.AddScore(s.Net[p.Seat] * t.scoreBase)
			result.Players = append(result.Players, PlayerResult{
				PlayerID: p.id,
				Seat:     p.Seat,
				Score:    p.GetScore(),
			})
		}
		t.broadcast(t.newPush(PushGameResult, result))

		if t.deps.Archiver != nil {
			if err := t.deps.Archiver.Save(ctx, s); err != nil {
				logger.Log.Errorf("table %d archive %s: %v", t.tableID, s.ID, err)
			}
		}
		payload, _ := json.Marshal(result)
		t.publish(notify.EventRoundEnded, -1, payload)

		t.rotateDealer(s)
		t.sessionID = ""

		if t.curGameCount >= t.gameCount {
			go t.gameOver()
		} else {
			go func() {
				t.gameMutex.Lock()
				defer t.gameMutex.Unlock()
				t.gamebegin()
			}()
		}
	})
}

// rotateDealer keeps the dealer on a win and passes the deal otherwise.
func (t *Table) rotateDealer(s *session.Session) {
	for _, w := range s.Winners {
		if w.Seat == s.Dealer {
			t.dealer = s.Dealer
			t.dealerStreak = s.DealerStreak + 1
			return
		}
	}
	t.dealer = mahjong.GetNextSeat(s.Dealer, 1)
	t.dealerStreak = 0
}

func (t *Table) gameOver() {
	t.broadcast(t.newPush(PushGameOver, &GameOverAck{CurGameCount: t.curGameCount}))
	for _, player := range t.players {
		playerManager.Delete(player.id)
		if t.deps.Binding != nil {
			if err := t.deps.Binding.Remove(player.id); err != nil {
				logger.Log.Errorf("unbind %s: %v", player.id, err)
			}
		}
	}
	tableManager.Delete(t.matchID, t.tableID)
	if tableClosedHook != nil {
		tableClosedHook(t.matchID, t.tableID)
	}

	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.sessionID != "" {
		if err := t.deps.Machine.Delete(context.Background(), t.sessionID); err != nil {
			logger.Log.Errorf("table %d delete session %s: %v", t.tableID, t.sessionID, err)
		}
		t.sessionID = ""
	}
}

func (t *Table) publish(eventType string, seat int32, payload json.RawMessage) {
	if t.deps.Notifier == nil || t.sessionID == "" {
		return
	}
	ev := notify.Event{Type: eventType, SessionID: t.sessionID, Payload: payload}
	if seat >= 0 {
		ev.Seat = seat
	}
	if err := t.deps.Notifier.Publish(ev); err != nil && !errors.Is(err, notify.ErrNotConnected) {
		logger.Log.Errorf("table %d publish %s: %v", t.tableID, eventType, err)
	}
}

func (t *Table) pushViews(s *session.Session) {
	for _, p := range t.players {
		view := s.View(p.Seat)
		t.sendMsg(t.newPush(PushView, view), []string{p.id})
	}
}

func (t *Table) broadcastTablePlayer(player *Player) {
	t.broadcast(t.newPush(PushTablePlayer, &TablePlayerAck{
		PlayerID: player.id,
		Seat:     player.Seat,
	}))
	logger.Log.Infof("player %s added to table %d", player.id, t.tableID)
}

func (t *Table) sendGameBegin() {
	t.broadcast(t.newPush(PushGameBegin, &GameBeginAck{CurGameCount: t.curGameCount}))
}

func (t *Table) sendReject(player *Player, reason string) {
	t.sendMsg(t.newPush(PushReject, &RejectAck{Reason: reason}), []string{player.id})
}

// notifyTablePlayer tells one (re)entering player who else is seated.
func (t *Table) notifyTablePlayer(player *Player, resume bool) {
	for _, p := range t.players {
		if p.id == player.id && !resume {
			continue
		}
		msg := t.newPush(PushTablePlayer, &TablePlayerAck{PlayerID: p.id, Seat: p.Seat})
		t.sendMsg(msg, []string{player.id})
	}
}

func (t *Table) newPush(pushType string, payload any) *Push {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("table %d encode %s: %v", t.tableID, pushType, err)
		return nil
	}
	return &Push{
		ServerID: t.app.GetServerID(),
		MatchID:  t.matchID,
		TableID:  t.tableID,
		Type:     pushType,
		Payload:  data,
	}
}

func (t *Table) isOnTable(playerID string) bool {
	_, ok := t.players[playerID]
	return ok
}

func (t *Table) isAllPlayersReady() bool {
	humans := 0
	for _, player := range t.players {
		if player.Status == PlayerStatusUnEnter {
			return false
		}
		humans++
	}
	return humans > 0
}

func (t *Table) IsValidSeat(seat int32) bool {
	return seat >= 0 && seat < t.playerCount
}

func (t *Table) GetGamePlayer(seat int32) *Player {
	for _, p := range t.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (t *Table) GetPlayerCount() int32 {
	return t.playerCount
}

func (t *Table) GetProperty() string {
	return t.property
}

func (t *Table) GetScoreBase() int64 {
	return t.scoreBase
}

func (t *Table) broadcast(msg *Push) {
	uids := make([]string, 0, len(t.players))
	for _, player := range t.players {
		if player.Status != PlayerStatusUnEnter {
			uids = append(uids, player.id)
		}
	}
	t.sendMsg(msg, uids)
}

func (t *Table) sendMsg(msg *Push, uids []string) {
	if msg == nil || len(uids) == 0 {
		return
	}
	t.addHisMsg(uids, msg)
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorf("table %d encode push: %v", t.tableID, err)
		return
	}
	if _, err := t.app.SendPushToUsers(t.app.GetServer().Type, data, uids, "proxy"); err != nil {
		logger.Log.Errorf("push to %v failed: %v", uids, err)
	}
}

// addHisMsg records view pushes for mid-round reconnect replay.
func (t *Table) addHisMsg(uids []string, msg *Push) {
	if msg.Type != PushView {
		return
	}
	t.historyMutex.Lock()
	defer t.historyMutex.Unlock()
	for _, uid := range uids {
		t.historyMsg[uid] = append(t.historyMsg[uid], msg)
	}
}

func (t *Table) clearHistory() {
	t.historyMutex.Lock()
	defer t.historyMutex.Unlock()
	t.historyMsg = make(map[string][]*Push)
}

func (t *Table) sendHisMsges(player *Player) {
	t.historyMutex.Lock()
	defer t.historyMutex.Unlock()

	msgs := t.historyMsg[player.id]
	if len(msgs) == 0 {
		return
	}
	t.sendRaw(t.newPush(PushHistoryBegin, struct{}{}), player.id)
	for _, msg := range msgs {
		t.sendRaw(msg, player.id)
	}
	t.sendRaw(t.newPush(PushHistoryEnd, struct{}{}), player.id)
}

// sendRaw skips history recording; used only by the replay itself.
func (t *Table) sendRaw(msg *Push, uid string) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if _, err := t.app.SendPushToUsers(t.app.GetServer().Type, data, []string{uid}, "proxy"); err != nil {
		logger.Log.Errorf("push to %s failed: %v", uid, err)
	}
}
