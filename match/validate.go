package match

import (
	"context"
	"errors"
)

type validateOptions struct {
	tableID               int32
	usePlayerTable        bool
	requirePlayerInTable  bool
	checkPlayerNotInMatch bool
	allowCreateNewPlayer  bool
}

type ValidateOption func(*validateOptions)

// WithTableID validates against a specific table.
func WithTableID(id int32) ValidateOption {
	return func(o *validateOptions) {
		o.tableID = id
	}
}

// WithPlayerTable validates against the table the player is seated at.
func WithPlayerTable() ValidateOption {
	return func(o *validateOptions) {
		o.usePlayerTable = true
	}
}

// WithCheckPlayerNotInMatch rejects users who already signed up.
func WithCheckPlayerNotInMatch() ValidateOption {
	return func(o *validateOptions) {
		o.checkPlayerNotInMatch = true
	}
}

// WithAllowCreateNewPlayer signs unknown users up on the fly.
func WithAllowCreateNewPlayer() ValidateOption {
	return func(o *validateOptions) {
		o.allowCreateNewPlayer = true
	}
}

// RequirePlayerInTable insists the player is seated at the table found.
func RequirePlayerInTable() ValidateOption {
	return func(o *validateOptions) {
		o.requirePlayerInTable = true
	}
}

// ValidatePlayer checks the session's uid against the match roster.
func (m *Match) ValidatePlayer(ctx context.Context, opts ...ValidateOption) (*Player, error) {
	options := &validateOptions{}
	for _, opt := range opts {
		opt(options)
	}

	uid := m.App.GetSessionFromCtx(ctx).UID()
	if uid == "" {
		return nil, errors.New("not logged in")
	}

	player := m.playermgr.Load(uid)
	if options.checkPlayerNotInMatch && player != nil {
		return nil, errors.New("player is in match")
	}

	if player == nil {
		if !options.allowCreateNewPlayer {
			return nil, errors.New("player not found")
		}
		player = m.playermgr.LoadOrCreate(ctx, uid, m.Conf.Matchid, m.Conf.InitialChips)
	}

	return player, nil
}

// ValidateTable resolves the table the options point at.
func (m *Match) ValidateTable(player *Player, opts ...ValidateOption) (*Table, error) {
	options := &validateOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var tableID int32
	if options.tableID > 0 {
		tableID = options.tableID
	} else if options.usePlayerTable {
		tableID = player.TableId
	} else {
		return nil, errors.New("table identification not specified")
	}

	table, ok := m.tables.Load(tableID)
	if !ok {
		return nil, errors.New("table not found")
	}
	t := table.(*Table)
	if options.requirePlayerInTable && !t.IsOnTable(player) {
		return nil, errors.New("player not in specified table")
	}

	return t, nil
}

// ValidateRequest resolves both the player and their table.
func (m *Match) ValidateRequest(ctx context.Context, opts ...ValidateOption) (*Player, *Table, error) {
	player, err := m.ValidatePlayer(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	table, err := m.ValidateTable(player, opts...)
	if err != nil {
		return nil, nil, err
	}

	return player, table, nil
}
