package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/store"
	"github.com/sirupsen/logrus"
)

// errNoChange aborts a transaction without writing; used by stale timers.
var errNoChange = errors.New("session: no change")

// Machine drives sessions through the store. Every mutation is an
// optimistic read-modify-write; a lost race retries with fresh state, so
// at most one draw and one discard commit per turn and exactly one
// response per seat per calling phase.
type Machine struct {
	store  store.Store
	conf   Config
	rng    *rand.Rand
	manual *mahjong.Manual
	log    *logrus.Entry
}

func NewMachine(st store.Store, conf Config) *Machine {
	m := &Machine{
		store: st,
		conf:  conf,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   logrus.WithField("component", "session"),
	}
	if conf.Script != "" {
		m.manual = mahjong.NewManual(conf.Script)
	}
	return m
}

// Create allocates a fresh waiting session and returns it.
func (m *Machine) Create(ctx context.Context, dealer, dealerStreak int32) (*Session, error) {
	s := NewSession(uuid.NewString(), dealer, dealerStreak)
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if _, err := m.store.Write(ctx, s.ID, data, store.VersionNew); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the current state without mutating it.
func (m *Machine) Load(ctx context.Context, id string) (*Session, error) {
	data, _, err := m.store.Read(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return s, nil
}

// Delete drops the stored state once a table is done with the session.
func (m *Machine) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Start runs the deal, the bonus exposure and the Gold flip.
func (m *Machine) Start(ctx context.Context, id string) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		return s.startRound(m.rng, m.conf, m.manual)
	})
}

func (m *Machine) Draw(ctx context.Context, id string, seat int32) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		return s.draw(seat)
	})
}

func (m *Machine) Discard(ctx context.Context, id string, seat int32, tile mahjong.Tile) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		return s.discard(seat, tile, m.conf)
	})
}

// DeclareWin is a self-draw win during the seat's own turn, or a win
// call against the pending discard.
func (m *Machine) DeclareWin(ctx context.Context, id string, seat int32) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		if s.Phase == PhaseCalling {
			return s.respond(seat, CallResponse{Operate: mahjong.OperateHu})
		}
		return s.selfWin(seat)
	})
}

// DeclareKong plays a concealed kong or pung upgrade in the seat's own
// turn, or answers the pending discard with a kong call.
func (m *Machine) DeclareKong(ctx context.Context, id string, seat int32, tileType mahjong.Tile) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		if s.Phase == PhaseCalling {
			return s.respond(seat, CallResponse{Operate: mahjong.OperateKong})
		}
		return s.declareKong(seat, tileType)
	})
}

func (m *Machine) RespondToCall(ctx context.Context, id string, seat int32, resp CallResponse) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		return s.respond(seat, resp)
	})
}

func (m *Machine) Abort(ctx context.Context, id string) (*Session, error) {
	return m.transact(ctx, id, func(s *Session) error {
		s.abort()
		return nil
	})
}

// transact runs fn against the decoded session and commits the result.
// A conservation failure after fn is a bug somewhere in the mutation
// pipeline: the aborted round is committed and ErrInvariant surfaced.
func (m *Machine) transact(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	var out *Session
	var invariantErr error
	_, _, err := store.Transact(ctx, m.store, id, func(cur []byte) ([]byte, error) {
		out, invariantErr = nil, nil
		if cur == nil {
			return nil, ErrNotFound
		}
		s := &Session{}
		if err := json.Unmarshal(cur, s); err != nil {
			return nil, fmt.Errorf("session: decode %s: %w", id, err)
		}
		seqBefore := s.PhaseSeq
		if err := fn(s); err != nil {
			if errors.Is(err, errNoChange) {
				out = s
				return nil, nil
			}
			return nil, err
		}
		if err := s.CheckConservation(); err != nil {
			m.log.WithField("session", id).Error(err)
			s.abort()
			invariantErr = err
		}
		if s.Phase == PhasePlaying && s.PhaseSeq != seqBefore {
			s.TurnDeadline = time.Now().Add(m.conf.TurnTimeout)
		}
		out = s
		return json.Marshal(s)
	})
	if err != nil {
		return nil, err
	}
	if invariantErr != nil {
		return out, invariantErr
	}
	return out, nil
}
