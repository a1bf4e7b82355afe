// Package notify fans round events out over NATS so lobby and ranking
// services can follow tables without touching the session store.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

var ErrNotConnected = errors.New("notify: nats not connected")

const (
	subjectPrefix = "fjmahjong.rounds"
	subjectLobby  = "fjmahjong.lobby"
)

// Event is the cross-service round event envelope.
type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Seat      int32           `json:"seat,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	EventRoundStarted = "round_started"
	EventDiscarded    = "discarded"
	EventCallOpened   = "call_opened"
	EventMeld         = "meld"
	EventRoundEnded   = "round_ended"
)

type Notifier struct {
	conn *nats.Conn
	log  *logrus.Entry
}

func Connect(url string) (*Notifier, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return NewNotifier(conn), nil
}

// NewNotifier wraps an existing connection; the caller keeps ownership.
func NewNotifier(conn *nats.Conn) *Notifier {
	return &Notifier{
		conn: conn,
		log:  logrus.WithField("component", "notify"),
	}
}

func subject(sessionID string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, sessionID)
}

func (n *Notifier) connected() bool {
	return n.conn != nil && n.conn.IsConnected()
}

// Publish sends one event on the session's subject. Notification is
// best-effort next to the store commit; a failure is logged, not fatal.
func (n *Notifier) Publish(ev Event) error {
	if !n.connected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(subject(ev.SessionID), data); err != nil {
		n.log.WithError(err).WithField("session", ev.SessionID).Error("publish failed")
		return err
	}
	return nil
}

// LobbyInfo is one match's occupancy as reported to the lobby subject.
type LobbyInfo struct {
	MatchID   int32  `json:"match_id"`
	Name      string `json:"name"`
	GameType  string `json:"game_type"`
	ServerID  string `json:"server_id"`
	Condition string `json:"condition"`
	Online    int32  `json:"online"`
}

// PublishLobby reports match occupancy for lobby listings.
func (n *Notifier) PublishLobby(infos []LobbyInfo) error {
	if !n.connected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(infos)
	if err != nil {
		return err
	}
	return n.conn.Publish(subjectLobby, data)
}

// Subscribe delivers a session's events on the returned channel until
// the subscription is drained.
func (n *Notifier) Subscribe(sessionID string) (<-chan Event, *nats.Subscription, error) {
	if !n.connected() {
		return nil, nil, ErrNotConnected
	}
	out := make(chan Event, 64)
	sub, err := n.conn.Subscribe(subject(sessionID), func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			n.log.WithError(err).Warn("dropping malformed event")
			return
		}
		select {
		case out <- ev:
		default:
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sub, nil
}

func (n *Notifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
