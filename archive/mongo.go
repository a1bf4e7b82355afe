// Package archive persists ended rounds to mongo so results survive the
// session store's lifecycle.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/minnan-games/fjmahjong/mahjong"
	"github.com/minnan-games/fjmahjong/session"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("archive: round not found")

const collRounds = "rounds"

// WinnerRecord is the per-winner slice of an archived round.
type WinnerRecord struct {
	Seat  int32              `bson:"seat"`
	Tile  int32              `bson:"tile"`
	Score int64              `bson:"score"`
	Flags mahjong.ScoreFlags `bson:"flags"`
}

// RoundRecord is one ended session as stored.
type RoundRecord struct {
	ID           string         `bson:"_id"`
	Dealer       int32          `bson:"dealer"`
	DealerStreak int32          `bson:"dealer_streak"`
	GoldType     int32          `bson:"gold_type"`
	EndReason    string         `bson:"end_reason"`
	Winners      []WinnerRecord `bson:"winners"`
	Net          []int64        `bson:"net"`
	Actions      int            `bson:"actions"`
	EndedAt      time.Time      `bson:"ended_at"`
}

type Archiver struct {
	db  *mongo.Database
	log *logrus.Entry
}

func New(db *mongo.Database) *Archiver {
	return &Archiver{
		db:  db,
		log: logrus.WithField("component", "archive"),
	}
}

// Save stores an ended round. Saving twice for one session id upserts,
// so a retried archive after a partial failure stays safe.
func (a *Archiver) Save(ctx context.Context, s *session.Session) error {
	if s.Phase != session.PhaseEnded {
		return errors.New("archive: session has not ended")
	}
	rec := recordFromSession(s)
	filter := bson.M{"_id": rec.ID}
	update := bson.M{"$set": rec}
	_, err := a.db.Collection(collRounds).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		a.log.WithError(err).WithField("session", s.ID).Error("archive save failed")
	}
	return err
}

// Find loads one archived round by session id.
func (a *Archiver) Find(ctx context.Context, id string) (*RoundRecord, error) {
	var rec RoundRecord
	err := a.db.Collection(collRounds).FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns the latest archived rounds, newest first.
func (a *Archiver) Recent(ctx context.Context, limit int) ([]*RoundRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"ended_at": -1}).
		SetLimit(int64(limit))
	cursor, err := a.db.Collection(collRounds).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*RoundRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func recordFromSession(s *session.Session) *RoundRecord {
	winners := make([]WinnerRecord, 0, len(s.Winners))
	for _, w := range s.Winners {
		winners = append(winners, WinnerRecord{
			Seat:  w.Seat,
			Tile:  w.Tile.ToInt32(),
			Score: w.Breakdown.Total,
			Flags: w.Flags,
		})
	}
	return &RoundRecord{
		ID:           s.ID,
		Dealer:       s.Dealer,
		DealerStreak: s.DealerStreak,
		GoldType:     s.GoldType.ToInt32(),
		EndReason:    string(s.EndReason),
		Winners:      winners,
		Net:          s.Net,
		Actions:      len(s.History),
		EndedAt:      time.Now(),
	}
}
