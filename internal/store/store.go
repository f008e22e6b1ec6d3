// Package store persists users and journals in MongoDB.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	usersCollection    = "users"
	journalsCollection = "journals"
)

// Store is the Mongo-backed implementation of the service persistence interfaces.
// Methods take the context they are given; inside WithTransaction that context
// carries the session, so the writes join the transaction.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	journals *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		users:    db.Collection(usersCollection),
		journals: db.Collection(journalsCollection),
	}
}

// EnsureIndexes creates the secondary indexes the queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_author_date"),
		},
		{
			Keys:    bson.D{{Key: "privacy", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_privacy_date"),
		},
	}
	if _, err := s.journals.Indexes().CreateMany(ctx, models); err != nil {
		return errors.Wrap(err, "create journal indexes")
	}

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "likes", Value: 1}},
		Options: options.Index().SetName("idx_likes"),
	})
	return errors.Wrap(err, "create user indexes")
}

// WithTransaction runs fn inside a single transaction. The transaction is
// committed only if fn returns nil; otherwise it is aborted. Ending the
// session aborts a transaction left open by a panic in fn. There is no
// automatic retry.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer sess.EndSession(context.Background())

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(txnOpts); err != nil {
			return errors.Wrap(err, "start transaction")
		}
		if err := fn(sc); err != nil {
			if abortErr := sess.AbortTransaction(context.Background()); abortErr != nil {
				return errors.Wrapf(err, "abort failed (%v)", abortErr)
			}
			return err
		}
		return errors.Wrap(sess.CommitTransaction(sc), "commit transaction")
	})
}
