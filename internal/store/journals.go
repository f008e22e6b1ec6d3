package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/journal-backend/internal/models"
)

// FindJournal returns (nil, nil) when the journal does not exist.
func (s *Store) FindJournal(ctx context.Context, id primitive.ObjectID) (*models.Journal, error) {
	var j models.Journal
	err := s.journals.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find journal "+id.Hex())
	}
	return &j, nil
}

// ListJournals returns journals newest first. An empty authorID matches any
// author; an empty privacy list matches any privacy.
func (s *Store) ListJournals(ctx context.Context, authorID string, privacy []models.Privacy) ([]models.Journal, error) {
	filter := bson.M{}
	if authorID != "" {
		filter["author_id"] = authorID
	}
	if len(privacy) > 0 {
		filter["privacy"] = bson.M{"$in": privacy}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.journals.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list journals")
	}
	defer cur.Close(ctx)

	journals := []models.Journal{}
	if err := cur.All(ctx, &journals); err != nil {
		return nil, errors.Wrap(err, "decode journals")
	}
	return journals, nil
}

func (s *Store) InsertJournal(ctx context.Context, j *models.Journal) error {
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	_, err := s.journals.InsertOne(ctx, j)
	return errors.Wrap(err, "insert journal")
}

// UpdateJournalContent sets the author-editable fields. An empty privacy
// keeps the current one. likedby and comments are never written here.
func (s *Store) UpdateJournalContent(ctx context.Context, id primitive.ObjectID, c models.JournalContent) error {
	set := bson.M{
		"title":      c.Title,
		"date":       c.Date,
		"image":      c.Image,
		"weather":    c.Weather,
		"content":    c.Content,
		"updated_at": time.Now().UTC(),
	}
	if c.Privacy != "" {
		set["privacy"] = c.Privacy
	}
	return s.updateJournal(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (s *Store) SetJournalPrivacy(ctx context.Context, id primitive.ObjectID, privacy models.Privacy) error {
	return s.updateJournal(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"privacy": privacy, "updated_at": time.Now().UTC()},
	})
}

// AddComment appends c to the journal's comment list.
func (s *Store) AddComment(ctx context.Context, journalID primitive.ObjectID, c models.Comment) error {
	return s.updateJournal(ctx, bson.M{"_id": journalID}, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

// UpdateComment rewrites one comment in place and marks it edited.
func (s *Store) UpdateComment(ctx context.Context, journalID, commentID primitive.ObjectID, content string, anonymous bool) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"c._id": commentID}},
	})
	return s.updateJournal(ctx,
		bson.M{"_id": journalID, "comments._id": commentID},
		bson.M{"$set": bson.M{
			"comments.$[c].content":   content,
			"comments.$[c].anonymous": anonymous,
			"comments.$[c].edited":    true,
			"updated_at":              time.Now().UTC(),
		}},
		opts,
	)
}

func (s *Store) DeleteComment(ctx context.Context, journalID, commentID primitive.ObjectID) error {
	return s.updateJournal(ctx,
		bson.M{"_id": journalID, "comments._id": commentID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
}

// updateJournal runs a single targeted update. No match means the journal
// (or the comment the filter names) is gone.
func (s *Store) updateJournal(ctx context.Context, filter, update bson.M, opts ...*options.UpdateOptions) error {
	res, err := s.journals.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return errors.Wrap(err, "update journal")
	}
	if res.MatchedCount == 0 {
		return errors.New("journal vanished")
	}
	return nil
}

func (s *Store) DeleteJournal(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.journals.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "delete journal "+id.Hex())
}

// SetJournalLike adds or removes userID in the journal's likedby set.
func (s *Store) SetJournalLike(ctx context.Context, journalID primitive.ObjectID, userID string, liked bool) error {
	op := "$pull"
	if liked {
		op = "$addToSet"
	}
	res, err := s.journals.UpdateOne(ctx, bson.M{"_id": journalID}, bson.M{op: bson.M{"likedby": userID}})
	if err != nil {
		return errors.Wrap(err, "update likedby of journal "+journalID.Hex())
	}
	if res.MatchedCount == 0 {
		return errors.New("journal vanished: " + journalID.Hex())
	}
	return nil
}
