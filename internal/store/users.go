package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/journal-backend/internal/models"
)

// FindUser returns (nil, nil) when no user has that subject id.
func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user "+id)
	}
	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	return errors.Wrap(err, "insert user "+user.ID)
}

// SetUserLike adds or removes journalID in the user's likes set.
func (s *Store) SetUserLike(ctx context.Context, userID string, journalID primitive.ObjectID, liked bool) error {
	op := "$pull"
	if liked {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"likes": journalID},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return errors.Wrap(err, "update likes of user "+userID)
	}
	if res.MatchedCount == 0 {
		return errors.New("user vanished: " + userID)
	}
	return nil
}

// RemoveLikeEverywhere pulls journalID from every user's likes.
func (s *Store) RemoveLikeEverywhere(ctx context.Context, journalID primitive.ObjectID) error {
	_, err := s.users.UpdateMany(ctx,
		bson.M{"likes": journalID},
		bson.M{"$pull": bson.M{"likes": journalID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	return errors.Wrap(err, "remove like of journal "+journalID.Hex())
}

// LikedJournals expands the user's likes to journal documents. It returns
// (nil, nil) when the user does not exist. Dangling references are skipped.
func (s *Store) LikedJournals(ctx context.Context, userID string) ([]models.Journal, error) {
	user, err := s.FindUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	journals := []models.Journal{}
	if len(user.Likes) == 0 {
		return journals, nil
	}

	cur, err := s.journals.Find(ctx, bson.M{"_id": bson.M{"$in": user.Likes}})
	if err != nil {
		return nil, errors.Wrap(err, "find liked journals")
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, &journals); err != nil {
		return nil, errors.Wrap(err, "decode liked journals")
	}
	return orderByIDs(journals, user.Likes), nil
}

// orderByIDs returns journals in the order of ids, like a populate would.
func orderByIDs(journals []models.Journal, ids []primitive.ObjectID) []models.Journal {
	byID := make(map[primitive.ObjectID]models.Journal, len(journals))
	for _, j := range journals {
		byID[j.ID] = j
	}
	out := make([]models.Journal, 0, len(journals))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			out = append(out, j)
			delete(byID, id)
		}
	}
	return out
}
