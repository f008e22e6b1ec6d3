package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

type LikeRequest struct {
	JournalID string `json:"journalId" validate:"required"`
	IDToken   string `json:"idToken" validate:"required"`
}

// likeInSync reports whether both sides already agree with the target state.
// A pair where only one side holds the relation is out of sync and gets forced.
func likeInSync(user *models.User, journal *models.Journal, liked bool) bool {
	return user.HasLiked(journal.ID) == liked && journal.IsLikedBy(user.ID) == liked
}

// Like adds the relation between the caller and the journal.
func (s *UserService) Like(ctx context.Context, req LikeRequest) (string, error) {
	return s.setLike(ctx, req, true)
}

// Unlike removes the relation. Unliking a pair that was never liked succeeds.
func (s *UserService) Unlike(ctx context.Context, req LikeRequest) (string, error) {
	return s.setLike(ctx, req, false)
}

func (s *UserService) setLike(ctx context.Context, req LikeRequest, liked bool) (string, error) {
	if err := check(req); err != nil {
		return "", err
	}

	subject, err := s.resolver.Subject(ctx, req.IDToken)
	if err != nil {
		return "", err
	}

	journalID, err := primitive.ObjectIDFromHex(req.JournalID)
	if err != nil {
		return "", dbError(err)
	}

	user, err := s.store.FindUser(ctx, subject)
	if err != nil {
		return "", dbError(err)
	}
	journal, err := s.store.FindJournal(ctx, journalID)
	if err != nil {
		return "", dbError(err)
	}
	if user == nil || journal == nil {
		return "", &PersistenceError{Message: MsgDatabaseError}
	}

	if likeInSync(user, journal, liked) {
		return req.JournalID, nil
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.SetUserLike(ctx, user.ID, journalID, liked); err != nil {
			return err
		}
		return s.store.SetJournalLike(ctx, journalID, user.ID, liked)
	})
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id":    user.ID,
			"journal_id": req.JournalID,
			"liked":      liked,
		}).Error("like transaction aborted")
		return "", dbError(err)
	}
	return req.JournalID, nil
}

// LikedJournals projects the caller's liked journals with author references
// stripped and PRIVATE journals left out, even ones the caller once liked.
func (s *UserService) LikedJournals(ctx context.Context, idToken string) ([]models.JournalView, error) {
	if idToken == "" {
		return nil, ErrInvalidRequest
	}

	subject, err := s.resolver.Subject(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUser(ctx, subject)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, &PersistenceError{Message: MsgDatabaseError}
	}

	journals, err := s.store.LikedJournals(ctx, user.ID)
	if err != nil {
		return nil, dbError(err)
	}

	visible := make([]models.Journal, 0, len(journals))
	for _, j := range journals {
		if j.Privacy != models.PrivacyPrivate {
			visible = append(visible, j)
		}
	}

	return project(visible, func(*models.Journal) models.ViewOptions { return models.StrippedView })
}
