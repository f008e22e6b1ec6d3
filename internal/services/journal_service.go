package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

type JournalRequest struct {
	Title   string         `json:"title" validate:"required"`
	Date    string         `json:"date"`
	Image   string         `json:"image"`
	Weather string         `json:"weather"`
	Content string         `json:"content" validate:"required"`
	Privacy models.Privacy `json:"privacy" validate:"omitempty,oneof=PUBLIC ANONYMOUS PRIVATE"`
}

type PrivacyRequest struct {
	Privacy models.Privacy `json:"privacy" validate:"required,oneof=PUBLIC ANONYMOUS PRIVATE"`
}

type CommentRequest struct {
	Date      string `json:"date"`
	Content   string `json:"content" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

// JournalService serves the author's own journals, the explore feed and
// the comment thread of each journal.
type JournalService struct {
	store Store
}

func NewJournalService(store Store) *JournalService {
	return &JournalService{store: store}
}

var explorePrivacy = []models.Privacy{models.PrivacyPublic, models.PrivacyAnonymous}

// Explore lists PUBLIC and ANONYMOUS journals, newest first.
func (s *JournalService) Explore(ctx context.Context) ([]models.JournalView, error) {
	journals, err := s.store.ListJournals(ctx, "", explorePrivacy)
	if err != nil {
		return nil, dbError(err)
	}
	return project(journals, models.ExploreView)
}

// UserJournals lists everything the user wrote.
func (s *JournalService) UserJournals(ctx context.Context, userID string) ([]models.JournalView, error) {
	journals, err := s.store.ListJournals(ctx, userID, nil)
	if err != nil {
		return nil, dbError(err)
	}
	return project(journals, ownerView)
}

func (s *JournalService) Create(ctx context.Context, userID string, req JournalRequest) (*models.JournalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPrivate
	}

	now := time.Now().UTC()
	j := &models.Journal{
		AuthorID:  userID,
		Title:     req.Title,
		Date:      date,
		Image:     req.Image,
		Weather:   req.Weather,
		Content:   req.Content,
		Privacy:   privacy,
		LikedBy:   []string{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertJournal(ctx, j); err != nil {
		return nil, dbError(err)
	}
	return view(j, models.OwnerView)
}

// Edit replaces the content fields. Likes and comments are untouched.
func (s *JournalService) Edit(ctx context.Context, userID, journalID string, req JournalRequest) (*models.JournalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	j, err := s.authored(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	err = s.store.UpdateJournalContent(ctx, j.ID, models.JournalContent{
		Title:   req.Title,
		Date:    date,
		Image:   req.Image,
		Weather: req.Weather,
		Content: req.Content,
		Privacy: req.Privacy,
	})
	if err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, j.ID, ownerView)
}

func (s *JournalService) ChangePrivacy(ctx context.Context, userID, journalID string, req PrivacyRequest) (*models.JournalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	j, err := s.authored(ctx, userID, journalID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetJournalPrivacy(ctx, j.ID, req.Privacy); err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, j.ID, ownerView)
}

// Delete removes the journal and every like pointing at it in one transaction.
func (s *JournalService) Delete(ctx context.Context, userID, journalID string) error {
	j, err := s.authored(ctx, userID, journalID)
	if err != nil {
		return err
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteJournal(ctx, j.ID); err != nil {
			return err
		}
		return s.store.RemoveLikeEverywhere(ctx, j.ID)
	})
	if err != nil {
		logger.Log.WithError(err).WithField("journal_id", journalID).Error("delete journal aborted")
		return dbError(err)
	}
	return nil
}

// AddComment appends a comment. A PRIVATE journal is invisible to anyone
// but its author, so other commenters get not found.
func (s *JournalService) AddComment(ctx context.Context, journalID, commenterID string, req CommentRequest) (*models.JournalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	j, err := s.journal(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if j.Privacy == models.PrivacyPrivate && j.AuthorID != commenterID {
		return nil, ErrJournalNotFound
	}

	err = s.store.AddComment(ctx, j.ID, models.Comment{
		ID:        primitive.NewObjectID(),
		AuthorID:  commenterID,
		Date:      date,
		Content:   req.Content,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, j.ID, models.ExploreView)
}

func (s *JournalService) EditComment(ctx context.Context, journalID, commentID string, req CommentRequest) (*models.JournalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	j, idx, err := s.comment(ctx, journalID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateComment(ctx, j.ID, j.Comments[idx].ID, req.Content, req.Anonymous); err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, j.ID, models.ExploreView)
}

func (s *JournalService) DeleteComment(ctx context.Context, journalID, commentID string) (*models.JournalView, error) {
	j, idx, err := s.comment(ctx, journalID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteComment(ctx, j.ID, j.Comments[idx].ID); err != nil {
		return nil, dbError(err)
	}
	return s.reload(ctx, j.ID, models.ExploreView)
}

func (s *JournalService) journal(ctx context.Context, journalID string) (*models.Journal, error) {
	oid, err := primitive.ObjectIDFromHex(journalID)
	if err != nil {
		return nil, ErrJournalNotFound
	}
	j, err := s.store.FindJournal(ctx, oid)
	if err != nil {
		return nil, dbError(err)
	}
	if j == nil {
		return nil, ErrJournalNotFound
	}
	return j, nil
}

func (s *JournalService) authored(ctx context.Context, userID, journalID string) (*models.Journal, error) {
	j, err := s.journal(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if j.AuthorID != userID {
		return nil, ErrForbidden
	}
	return j, nil
}

func (s *JournalService) comment(ctx context.Context, journalID, commentID string) (*models.Journal, int, error) {
	j, err := s.journal(ctx, journalID)
	if err != nil {
		return nil, -1, err
	}
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, -1, ErrCommentNotFound
	}
	idx := j.FindComment(oid)
	if idx < 0 {
		return nil, -1, ErrCommentNotFound
	}
	return j, idx, nil
}

func ownerView(*models.Journal) models.ViewOptions { return models.OwnerView }

// reload reads the journal back after a targeted write so the response
// carries every field as stored, including likes committed meanwhile.
func (s *JournalService) reload(ctx context.Context, id primitive.ObjectID, opts func(*models.Journal) models.ViewOptions) (*models.JournalView, error) {
	j, err := s.store.FindJournal(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if j == nil {
		return nil, ErrJournalNotFound
	}
	return view(j, opts(j))
}

func view(j *models.Journal, opts models.ViewOptions) (*models.JournalView, error) {
	v, err := j.View(opts)
	if err != nil {
		return nil, dbError(err)
	}
	return &v, nil
}

func project(journals []models.Journal, opts func(*models.Journal) models.ViewOptions) ([]models.JournalView, error) {
	views, err := models.Views(journals, opts)
	if err != nil {
		return nil, dbError(err)
	}
	return views, nil
}
