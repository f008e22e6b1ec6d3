package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journal-backend/internal/models"
)

// Find methods return (nil, nil) for a missing document. Journal writes are
// targeted updates: none of them rewrites likedby, which only the like
// transaction and SetJournalLike touch.

type UserStore interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	SetUserLike(ctx context.Context, userID string, journalID primitive.ObjectID, liked bool) error
	RemoveLikeEverywhere(ctx context.Context, journalID primitive.ObjectID) error
	LikedJournals(ctx context.Context, userID string) ([]models.Journal, error)
}

type JournalStore interface {
	FindJournal(ctx context.Context, id primitive.ObjectID) (*models.Journal, error)
	ListJournals(ctx context.Context, authorID string, privacy []models.Privacy) ([]models.Journal, error)
	InsertJournal(ctx context.Context, j *models.Journal) error
	UpdateJournalContent(ctx context.Context, id primitive.ObjectID, c models.JournalContent) error
	SetJournalPrivacy(ctx context.Context, id primitive.ObjectID, privacy models.Privacy) error
	AddComment(ctx context.Context, journalID primitive.ObjectID, c models.Comment) error
	UpdateComment(ctx context.Context, journalID, commentID primitive.ObjectID, content string, anonymous bool) error
	DeleteComment(ctx context.Context, journalID, commentID primitive.ObjectID) error
	DeleteJournal(ctx context.Context, id primitive.ObjectID) error
	SetJournalLike(ctx context.Context, journalID primitive.ObjectID, userID string, liked bool) error
}

// Transactor runs fn atomically: every write made through the context passed
// to fn commits together, or none does.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store interface {
	UserStore
	JournalStore
	Transactor
}
