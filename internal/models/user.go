package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceholderName is given to users created lazily at login, when the
// identity provider knows the account but the users collection does not.
const PlaceholderName = "Please update your name"

// User is keyed by the identity provider's subject id.
type User struct {
	ID        string               `bson:"_id" json:"_id,omitempty"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// NewUser returns a user with an empty (non-nil) likes set.
func NewUser(id, name, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Likes:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasLiked reports whether journalID is in the user's likes.
func (u *User) HasLiked(journalID primitive.ObjectID) bool {
	for _, id := range u.Likes {
		if id == journalID {
			return true
		}
	}
	return false
}

// Public returns a copy without the subject id, as served by the non-secure routes.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.ID = ""
	if c.Likes == nil {
		c.Likes = []primitive.ObjectID{}
	}
	return &c
}

// Profile is the userData block of the token envelope.
type Profile struct {
	Name  string               `json:"name"`
	Email string               `json:"email"`
	Likes []primitive.ObjectID `json:"likes"`
}

func (u *User) Profile() *Profile {
	likes := u.Likes
	if likes == nil {
		likes = []primitive.ObjectID{}
	}
	return &Profile{Name: u.Name, Email: u.Email, Likes: likes}
}
