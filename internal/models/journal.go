package models

import (
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privacy controls where a journal is listed.
type Privacy string

const (
	PrivacyPublic    Privacy = "PUBLIC"
	PrivacyAnonymous Privacy = "ANONYMOUS"
	PrivacyPrivate   Privacy = "PRIVATE"
)

// Valid reports whether p is one of the three known tiers.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyAnonymous, PrivacyPrivate:
		return true
	}
	return false
}

// Journal is a journaling entry. LikedBy holds subject ids and mirrors User.Likes.
type Journal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AuthorID  string             `bson:"author_id" json:"author_id"`
	Title     string             `bson:"title" json:"title"`
	Date      time.Time          `bson:"date" json:"date"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Weather   string             `bson:"weather,omitempty" json:"weather,omitempty"`
	Content   string             `bson:"content" json:"content"`
	Privacy   Privacy            `bson:"privacy" json:"privacy"`
	LikedBy   []string           `bson:"likedby" json:"likedby"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// JournalContent is what an author may change on a journal.
type JournalContent struct {
	Title   string
	Date    time.Time
	Image   string
	Weather string
	Content string
	Privacy Privacy
}

// Comment is embedded in its journal and lives and dies with it.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	AuthorID  string             `bson:"author_id" json:"author_id"`
	Date      time.Time          `bson:"date" json:"date"`
	Content   string             `bson:"content" json:"content"`
	Anonymous bool               `bson:"anonymous" json:"anonymous"`
	Edited    bool               `bson:"edited" json:"edited"`
}

// IsLikedBy reports whether userID is in the journal's likedby set.
func (j *Journal) IsLikedBy(userID string) bool {
	for _, id := range j.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the index of the comment or -1.
func (j *Journal) FindComment(commentID primitive.ObjectID) int {
	for i := range j.Comments {
		if j.Comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

// JournalView is the outward shape of a journal: the raw likedby list is
// replaced by its count and author ids are present only when allowed.
type JournalView struct {
	ID        primitive.ObjectID `json:"_id"`
	AuthorID  string             `json:"author_id,omitempty"`
	Title     string             `json:"title"`
	Date      time.Time          `json:"date"`
	Image     string             `json:"image,omitempty"`
	Weather   string             `json:"weather,omitempty"`
	Content   string             `json:"content"`
	Privacy   Privacy            `json:"privacy"`
	LikesNum  int                `json:"likesNum"`
	Comments  []CommentView      `json:"comments"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type CommentView struct {
	ID        primitive.ObjectID `json:"_id"`
	AuthorID  string             `json:"author_id,omitempty"`
	Date      time.Time          `json:"date"`
	Content   string             `json:"content"`
	Anonymous bool               `json:"anonymous"`
	Edited    bool               `json:"edited"`
}

// ViewOptions select which author references survive projection.
// Anonymous comments never expose their author.
type ViewOptions struct {
	ShowAuthor     bool
	ShowCommenters bool
}

var (
	// OwnerView is what an author sees of their own journals.
	OwnerView = ViewOptions{ShowAuthor: true, ShowCommenters: true}
	// StrippedView drops every author reference.
	StrippedView = ViewOptions{}
)

// ExploreView shows the author of PUBLIC journals only.
func ExploreView(j *Journal) ViewOptions {
	return ViewOptions{ShowAuthor: j.Privacy == PrivacyPublic, ShowCommenters: true}
}

// View projects the journal.
func (j *Journal) View(opts ViewOptions) (JournalView, error) {
	var v JournalView
	if err := copier.Copy(&v, j); err != nil {
		return JournalView{}, err
	}
	v.LikesNum = len(j.LikedBy)
	if !opts.ShowAuthor {
		v.AuthorID = ""
	}

	v.Comments = make([]CommentView, 0, len(j.Comments))
	for _, c := range j.Comments {
		cv := CommentView{
			ID:        c.ID,
			Date:      c.Date,
			Content:   c.Content,
			Anonymous: c.Anonymous,
			Edited:    c.Edited,
		}
		if opts.ShowCommenters && !c.Anonymous {
			cv.AuthorID = c.AuthorID
		}
		v.Comments = append(v.Comments, cv)
	}
	return v, nil
}

// Views projects a list, deciding options per journal.
func Views(journals []Journal, opts func(*Journal) ViewOptions) ([]JournalView, error) {
	out := make([]JournalView, 0, len(journals))
	for i := range journals {
		v, err := journals[i].View(opts(&journals[i]))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
