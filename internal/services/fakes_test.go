package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journal-backend/internal/identity"
	"github.com/AnshRaj112/journal-backend/internal/models"
)

var errInjected = errors.New("injected write failure")

// memStore keeps documents in maps. WithTransaction snapshots both maps and
// restores them when fn fails, which is what a real abort looks like from
// outside the transaction.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	journals map[primitive.ObjectID]models.Journal

	// failOn names a write method that returns errInjected.
	failOn string
	// findErr makes every read fail.
	findErr error

	txCommits int
	txAborts  int
	writes    int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		journals: map[primitive.ObjectID]models.Journal{},
	}
}

func (m *memStore) addUser(id string) *models.User {
	u := models.NewUser(id, "name-"+id, id+"@test.com")
	m.users[id] = *u
	return u
}

func (m *memStore) addJournal(author string, privacy models.Privacy) primitive.ObjectID {
	id := primitive.NewObjectID()
	m.journals[id] = models.Journal{
		ID:       id,
		AuthorID: author,
		Title:    "journal " + id.Hex(),
		Privacy:  privacy,
		LikedBy:  []string{},
		Comments: []models.Comment{},
	}
	return id
}

func (m *memStore) user(id string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

func (m *memStore) journal(id primitive.ObjectID) models.Journal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.journals[id]
}

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return errInjected
	}
	return nil
}

func (m *memStore) FindUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u.Likes = append([]primitive.ObjectID{}, u.Likes...)
	return &u, nil
}

func (m *memStore) InsertUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertUser"); err != nil {
		return err
	}
	if _, ok := m.users[user.ID]; ok {
		return errors.New("duplicate key")
	}
	m.writes++
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) SetUserLike(_ context.Context, userID string, journalID primitive.ObjectID, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetUserLike"); err != nil {
		return err
	}
	u, ok := m.users[userID]
	if !ok {
		return errors.New("user vanished")
	}
	likes := []primitive.ObjectID{}
	for _, id := range u.Likes {
		if id != journalID {
			likes = append(likes, id)
		}
	}
	if liked {
		likes = append(likes, journalID)
	}
	u.Likes = likes
	m.users[userID] = u
	m.writes++
	return nil
}

func (m *memStore) RemoveLikeEverywhere(_ context.Context, journalID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RemoveLikeEverywhere"); err != nil {
		return err
	}
	for id, u := range m.users {
		likes := []primitive.ObjectID{}
		for _, l := range u.Likes {
			if l != journalID {
				likes = append(likes, l)
			}
		}
		u.Likes = likes
		m.users[id] = u
	}
	m.writes++
	return nil
}

func (m *memStore) LikedJournals(_ context.Context, userID string) ([]models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	out := []models.Journal{}
	for _, id := range u.Likes {
		if j, ok := m.journals[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) FindJournal(_ context.Context, id primitive.ObjectID) (*models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	j, ok := m.journals[id]
	if !ok {
		return nil, nil
	}
	j.LikedBy = append([]string{}, j.LikedBy...)
	j.Comments = append([]models.Comment{}, j.Comments...)
	return &j, nil
}

func (m *memStore) ListJournals(_ context.Context, authorID string, privacy []models.Privacy) ([]models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := []models.Journal{}
	for _, j := range m.journals {
		if authorID != "" && j.AuthorID != authorID {
			continue
		}
		if len(privacy) > 0 && !containsPrivacy(privacy, j.Privacy) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.After(out[b].Date) })
	return out, nil
}

func containsPrivacy(list []models.Privacy, p models.Privacy) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

func (m *memStore) InsertJournal(_ context.Context, j *models.Journal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertJournal"); err != nil {
		return err
	}
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	m.journals[j.ID] = *j
	m.writes++
	return nil
}

// updateJournal applies fn to a stored journal, touching only what fn sets.
func (m *memStore) updateJournal(op string, id primitive.ObjectID, fn func(j *models.Journal) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(op); err != nil {
		return err
	}
	j, ok := m.journals[id]
	if !ok || !fn(&j) {
		return errors.New("journal vanished")
	}
	j.UpdatedAt = time.Now().UTC()
	m.journals[id] = j
	m.writes++
	return nil
}

func (m *memStore) UpdateJournalContent(_ context.Context, id primitive.ObjectID, c models.JournalContent) error {
	return m.updateJournal("UpdateJournalContent", id, func(j *models.Journal) bool {
		j.Title, j.Date, j.Image, j.Weather, j.Content = c.Title, c.Date, c.Image, c.Weather, c.Content
		if c.Privacy != "" {
			j.Privacy = c.Privacy
		}
		return true
	})
}

func (m *memStore) SetJournalPrivacy(_ context.Context, id primitive.ObjectID, privacy models.Privacy) error {
	return m.updateJournal("SetJournalPrivacy", id, func(j *models.Journal) bool {
		j.Privacy = privacy
		return true
	})
}

func (m *memStore) AddComment(_ context.Context, journalID primitive.ObjectID, c models.Comment) error {
	return m.updateJournal("AddComment", journalID, func(j *models.Journal) bool {
		j.Comments = append(append([]models.Comment{}, j.Comments...), c)
		return true
	})
}

func (m *memStore) UpdateComment(_ context.Context, journalID, commentID primitive.ObjectID, content string, anonymous bool) error {
	return m.updateJournal("UpdateComment", journalID, func(j *models.Journal) bool {
		comments := append([]models.Comment{}, j.Comments...)
		for i := range comments {
			if comments[i].ID == commentID {
				comments[i].Content = content
				comments[i].Anonymous = anonymous
				comments[i].Edited = true
				j.Comments = comments
				return true
			}
		}
		return false
	})
}

func (m *memStore) DeleteComment(_ context.Context, journalID, commentID primitive.ObjectID) error {
	return m.updateJournal("DeleteComment", journalID, func(j *models.Journal) bool {
		comments := []models.Comment{}
		for _, c := range j.Comments {
			if c.ID != commentID {
				comments = append(comments, c)
			}
		}
		if len(comments) == len(j.Comments) {
			return false
		}
		j.Comments = comments
		return true
	})
}

func (m *memStore) DeleteJournal(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteJournal"); err != nil {
		return err
	}
	delete(m.journals, id)
	m.writes++
	return nil
}

func (m *memStore) SetJournalLike(_ context.Context, journalID primitive.ObjectID, userID string, liked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetJournalLike"); err != nil {
		return err
	}
	j, ok := m.journals[journalID]
	if !ok {
		return errors.New("journal vanished")
	}
	by := []string{}
	for _, id := range j.LikedBy {
		if id != userID {
			by = append(by, id)
		}
	}
	if liked {
		by = append(by, userID)
	}
	j.LikedBy = by
	m.journals[journalID] = j
	m.writes++
	return nil
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	users := make(map[string]models.User, len(m.users))
	for k, v := range m.users {
		users[k] = v
	}
	journals := make(map[primitive.ObjectID]models.Journal, len(m.journals))
	for k, v := range m.journals {
		journals[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.users, m.journals = users, journals
		m.txAborts++
		m.mu.Unlock()
		return err
	}
	m.mu.Lock()
	m.txCommits++
	m.mu.Unlock()
	return nil
}

// fakeProvider answers every call from its fields and counts calls.
type fakeProvider struct {
	tokens  *identity.Tokens
	account *identity.Account
	err     error
	calls   int
}

func (p *fakeProvider) answer() (*identity.Tokens, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.tokens, nil
}

func (p *fakeProvider) SignUp(context.Context, string, string) (*identity.Tokens, error) {
	return p.answer()
}

func (p *fakeProvider) SignIn(context.Context, string, string) (*identity.Tokens, error) {
	return p.answer()
}

func (p *fakeProvider) Refresh(context.Context, string, string) (*identity.Tokens, error) {
	return p.answer()
}

func (p *fakeProvider) UpdatePassword(context.Context, string, string) (*identity.Tokens, error) {
	return p.answer()
}

func (p *fakeProvider) Lookup(context.Context, string) (*identity.Account, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.account, nil
}

// tokenResolver maps tokens to subjects; unknown tokens are rejected.
type tokenResolver struct {
	subjects map[string]string
	err      error
	calls    int
}

func (r *tokenResolver) Subject(_ context.Context, idToken string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	s, ok := r.subjects[idToken]
	if !ok {
		return "", &identity.Error{Kind: identity.KindRejected, Message: identity.CodeInvalidIDToken}
	}
	return s, nil
}
