package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journal-backend/internal/identity"
	"github.com/AnshRaj112/journal-backend/internal/models"
)

func likeFixture(t *testing.T) (*UserService, *memStore, primitive.ObjectID) {
	t.Helper()
	m := newMemStore()
	m.addUser("uid-1")
	jid := m.addJournal("author", models.PrivacyPublic)
	return newUserService(&fakeProvider{}, m), m, jid
}

func assertRelation(t *testing.T, m *memStore, uid string, jid primitive.ObjectID, want bool) {
	t.Helper()
	u := m.user(uid)
	j := m.journal(jid)
	assert.Equal(t, want, u.HasLiked(jid), "user side")
	assert.Equal(t, want, j.IsLikedBy(uid), "journal side")
}

func TestLikeSetsBothSides(t *testing.T) {
	svc, m, jid := likeFixture(t)

	id, err := svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, jid.Hex(), id)
	assertRelation(t, m, "uid-1", jid, true)
	assert.Equal(t, 1, m.txCommits)
}

func TestLikeTwiceIsNoOp(t *testing.T) {
	svc, m, jid := likeFixture(t)
	req := LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"}

	_, err := svc.Like(context.Background(), req)
	require.NoError(t, err)
	writes := m.writes

	id, err := svc.Like(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, jid.Hex(), id)
	assert.Equal(t, writes, m.writes)
	assert.Equal(t, 1, m.txCommits)
	assertRelation(t, m, "uid-1", jid, true)
}

func TestUnlikeNeverLikedIsNoOp(t *testing.T) {
	svc, m, jid := likeFixture(t)

	id, err := svc.Unlike(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, jid.Hex(), id)
	assert.Equal(t, 0, m.writes)
	assert.Equal(t, 0, m.txCommits)
}

func TestLikeThenUnlike(t *testing.T) {
	svc, m, jid := likeFixture(t)
	req := LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"}

	_, err := svc.Like(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Unlike(context.Background(), req)
	require.NoError(t, err)
	assertRelation(t, m, "uid-1", jid, false)
}

func TestLikeRepairsHalfSyncedPair(t *testing.T) {
	svc, m, jid := likeFixture(t)
	j := m.journals[jid]
	j.LikedBy = []string{"uid-1"}
	m.journals[jid] = j

	_, err := svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"})
	require.NoError(t, err)
	assertRelation(t, m, "uid-1", jid, true)
	assert.Len(t, m.journal(jid).LikedBy, 1)

	u := m.users["uid-1"]
	u.Likes = []primitive.ObjectID{}
	m.users["uid-1"] = u
	_, err = svc.Unlike(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"})
	require.NoError(t, err)
	assertRelation(t, m, "uid-1", jid, false)
}

func TestLikeSecondWriteFailureRollsBack(t *testing.T) {
	svc, m, jid := likeFixture(t)
	m.failOn = "SetJournalLike"

	_, err := svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"})
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, MsgDatabaseError, perr.Message)
	assert.Equal(t, 1, m.txAborts)
	assertRelation(t, m, "uid-1", jid, false)
}

func TestUnlikeSecondWriteFailureRollsBack(t *testing.T) {
	svc, m, jid := likeFixture(t)
	req := LikeRequest{JournalID: jid.Hex(), IDToken: "tok-1"}
	_, err := svc.Like(context.Background(), req)
	require.NoError(t, err)

	m.failOn = "SetJournalLike"
	_, err = svc.Unlike(context.Background(), req)
	require.Error(t, err)
	assertRelation(t, m, "uid-1", jid, true)
}

func TestLikeFailures(t *testing.T) {
	svc, m, jid := likeFixture(t)
	resolver := svc.resolver.(*tokenResolver)

	_, err := svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex()})
	assert.Equal(t, ErrInvalidRequest, err)
	assert.Equal(t, 0, resolver.calls)

	_, err = svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "unknown"})
	var idErr *identity.Error
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, identity.CodeInvalidIDToken, idErr.Message)

	cases := map[string]string{
		"malformed journal id": "not-an-object-id",
		"missing journal":      primitive.NewObjectID().Hex(),
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Like(context.Background(), LikeRequest{JournalID: id, IDToken: "tok-1"})
			var perr *PersistenceError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, MsgDatabaseError, perr.Message)
		})
	}

	resolver.subjects["tok-ghost"] = "ghost"
	_, err = svc.Like(context.Background(), LikeRequest{JournalID: jid.Hex(), IDToken: "tok-ghost"})
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr), "users are not created at like time")
	_, ok := m.users["ghost"]
	assert.False(t, ok)
}

func TestLikedJournalsHidesPrivate(t *testing.T) {
	svc, m, public := likeFixture(t)
	private := m.addJournal("author", models.PrivacyPrivate)
	anonymous := m.addJournal("author", models.PrivacyAnonymous)

	j := m.journals[public]
	j.Comments = []models.Comment{{ID: primitive.NewObjectID(), AuthorID: "commenter", Content: "hi"}}
	m.journals[public] = j

	for _, id := range []primitive.ObjectID{public, private, anonymous} {
		_, err := svc.Like(context.Background(), LikeRequest{JournalID: id.Hex(), IDToken: "tok-1"})
		require.NoError(t, err)
	}

	views, err := svc.LikedJournals(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotEqual(t, models.PrivacyPrivate, v.Privacy)
		assert.Empty(t, v.AuthorID)
		assert.Equal(t, 1, v.LikesNum)
		for _, c := range v.Comments {
			assert.Empty(t, c.AuthorID)
		}
	}
}

func TestLikedJournalsMissingUser(t *testing.T) {
	m := newMemStore()
	svc := newUserService(&fakeProvider{}, m)

	_, err := svc.LikedJournals(context.Background(), "tok-1")
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))

	_, err = svc.LikedJournals(context.Background(), "")
	assert.Equal(t, ErrInvalidRequest, err)
}
