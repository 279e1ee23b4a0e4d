package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdir/internal/repos"
)

func TestLoginAndVerify(t *testing.T) {
	db := memdb(t)
	svc := NewAuthService(repos.NewUserRepo(db), "test-secret")

	token, err := svc.Login("9000000001", "Passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-demo", userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := memdb(t)
	svc := NewAuthService(repos.NewUserRepo(db), "test-secret")

	_, err := svc.Login("9000000001", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCreds)

	_, err = svc.Login("0000000000", "Passw0rd!")
	assert.ErrorIs(t, err, ErrBadCreds)
}

func TestVerifyTokenRejectsGarbageAndForeignSecrets(t *testing.T) {
	db := memdb(t)
	svc := NewAuthService(repos.NewUserRepo(db), "test-secret")

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrBadCreds)

	other := NewAuthService(repos.NewUserRepo(db), "different-secret")
	token, err := other.Login("9000000001", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrBadCreds)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	db := memdb(t)
	svc := NewAuthService(repos.NewUserRepo(db), "test-secret")
	svc.TTL = -time.Minute

	token, err := svc.Login("9000000001", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrBadCreds)
}

func TestMediaServiceRegisterAndDelete(t *testing.T) {
	db := memdb(t)
	store := newMemStore()
	assetSvc := NewAssetService(store, "http://api.test", "secret", 5*time.Minute)
	svc := NewMediaService(repos.NewMediaRepo(db), repos.NewProfileRepo(db), assetSvc)

	store.blobs["media/new.jpg"] = []byte("blob")

	item, err := svc.Register("p-demo", "media/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image", item.Type)
	assert.NotEmpty(t, item.ID)

	clip, err := svc.Register("p-demo", "media/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "video", clip.Type, "media type follows the asset extension")

	_, err = svc.Register("no-such-biz", "media/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "p-demo", item.ID))
	assert.NotContains(t, store.blobs, "media/new.jpg", "the stored blob is cleaned up with the row")

	err = svc.Delete(context.Background(), "p-demo", item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.Media.ListByProfile("p-demo")
	require.NoError(t, err)
	for _, m := range list {
		assert.NotEqual(t, item.ID, m.ID)
	}
}
