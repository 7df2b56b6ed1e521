package service

import (
	"context"
	"errors"
	"testing"

	"legalinsight-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_RequiresAuthentication(t *testing.T) {
	svc := NewHistoryService(&fakeHistory{})

	_, err := svc.List(context.Background(), models.Session{SessionID: "anon"}, 10)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = svc.Delete(context.Background(), models.Session{}, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHistoryService_Unavailable(t *testing.T) {
	svc := NewHistoryService(nil)
	_, err := svc.List(context.Background(), models.Session{UserID: "u-1"}, 10)
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}

func TestHistoryService_ListAndDelete(t *testing.T) {
	store := &fakeHistory{}
	ctx := context.Background()
	mine := &models.QueryHistoryItem{UserID: "u-1", Query: "bail conditions"}
	theirs := &models.QueryHistoryItem{UserID: "u-2", Query: "divorce by mutual consent"}
	require.NoError(t, store.Create(ctx, mine))
	require.NoError(t, store.Create(ctx, theirs))

	svc := NewHistoryService(store)
	user := models.Session{UserID: "u-1"}

	items, err := svc.List(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bail conditions", items[0].Query)
	assert.Equal(t, defaultHistoryLimit, store.limit)

	_, err = svc.List(ctx, user, 10000)
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, store.limit)

	assert.ErrorIs(t, svc.Delete(ctx, user, theirs.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, user, mine.ID))
	assert.Equal(t, []uuid.UUID{mine.ID}, store.deleted)
}

func TestHistoryService_StoreError(t *testing.T) {
	store := &fakeHistory{err: errors.New("pool closed")}
	svc := NewHistoryService(store)

	_, err := svc.List(context.Background(), models.Session{UserID: "u-1"}, 5)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
