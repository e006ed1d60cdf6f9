package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/pkg/apperrors"
)

func newLostFoundServiceForTest() (LostFoundService, *fakeLostFoundStore) {
	store := newFakeLostFoundStore()
	return NewLostFoundService(store, &fakeFileStore{}), store
}

func seedItem(store *fakeLostFoundStore, postedBy int64, status models.LostFoundStatus) *models.LostFoundItem {
	item := &models.LostFoundItem{
		Title:       "Black umbrella",
		Description: "Left near the library entrance.",
		Type:        models.LostFoundTypeFound,
		Category:    "accessories",
		Location:    "Library",
		PostedByID:  postedBy,
		Status:      status,
	}
	_, _ = store.CreateItem(context.Background(), item)
	return item
}

func TestCreateItem_StartsPending(t *testing.T) {
	svc, _ := newLostFoundServiceForTest()

	item, err := svc.CreateItem(context.Background(), Actor{ID: 3, Role: models.RoleStudent}, &dto.CreateLostFoundRequest{
		Title:       "Blue water bottle",
		Description: "Steel bottle with stickers on it.",
		Type:        "lost",
		Category:    "personal",
		Location:    "Canteen",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.LostFoundStatusPending, item.Status)
	assert.Equal(t, int64(3), item.PostedByID)
	assert.Nil(t, item.ClaimedByID)
}

func TestModerateItem_StaffOnlyAndOneShot(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	ctx := context.Background()
	item := seedItem(store, 3, models.LostFoundStatusPending)

	_, err := svc.ModerateItem(ctx, Actor{ID: 5, Role: models.RoleStudent}, item.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Faculty moderate the queue alongside admins.
	approved, err := svc.ModerateItem(ctx, Actor{ID: 2, Role: models.RoleFaculty}, item.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.LostFoundStatusApproved, approved.Status)

	_, err = svc.ModerateItem(ctx, Actor{ID: 1, Role: models.RoleAdmin}, item.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestClaimItem_OneShot(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	ctx := context.Background()
	item := seedItem(store, 3, models.LostFoundStatusApproved)

	claimed, err := svc.ClaimItem(ctx, Actor{ID: 5, Role: models.RoleStudent}, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LostFoundStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ClaimedByID)
	assert.Equal(t, int64(5), *claimed.ClaimedByID)

	// The second claimer loses and is told the item is gone. Staff are
	// claimants like anyone else, so an admin hits the same wall.
	_, err = svc.ClaimItem(ctx, Actor{ID: 1, Role: models.RoleAdmin}, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrItemClaimed)
}

func TestClaimItem_SelfClaimBlocked(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	item := seedItem(store, 3, models.LostFoundStatusApproved)

	_, err := svc.ClaimItem(context.Background(), Actor{ID: 3, Role: models.RoleStudent}, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfClaim)
}

func TestClaimItem_PendingNotClaimable(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	item := seedItem(store, 3, models.LostFoundStatusPending)

	_, err := svc.ClaimItem(context.Background(), Actor{ID: 5, Role: models.RoleStudent}, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrItemNotClaimable)
}

func TestGetAllItems_NonAdminsForcedToApproved(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	ctx := context.Background()
	seedItem(store, 3, models.LostFoundStatusPending)
	seedItem(store, 4, models.LostFoundStatusApproved)

	// A student asking for the pending queue still only gets approved posts.
	items, _, err := svc.GetAllItems(ctx, Actor{ID: 5, Role: models.RoleStudent}, &dto.LostFoundListQuery{Status: "pending", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.LostFoundStatusApproved, items[0].Status)

	pending, _, err := svc.GetAllItems(ctx, Actor{ID: 1, Role: models.RoleAdmin}, &dto.LostFoundListQuery{Status: "pending", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGetMyPosts_AnyStatus(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	ctx := context.Background()
	seedItem(store, 3, models.LostFoundStatusPending)
	seedItem(store, 3, models.LostFoundStatusRejected)
	seedItem(store, 4, models.LostFoundStatusApproved)

	mine, _, err := svc.GetMyPosts(ctx, Actor{ID: 3, Role: models.RoleStudent}, &dto.LostFoundListQuery{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestDeleteItem_OwnershipRules(t *testing.T) {
	svc, store := newLostFoundServiceForTest()
	ctx := context.Background()
	mine := seedItem(store, 3, models.LostFoundStatusApproved)
	theirs := seedItem(store, 7, models.LostFoundStatusApproved)

	err := svc.DeleteItem(ctx, Actor{ID: 3, Role: models.RoleStudent}, theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.DeleteItem(ctx, Actor{ID: 3, Role: models.RoleStudent}, mine.ID))
	require.NoError(t, svc.DeleteItem(ctx, Actor{ID: 1, Role: models.RoleAdmin}, theirs.ID))
}
