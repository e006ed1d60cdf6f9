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

func seedNotice(store *fakeNoticeStore, authorID int64, pinned bool) *models.Notice {
	notice := &models.Notice{
		Title:    "Semester exam schedule",
		Content:  "The schedule is attached to this notice.",
		Category: models.NoticeCategoryExam,
		Status:   models.NoticeStatusPublished,
		AuthorID: authorID,
		IsPinned: pinned,
	}
	_, _ = store.CreateNotice(context.Background(), notice)
	return notice
}

func TestCreateNotice_StudentForbidden(t *testing.T) {
	svc := NewNoticeService(newFakeNoticeStore(), &fakeFileStore{})

	_, err := svc.CreateNotice(context.Background(), Actor{ID: 1, Role: models.RoleStudent}, &dto.CreateNoticeRequest{
		Title: "Lab timings", Content: "Labs open at nine.", Category: "notice",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateNotice_OnlyAdminPinSticks(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	ctx := context.Background()

	byFaculty, err := svc.CreateNotice(ctx, Actor{ID: 2, Role: models.RoleFaculty}, &dto.CreateNoticeRequest{
		Title: "Guest lecture", Content: "Hall B at noon on Friday.", Category: "event", IsPinned: true,
	}, nil)
	require.NoError(t, err)
	assert.False(t, byFaculty.IsPinned)
	assert.Equal(t, models.NoticeStatusPublished, byFaculty.Status)

	byAdmin, err := svc.CreateNotice(ctx, Actor{ID: 1, Role: models.RoleAdmin}, &dto.CreateNoticeRequest{
		Title: "Holiday notice", Content: "Campus closed on Monday.", Category: "holiday", IsPinned: true,
	}, nil)
	require.NoError(t, err)
	assert.True(t, byAdmin.IsPinned)
}

func TestUpdateNotice_FacultyEditAwaitsApproval(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	notice := seedNotice(store, 1, true)

	newTitle := "Updated exam schedule"
	pin := true
	updated, err := svc.UpdateNotice(context.Background(), Actor{ID: 2, Role: models.RoleFaculty}, notice.ID, &dto.UpdateNoticeRequest{
		Title:    &newTitle,
		IsPinned: &pin,
	})

	require.NoError(t, err)
	assert.Equal(t, "Updated exam schedule", updated.Title)
	assert.Equal(t, models.NoticeStatusPendingApproval, updated.Status)
	assert.True(t, updated.EditedByFaculty)
	// A faculty edit always unpins, whatever the request asked for.
	assert.False(t, updated.IsPinned)
}

func TestUpdateNotice_AdminEditPublishesAndPins(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	notice := seedNotice(store, 2, false)
	notice.Status = models.NoticeStatusPendingApproval
	store.notices[notice.ID].Status = models.NoticeStatusPendingApproval

	pin := true
	updated, err := svc.UpdateNotice(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, notice.ID, &dto.UpdateNoticeRequest{
		IsPinned: &pin,
	})

	require.NoError(t, err)
	assert.Equal(t, models.NoticeStatusPublished, updated.Status)
	assert.False(t, updated.EditedByFaculty)
	assert.True(t, updated.IsPinned)
}

func TestUpdateNotice_StudentForbidden(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	notice := seedNotice(store, 1, false)

	title := "Hijacked"
	_, err := svc.UpdateNotice(context.Background(), Actor{ID: 3, Role: models.RoleStudent}, notice.ID, &dto.UpdateNoticeRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDeleteNotice_OwnershipRules(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	ctx := context.Background()
	mine := seedNotice(store, 2, false)
	theirs := seedNotice(store, 7, false)

	err := svc.DeleteNotice(ctx, Actor{ID: 2, Role: models.RoleFaculty}, theirs.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.DeleteNotice(ctx, Actor{ID: 2, Role: models.RoleFaculty}, mine.ID))
	require.NoError(t, svc.DeleteNotice(ctx, Actor{ID: 1, Role: models.RoleAdmin}, theirs.ID))

	_, err = svc.GetNoticeByID(ctx, mine.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoticeNotFound)
}

func TestGetAllNotices_PendingHiddenFromNonAdmins(t *testing.T) {
	store := newFakeNoticeStore()
	svc := NewNoticeService(store, &fakeFileStore{})
	ctx := context.Background()
	seedNotice(store, 1, false)
	pending := seedNotice(store, 2, false)
	store.notices[pending.ID].Status = models.NoticeStatusPendingApproval
	completed := seedNotice(store, 2, false)
	store.notices[completed.ID].Status = models.NoticeStatusCompleted

	query := &dto.NoticeListQuery{Page: 1, Limit: 10}

	// The default view is active+published only.
	forStudent, _, err := svc.GetAllNotices(ctx, Actor{ID: 5, Role: models.RoleStudent}, query)
	require.NoError(t, err)
	assert.Len(t, forStudent, 1)

	forAdmin, _, err := svc.GetAllNotices(ctx, Actor{ID: 1, Role: models.RoleAdmin}, query)
	require.NoError(t, err)
	assert.Len(t, forAdmin, 3)
}

func TestCreateNotice_BadEventDate(t *testing.T) {
	svc := NewNoticeService(newFakeNoticeStore(), &fakeFileStore{})

	_, err := svc.CreateNotice(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, &dto.CreateNoticeRequest{
		Title: "Sports day", Content: "On the main ground.", Category: "event", EventDate: "next tuesday",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
