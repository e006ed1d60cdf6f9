package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/repositories"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/helpers"
)

// In-memory fakes standing in for the repositories and the file store.

type fakeFileStore struct {
	saved   []string
	deleted []string
	fail    bool
}

func (f *fakeFileStore) SaveFile(_ context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	if fileHeader == nil {
		return "", nil
	}
	url := "https://cdn.example.com/" + subPath + "/" + fileHeader.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeFileStore) DeleteFile(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUserStore) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.add(user)
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) MobileExists(_ context.Context, mobile string) (bool, error) {
	for _, u := range f.users {
		if u.Mobile == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) RegistrationNumberExists(_ context.Context, regNo string) (bool, error) {
	for _, u := range f.users {
		if u.RegistrationNumber == regNo {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateDetails(_ context.Context, user *models.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.FullName = user.FullName
	stored.Email = user.Email
	stored.Mobile = user.Mobile
	stored.RegistrationNumber = user.RegistrationNumber
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) UpdateAvatar(_ context.Context, userID int64, avatarURL string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (f *fakeUserStore) SetActive(_ context.Context, userID int64, active bool) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, userID, _ int64) error {
	u, ok := f.users[userID]
	if !ok || u.IsVerified {
		return apperrors.ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

func (f *fakeUserStore) GetAllUsers(_ context.Context, params repositories.GetAllUsersParams) ([]*models.User, dto.PaginationInfo, error) {
	matched := make([]*models.User, 0)
	for _, u := range f.users {
		if params.Role != nil && u.Role != *params.Role {
			continue
		}
		copied := *u
		matched = append(matched, &copied)
	}
	return matched, helpers.NewPaginationInfo(int64(len(matched)), params.Page, params.Size), nil
}

func (f *fakeUserStore) GetVerifiedFaculty(_ context.Context) ([]*models.User, error) {
	matched := make([]*models.User, 0)
	for _, u := range f.users {
		if u.Role == models.RoleFaculty && u.IsVerified && u.IsActive {
			copied := *u
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeUserStore) GetPendingVerifications(_ context.Context, role *models.RoleType) ([]*models.User, error) {
	matched := make([]*models.User, 0)
	for _, u := range f.users {
		if u.IsVerified {
			continue
		}
		if role != nil && u.Role != *role {
			continue
		}
		copied := *u
		matched = append(matched, &copied)
	}
	return matched, nil
}

func (f *fakeUserStore) GetVerificationHistory(_ context.Context) ([]*repositories.VerificationRecord, error) {
	return []*repositories.VerificationRecord{}, nil
}

func (f *fakeUserStore) CountVerifiedByRole(_ context.Context, role models.RoleType) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.Role == role && u.IsVerified {
			count++
		}
	}
	return count, nil
}

type fakeCounters struct {
	issueCounts   map[models.IssueStatus]int64
	pinnedNotices int64
}

func (f *fakeCounters) CountIssuesByStatus(_ context.Context, status models.IssueStatus) (int64, error) {
	return f.issueCounts[status], nil
}

func (f *fakeCounters) CountPinnedNotices(_ context.Context) (int64, error) {
	return f.pinnedNotices, nil
}

type fakeNoticeStore struct {
	notices map[int64]*models.Notice
	nextID  int64
}

func newFakeNoticeStore() *fakeNoticeStore {
	return &fakeNoticeStore{notices: map[int64]*models.Notice{}, nextID: 1}
}

func (f *fakeNoticeStore) details(n *models.Notice) *repositories.NoticeDetails {
	copied := *n
	return &repositories.NoticeDetails{
		Notice: copied,
		Author: &models.UserSummary{ID: n.AuthorID, FullName: "Author"},
	}
}

func (f *fakeNoticeStore) CreateNotice(_ context.Context, notice *models.Notice) (int64, error) {
	notice.ID = f.nextID
	f.nextID++
	notice.CreatedAt = time.Now()
	notice.UpdatedAt = notice.CreatedAt
	copied := *notice
	f.notices[notice.ID] = &copied
	return notice.ID, nil
}

func (f *fakeNoticeStore) GetNoticeByID(_ context.Context, id int64) (*repositories.NoticeDetails, error) {
	n, ok := f.notices[id]
	if !ok {
		return nil, apperrors.ErrNoticeNotFound
	}
	return f.details(n), nil
}

func (f *fakeNoticeStore) GetAllNotices(_ context.Context, params repositories.GetAllNoticesParams) ([]*repositories.NoticeDetails, dto.PaginationInfo, error) {
	matched := make([]*repositories.NoticeDetails, 0)
	for _, n := range f.notices {
		if !params.IncludePending &&
			n.Status != models.NoticeStatusActive && n.Status != models.NoticeStatusPublished {
			continue
		}
		if params.Category != nil && n.Category != *params.Category {
			continue
		}
		matched = append(matched, f.details(n))
	}
	return matched, helpers.NewPaginationInfo(int64(len(matched)), params.Page, params.Size), nil
}

func (f *fakeNoticeStore) UpdateNotice(_ context.Context, notice *models.Notice) error {
	if _, ok := f.notices[notice.ID]; !ok {
		return apperrors.ErrNoticeNotFound
	}
	copied := *notice
	f.notices[notice.ID] = &copied
	return nil
}

func (f *fakeNoticeStore) DeleteNotice(_ context.Context, id int64) error {
	if _, ok := f.notices[id]; !ok {
		return apperrors.ErrNoticeNotFound
	}
	delete(f.notices, id)
	return nil
}

type fakeIssueStore struct {
	issues map[int64]*models.Issue
	nextID int64
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{issues: map[int64]*models.Issue{}, nextID: 1}
}

func (f *fakeIssueStore) details(i *models.Issue) *repositories.IssueDetails {
	copied := *i
	return &repositories.IssueDetails{
		Issue:    copied,
		RaisedBy: &models.UserSummary{ID: i.RaisedByID, FullName: "Reporter"},
	}
}

func (f *fakeIssueStore) CreateIssue(_ context.Context, issue *models.Issue) (int64, error) {
	issue.ID = f.nextID
	f.nextID++
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	copied := *issue
	f.issues[issue.ID] = &copied
	return issue.ID, nil
}

func (f *fakeIssueStore) GetIssueByID(_ context.Context, id int64) (*repositories.IssueDetails, error) {
	i, ok := f.issues[id]
	if !ok {
		return nil, apperrors.ErrIssueNotFound
	}
	return f.details(i), nil
}

func (f *fakeIssueStore) GetAllIssues(_ context.Context, params repositories.GetAllIssuesParams) ([]*repositories.IssueDetails, dto.PaginationInfo, error) {
	matched := make([]*repositories.IssueDetails, 0)
	for _, i := range f.issues {
		if params.Status != nil && i.Status != *params.Status {
			continue
		}
		if params.Category != nil && i.Category != *params.Category {
			continue
		}
		if params.RaisedByID != nil && i.RaisedByID != *params.RaisedByID {
			continue
		}
		if params.AssignedToID != nil && (i.AssignedToID == nil || *i.AssignedToID != *params.AssignedToID) {
			continue
		}
		if params.VisibleToID != nil {
			visible := i.RaisedByID == *params.VisibleToID ||
				i.Status == models.IssueStatusResolved || i.Status == models.IssueStatusClosed
			if !visible {
				continue
			}
		}
		matched = append(matched, f.details(i))
	}
	return matched, helpers.NewPaginationInfo(int64(len(matched)), params.Page, params.Size), nil
}

func (f *fakeIssueStore) AssignIssue(_ context.Context, issueID, facultyID int64) error {
	i, ok := f.issues[issueID]
	if !ok {
		return apperrors.ErrIssueNotFound
	}
	i.AssignedToID = &facultyID
	i.Status = models.IssueStatusInProgress
	return nil
}

func (f *fakeIssueStore) UpdateIssueStatus(_ context.Context, issueID int64, status models.IssueStatus, resolutionNotes *string) error {
	i, ok := f.issues[issueID]
	if !ok {
		return apperrors.ErrIssueNotFound
	}
	i.Status = status
	if resolutionNotes != nil {
		i.ResolutionNotes = resolutionNotes
	}
	return nil
}

type fakeLostFoundStore struct {
	items  map[int64]*models.LostFoundItem
	nextID int64
}

func newFakeLostFoundStore() *fakeLostFoundStore {
	return &fakeLostFoundStore{items: map[int64]*models.LostFoundItem{}, nextID: 1}
}

func (f *fakeLostFoundStore) details(item *models.LostFoundItem) *repositories.LostFoundDetails {
	copied := *item
	return &repositories.LostFoundDetails{
		LostFoundItem: copied,
		PostedBy:      &models.UserSummary{ID: item.PostedByID, FullName: "Poster"},
	}
}

func (f *fakeLostFoundStore) CreateItem(_ context.Context, item *models.LostFoundItem) (int64, error) {
	item.ID = f.nextID
	f.nextID++
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	copied := *item
	f.items[item.ID] = &copied
	return item.ID, nil
}

func (f *fakeLostFoundStore) GetItemByID(_ context.Context, id int64) (*repositories.LostFoundDetails, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	return f.details(item), nil
}

func (f *fakeLostFoundStore) GetAllItems(_ context.Context, params repositories.GetAllItemsParams) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error) {
	matched := make([]*repositories.LostFoundDetails, 0)
	for _, item := range f.items {
		if params.Type != nil && item.Type != *params.Type {
			continue
		}
		if params.Status != nil && item.Status != *params.Status {
			continue
		}
		if params.PostedByID != nil && item.PostedByID != *params.PostedByID {
			continue
		}
		matched = append(matched, f.details(item))
	}
	return matched, helpers.NewPaginationInfo(int64(len(matched)), params.Page, params.Size), nil
}

func (f *fakeLostFoundStore) UpdateStatus(_ context.Context, itemID int64, status models.LostFoundStatus) error {
	item, ok := f.items[itemID]
	if !ok {
		return apperrors.ErrItemNotFound
	}
	item.Status = status
	return nil
}

// ClaimItem mirrors the conditional update: only approved, unclaimed items
// can be claimed, and the first claimer wins.
func (f *fakeLostFoundStore) ClaimItem(_ context.Context, itemID, claimerID int64) error {
	item, ok := f.items[itemID]
	if !ok {
		return apperrors.ErrItemNotFound
	}
	if item.Status == models.LostFoundStatusApproved && item.ClaimedByID == nil {
		item.Status = models.LostFoundStatusClaimed
		item.ClaimedByID = &claimerID
		return nil
	}
	if item.ClaimedByID != nil {
		return apperrors.ErrItemClaimed
	}
	return apperrors.ErrItemNotClaimable
}

func (f *fakeLostFoundStore) DeleteItem(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}
