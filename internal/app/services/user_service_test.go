package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret-key-for-unit-tests",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campushub.test",
	})
}

func newUserServiceForTest(store *fakeUserStore) (UserService, *fakeFileStore) {
	files := &fakeFileStore{}
	counters := &fakeCounters{issueCounts: map[models.IssueStatus]int64{}}
	return NewUserService(store, counters, testJWTService(), files), files
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func avatarFile() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "avatar.png", Size: 2048}
}

func TestRegister_DefaultsToStudentAndUnverified(t *testing.T) {
	store := newFakeUserStore()
	svc, files := newUserServiceForTest(store)

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName:           "Asha Rao",
		Email:              "asha@campus.edu",
		Password:           "s3cret!pass",
		Mobile:             "9876543210",
		RegistrationNumber: "REG1001",
	}, avatarFile())

	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.AvatarURL)
	assert.Len(t, files.saved, 1)
	assert.NotEqual(t, "s3cret!pass", user.Password)
}

func TestRegister_RequiresAvatar(t *testing.T) {
	svc, _ := newUserServiceForTest(newFakeUserStore())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName:           "Asha Rao",
		Email:              "asha@campus.edu",
		Password:           "s3cret!pass",
		Mobile:             "9876543210",
		RegistrationNumber: "REG1001",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{Email: "taken@campus.edu", Mobile: "1111111111", RegistrationNumber: "REG1"})
	svc, _ := newUserServiceForTest(store)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName:           "Asha Rao",
		Email:              "taken@campus.edu",
		Password:           "s3cret!pass",
		Mobile:             "9876543210",
		RegistrationNumber: "REG1001",
	}, avatarFile())

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc, _ := newUserServiceForTest(newFakeUserStore())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName:           "Asha Rao",
		Email:              "asha@campus.edu",
		Password:           "lettersonly",
		Mobile:             "9876543210",
		RegistrationNumber: "REG1001",
	}, avatarFile())

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestLogin_UnverifiedStudentRejected(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{
		Email: "student@campus.edu", Password: mustHash(t, "s3cret!pass"),
		Role: models.RoleStudent, IsActive: true, IsVerified: false,
	})
	svc, _ := newUserServiceForTest(store)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "student@campus.edu", Password: "s3cret!pass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)

	// The verification gate applies before the password is checked.
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "student@campus.edu", Password: "wrong!pass1"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)
}

func TestLogin_AdminExemptFromVerification(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{
		Email: "admin@campus.edu", Password: mustHash(t, "s3cret!pass"),
		Role: models.RoleAdmin, IsActive: true, IsVerified: false,
	})
	svc, _ := newUserServiceForTest(store)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "admin@campus.edu", Password: "s3cret!pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{
		Email: "user@campus.edu", Password: mustHash(t, "s3cret!pass"),
		Role: models.RoleStudent, IsActive: true, IsVerified: true,
	})
	svc, _ := newUserServiceForTest(store)

	_, wrongPass := svc.Login(context.Background(), &dto.LoginRequest{Email: "user@campus.edu", Password: "wrong!pass1"})
	_, unknown := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@campus.edu", Password: "s3cret!pass"})

	assert.ErrorIs(t, wrongPass, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, apperrors.ErrInvalidCredentials)
}

func TestLogin_DisabledAccountRejected(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{
		Email: "gone@campus.edu", Password: mustHash(t, "s3cret!pass"),
		Role: models.RoleStudent, IsActive: false, IsVerified: true,
	})
	svc, _ := newUserServiceForTest(store)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "gone@campus.edu", Password: "s3cret!pass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestChangePassword_ChecksOldAndRejectsReuse(t *testing.T) {
	store := newFakeUserStore()
	user := store.add(&models.User{
		Email: "user@campus.edu", Password: mustHash(t, "s3cret!pass"),
		Role: models.RoleStudent, IsActive: true, IsVerified: true,
	})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "an0ther!pass"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordIncorrect)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{OldPassword: "s3cret!pass", NewPassword: "s3cret!pass"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordReused)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{OldPassword: "s3cret!pass", NewPassword: "an0ther!pass"})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(store.users[user.ID].Password, "an0ther!pass"))
}

func TestVerifyUser_FacultyVerifiesStudentsOnly(t *testing.T) {
	store := newFakeUserStore()
	faculty := store.add(&models.User{Email: "fac@campus.edu", Role: models.RoleFaculty, IsVerified: true, IsActive: true})
	student := store.add(&models.User{Email: "stu@campus.edu", Role: models.RoleStudent})
	otherFaculty := store.add(&models.User{Email: "fac2@campus.edu", Role: models.RoleFaculty})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()
	actor := Actor{ID: faculty.ID, Role: models.RoleFaculty}

	_, err := svc.VerifyUser(ctx, actor, otherFaculty.Email)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	verified, err := svc.VerifyUser(ctx, actor, student.Email)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
}

func TestVerifyUser_AlreadyVerified(t *testing.T) {
	store := newFakeUserStore()
	admin := store.add(&models.User{Email: "admin@campus.edu", Role: models.RoleAdmin, IsActive: true})
	store.add(&models.User{Email: "done@campus.edu", Role: models.RoleStudent, IsVerified: true})
	svc, _ := newUserServiceForTest(store)

	_, err := svc.VerifyUser(context.Background(), Actor{ID: admin.ID, Role: models.RoleAdmin}, "done@campus.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyVerified)
}

func TestVerifyUser_StudentForbidden(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{Email: "stu@campus.edu", Role: models.RoleStudent})
	svc, _ := newUserServiceForTest(store)

	_, err := svc.VerifyUser(context.Background(), Actor{ID: 99, Role: models.RoleStudent}, "stu@campus.edu")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetDashboardStats_StaffOnly(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{Email: "s1@campus.edu", Role: models.RoleStudent, IsVerified: true})
	store.add(&models.User{Email: "s2@campus.edu", Role: models.RoleStudent, IsVerified: true})
	store.add(&models.User{Email: "f1@campus.edu", Role: models.RoleFaculty, IsVerified: true})

	files := &fakeFileStore{}
	counters := &fakeCounters{
		issueCounts: map[models.IssueStatus]int64{
			models.IssueStatusOpen:       4,
			models.IssueStatusInProgress: 2,
		},
		pinnedNotices: 3,
	}
	svc := NewUserService(store, counters, testJWTService(), files)
	ctx := context.Background()

	_, err := svc.GetDashboardStats(ctx, Actor{ID: 1, Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Faculty share the dashboard with admins.
	_, err = svc.GetDashboardStats(ctx, Actor{ID: 1, Role: models.RoleFaculty})
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats(ctx, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.VerifiedStudents)
	assert.Equal(t, int64(1), stats.VerifiedFaculty)
	assert.Equal(t, int64(4), stats.OpenIssues)
	assert.Equal(t, int64(2), stats.InProgressIssues)
	assert.Equal(t, int64(3), stats.PinnedNotices)
}

func TestGetAllUsers_StaffOnly(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{Email: "s1@campus.edu", Role: models.RoleStudent, IsActive: true})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()

	_, err := svc.GetAllUsers(ctx, Actor{ID: 5, Role: models.RoleStudent}, &dto.UserListQuery{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Faculty browse the directory alongside admins.
	resp, err := svc.GetAllUsers(ctx, Actor{ID: 2, Role: models.RoleFaculty}, &dto.UserListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
}

func TestGetPendingVerifications_FacultySeesStudentsOnly(t *testing.T) {
	store := newFakeUserStore()
	store.add(&models.User{Email: "s@campus.edu", Role: models.RoleStudent})
	store.add(&models.User{Email: "f@campus.edu", Role: models.RoleFaculty})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()

	forFaculty, err := svc.GetPendingVerifications(ctx, Actor{ID: 1, Role: models.RoleFaculty})
	require.NoError(t, err)
	require.Len(t, forFaculty, 1)
	assert.Equal(t, models.RoleStudent, forFaculty[0].Role)

	forAdmin, err := svc.GetPendingVerifications(ctx, Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, forAdmin, 2)
}

func TestSetUserActive_SelfGuard(t *testing.T) {
	store := newFakeUserStore()
	admin := store.add(&models.User{Email: "admin@campus.edu", Role: models.RoleAdmin, IsActive: true})
	target := store.add(&models.User{Email: "user@campus.edu", Role: models.RoleStudent, IsActive: true})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()
	actor := Actor{ID: admin.ID, Role: models.RoleAdmin}

	err := svc.SetUserActive(ctx, actor, admin.Email, false)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = svc.SetUserActive(ctx, actor, target.Email, false)
	require.NoError(t, err)
	assert.False(t, store.users[target.ID].IsActive)
}

func TestUpdateDetails_PartialAndUniqueness(t *testing.T) {
	store := newFakeUserStore()
	user := store.add(&models.User{Email: "me@campus.edu", FullName: "Old Name", Mobile: "9876543210"})
	store.add(&models.User{Email: "other@campus.edu", Mobile: "1234567890"})
	svc, _ := newUserServiceForTest(store)
	ctx := context.Background()

	taken := "other@campus.edu"
	_, err := svc.UpdateDetails(ctx, user.ID, &dto.UpdateDetailsRequest{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	newName := "New Name"
	updated, err := svc.UpdateDetails(ctx, user.ID, &dto.UpdateDetailsRequest{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "me@campus.edu", updated.Email)
}
