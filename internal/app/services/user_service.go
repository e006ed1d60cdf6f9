package services

import (
	"context"
	"errors"
	"mime/multipart"

	appauth "github.com/campushub/backend/internal/app/auth"
	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/repositories"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/auth"
	"github.com/campushub/backend/internal/pkg/filestorage"
	"github.com/campushub/backend/internal/pkg/logger"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MobileExists(ctx context.Context, mobile string) (bool, error)
	RegistrationNumberExists(ctx context.Context, regNo string) (bool, error)
	UpdateDetails(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error
	SetActive(ctx context.Context, userID int64, active bool) error
	MarkVerified(ctx context.Context, userID, verifiedByID int64) error
	GetAllUsers(ctx context.Context, params repositories.GetAllUsersParams) ([]*models.User, dto.PaginationInfo, error)
	GetVerifiedFaculty(ctx context.Context) ([]*models.User, error)
	GetPendingVerifications(ctx context.Context, role *models.RoleType) ([]*models.User, error)
	GetVerificationHistory(ctx context.Context) ([]*repositories.VerificationRecord, error)
	CountVerifiedByRole(ctx context.Context, role models.RoleType) (int64, error)
}

// StatsCounters are the extra counts the admin dashboard aggregates.
type StatsCounters interface {
	CountIssuesByStatus(ctx context.Context, status models.IssueStatus) (int64, error)
	CountPinnedNotices(ctx context.Context) (int64, error)
}

// UserService defines the interface for account operations
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, avatar *multipart.FileHeader) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateDetails(ctx context.Context, userID int64, req *dto.UpdateDetailsRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	UpdateAvatar(ctx context.Context, userID int64, avatar *multipart.FileHeader) (*models.User, error)
	GetFaculty(ctx context.Context) ([]*models.User, error)
	GetAllUsers(ctx context.Context, actor Actor, query *dto.UserListQuery) (*dto.UserListResponse, error)
	GetDashboardStats(ctx context.Context, actor Actor) (*dto.DashboardStats, error)
	GetPendingVerifications(ctx context.Context, actor Actor) ([]*models.User, error)
	VerifyUser(ctx context.Context, actor Actor, email string) (*models.User, error)
	GetVerificationHistory(ctx context.Context, actor Actor) ([]*repositories.VerificationRecord, error)
	SetUserActive(ctx context.Context, actor Actor, email string, active bool) error
}

type userServiceImpl struct {
	userRepo   UserStore
	counters   StatsCounters
	jwtService *auth.JWTService
	files      filestorage.FileStorage
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, counters StatsCounters, jwtService *auth.JWTService, files filestorage.FileStorage) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		counters:   counters,
		jwtService: jwtService,
		files:      files,
	}
}

// Register creates a new account. Every field with a uniqueness constraint is
// pre-checked for a friendly error; the database constraints stay the source
// of truth under races. New accounts start unverified.
func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest, avatar *multipart.FileHeader) (*models.User, error) {
	if avatar == nil {
		return nil, apperrors.NewBadRequestError("avatar image is required")
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	if exists, err := s.userRepo.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if exists, err := s.userRepo.MobileExists(ctx, req.Mobile); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrMobileAlreadyExists
	}
	if exists, err := s.userRepo.RegistrationNumberExists(ctx, req.RegistrationNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.ErrRegistrationNumberExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.files.SaveFile(ctx, avatar, "avatars")
	if err != nil {
		return nil, &apperrors.CustomError{Err: apperrors.ErrUploadFailed, Message: "could not store avatar image"}
	}

	role := models.RoleType(req.Role)
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		FullName:           req.FullName,
		Email:              req.Email,
		Mobile:             req.Mobile,
		RegistrationNumber: req.RegistrationNumber,
		Password:           hash,
		Role:               role,
		IsVerified:         false,
		IsActive:           true,
		AvatarURL:          avatarURL,
	}

	if _, err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login authenticates a user and issues an access token. Unverified accounts
// are rejected unless they are admins; disabled accounts are always rejected.
func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// Account gates come before the password check: a disabled or unverified
	// account is rejected as such regardless of the supplied password.
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if !user.IsVerified && user.Role != models.RoleAdmin {
		return nil, apperrors.ErrAccountNotVerified
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	return &dto.LoginResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

// GetProfile returns the account of the given user.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// UpdateDetails applies a partial profile update. Unique fields are only
// re-checked when they actually change.
func (s *userServiceImpl) UpdateDetails(ctx context.Context, userID int64, req *dto.UpdateDetailsRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if exists, err := s.userRepo.EmailExists(ctx, *req.Email); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}
	if req.Mobile != nil && *req.Mobile != user.Mobile {
		if exists, err := s.userRepo.MobileExists(ctx, *req.Mobile); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.ErrMobileAlreadyExists
		}
		user.Mobile = *req.Mobile
	}
	if req.RegistrationNumber != nil && *req.RegistrationNumber != user.RegistrationNumber {
		if exists, err := s.userRepo.RegistrationNumberExists(ctx, *req.RegistrationNumber); err != nil {
			return nil, err
		} else if exists {
			return nil, apperrors.ErrRegistrationNumberExists
		}
		user.RegistrationNumber = *req.RegistrationNumber
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if err := s.userRepo.UpdateDetails(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return apperrors.ErrPasswordIncorrect
	}
	if req.OldPassword == req.NewPassword {
		return apperrors.ErrPasswordReused
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	logger.Info().Int64("user_id", userID).Msg("Password changed")
	return nil
}

// UpdateAvatar replaces the profile picture. The old file is removed on a
// best-effort basis after the new URL is stored.
func (s *userServiceImpl) UpdateAvatar(ctx context.Context, userID int64, avatar *multipart.FileHeader) (*models.User, error) {
	if avatar == nil {
		return nil, apperrors.NewBadRequestError("avatar image is required")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.files.SaveFile(ctx, avatar, "avatars")
	if err != nil {
		return nil, &apperrors.CustomError{Err: apperrors.ErrUploadFailed, Message: "could not store avatar image"}
	}

	oldURL := user.AvatarURL
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return nil, err
	}
	if oldURL != "" {
		if err := s.files.DeleteFile(ctx, oldURL); err != nil {
			logger.Warn().Err(err).Str("url", oldURL).Msg("Could not remove previous avatar")
		}
	}

	user.AvatarURL = avatarURL
	return user, nil
}

// GetFaculty lists active, verified faculty members.
func (s *userServiceImpl) GetFaculty(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetVerifiedFaculty(ctx)
}

// GetAllUsers returns a filtered listing of active accounts. Staff only.
func (s *userServiceImpl) GetAllUsers(ctx context.Context, actor Actor, query *dto.UserListQuery) (*dto.UserListResponse, error) {
	if !appauth.Can(actor.Role, appauth.ActionRead, appauth.ResourceUser, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	params := repositories.GetAllUsersParams{
		Search: query.Search,
		Page:   query.Page,
		Size:   query.Limit,
	}
	if query.Role != "" {
		role := models.RoleType(query.Role)
		if !models.ValidRole(role) {
			return nil, apperrors.NewBadRequestError("unknown role filter")
		}
		params.Role = &role
	}

	users, pagination, err := s.userRepo.GetAllUsers(ctx, params)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Users: users,
		Total: pagination.TotalItems,
		Pages: pagination.TotalPages,
	}, nil
}

// GetDashboardStats aggregates the dashboard counters. Staff only.
func (s *userServiceImpl) GetDashboardStats(ctx context.Context, actor Actor) (*dto.DashboardStats, error) {
	if !appauth.Can(actor.Role, appauth.ActionRead, appauth.ResourceUser, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	stats := &dto.DashboardStats{}
	var err error
	if stats.VerifiedStudents, err = s.userRepo.CountVerifiedByRole(ctx, models.RoleStudent); err != nil {
		return nil, err
	}
	if stats.VerifiedFaculty, err = s.userRepo.CountVerifiedByRole(ctx, models.RoleFaculty); err != nil {
		return nil, err
	}
	if stats.OpenIssues, err = s.counters.CountIssuesByStatus(ctx, models.IssueStatusOpen); err != nil {
		return nil, err
	}
	if stats.InProgressIssues, err = s.counters.CountIssuesByStatus(ctx, models.IssueStatusInProgress); err != nil {
		return nil, err
	}
	if stats.PinnedNotices, err = s.counters.CountPinnedNotices(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetPendingVerifications lists unverified accounts. Admins see everyone,
// faculty only see students.
func (s *userServiceImpl) GetPendingVerifications(ctx context.Context, actor Actor) ([]*models.User, error) {
	if !appauth.Can(actor.Role, appauth.ActionVerify, appauth.ResourceUser, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	var role *models.RoleType
	if actor.Role == models.RoleFaculty {
		student := models.RoleStudent
		role = &student
	}
	return s.userRepo.GetPendingVerifications(ctx, role)
}

// VerifyUser marks the account with the given email verified. Faculty may
// only verify students; verifying an already verified account is an error.
func (s *userServiceImpl) VerifyUser(ctx context.Context, actor Actor, email string) (*models.User, error) {
	if !appauth.Can(actor.Role, appauth.ActionVerify, appauth.ResourceUser, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	target, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleFaculty && target.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("faculty can only verify student accounts")
	}
	if target.IsVerified {
		return nil, apperrors.ErrUserAlreadyVerified
	}

	if err := s.userRepo.MarkVerified(ctx, target.ID, actor.ID); err != nil {
		return nil, err
	}

	target.IsVerified = true
	logger.Info().Int64("user_id", target.ID).Int64("verified_by", actor.ID).Msg("User verified")
	return target, nil
}

// GetVerificationHistory lists verified accounts with their verifier. Admin only.
func (s *userServiceImpl) GetVerificationHistory(ctx context.Context, actor Actor) ([]*repositories.VerificationRecord, error) {
	if !appauth.Can(actor.Role, appauth.ActionManage, appauth.ResourceUser, false) {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.userRepo.GetVerificationHistory(ctx)
}

// SetUserActive soft-disables or re-enables an account. Admin only, and
// admins cannot disable themselves.
func (s *userServiceImpl) SetUserActive(ctx context.Context, actor Actor, email string, active bool) error {
	if !appauth.Can(actor.Role, appauth.ActionManage, appauth.ResourceUser, false) {
		return apperrors.ErrPermissionDenied
	}

	target, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if target.ID == actor.ID {
		return apperrors.NewBadRequestError("cannot change the active state of your own account")
	}

	if err := s.userRepo.SetActive(ctx, target.ID, active); err != nil {
		return err
	}
	logger.Info().Int64("user_id", target.ID).Bool("active", active).Msg("Account active state changed")
	return nil
}
