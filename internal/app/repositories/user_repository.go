package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/dberrors"
	"github.com/campushub/backend/internal/pkg/helpers"
	"github.com/campushub/backend/internal/pkg/logger"
)

// VerificationRecord is one entry of the verification history, joining the
// verified account with the staff member who verified it.
type VerificationRecord struct {
	User       models.UserSummary  `json:"user"`
	VerifiedBy *models.UserSummary `json:"verifiedBy,omitempty"`
	VerifiedAt time.Time           `json:"verifiedAt"`
}

// GetAllUsersParams holds filters and pagination for account listings.
type GetAllUsersParams struct {
	Role   *models.RoleType
	Search string // matches name, email or registration number
	Page   int
	Size   int
}

// UserRepository handles database operations for user accounts.
type UserRepository struct {
	DB *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = "id, full_name, email, mobile, registration_number, password, role, is_verified, is_active, avatar_url, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Mobile, &u.RegistrationNumber,
		&u.Password, &u.Role, &u.IsVerified, &u.IsActive, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) selectUserQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "full_name", "email", "mobile", "registration_number",
		"password", "role", "is_verified", "is_active", "avatar_url",
		"created_at", "updated_at",
	).From("users").PlaceholderFormat(squirrel.Dollar)
}

// CreateUser inserts a new user and returns the generated ID. Unique
// constraint violations map to the matching conflict error.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := squirrel.Insert("users").
		Columns("full_name", "email", "mobile", "registration_number", "password", "role", "is_verified", "is_active", "avatar_url").
		Values(user.FullName, user.Email, user.Mobile, user.RegistrationNumber, user.Password, user.Role, user.IsVerified, user.IsActive, user.AvatarURL).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, err
	}

	var id int64
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&id, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
			return 0, apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_mobile_key"):
			return 0, apperrors.ErrMobileAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_registration_number_key"):
			return 0, apperrors.ErrRegistrationNumberExists
		}
		logger.Error().Err(err).Msg("Error executing create user query")
		return 0, err
	}
	user.ID = id
	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.selectUserQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.DB.QueryRow(ctx, sql, args...))
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.selectUserQuery().Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.DB.QueryRow(ctx, sql, args...))
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// MobileExists checks whether a mobile number is already registered
func (r *UserRepository) MobileExists(ctx context.Context, mobile string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"mobile": mobile})
}

// RegistrationNumberExists checks whether a registration number is taken
func (r *UserRepository) RegistrationNumberExists(ctx context.Context, regNo string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"registration_number": regNo})
}

func (r *UserRepository) exists(ctx context.Context, cond squirrel.Eq) (bool, error) {
	sql, args, err := squirrel.Select("1").From("users").Where(cond).
		Prefix("SELECT EXISTS (").Suffix(")").
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error executing user existence query")
		return false, err
	}
	return exists, nil
}

// UpdateDetails updates the mutable profile fields of a user.
func (r *UserRepository) UpdateDetails(ctx context.Context, user *models.User) error {
	sql, args, err := squirrel.Update("users").
		Set("full_name", user.FullName).
		Set("email", user.Email).
		Set("mobile", user.Mobile).
		Set("registration_number", user.RegistrationNumber).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_mobile_key"):
			return apperrors.ErrMobileAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_registration_number_key"):
			return apperrors.ErrRegistrationNumberExists
		}
		logger.Error().Err(err).Msg("Error executing update user details query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash for the user
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.updateColumn(ctx, userID, "password", passwordHash)
}

// UpdateAvatar stores a new avatar URL for the user
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error {
	return r.updateColumn(ctx, userID, "avatar_url", avatarURL)
}

// SetActive enables or disables the account
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	return r.updateColumn(ctx, userID, "is_active", active)
}

func (r *UserRepository) updateColumn(ctx context.Context, userID int64, column string, value interface{}) error {
	sql, args, err := squirrel.Update("users").
		Set(column, value).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error executing update user query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// MarkVerified records the verification outcome for a user. It only touches
// unverified accounts so a repeated verification surfaces as not found.
func (r *UserRepository) MarkVerified(ctx context.Context, userID, verifiedByID int64) error {
	sql, args, err := squirrel.Update("users").
		Set("is_verified", true).
		Set("verified_by", verifiedByID).
		Set("verified_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID, "is_verified": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Error executing verify user query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// allUsersQuery builds the select and count queries for the account listing.
// Deactivated accounts stay out of the directory.
func (r *UserRepository) allUsersQuery(params GetAllUsersParams) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	sqlBuilder := r.selectUserQuery().Where(squirrel.Eq{"is_active": true})
	countBuilder := squirrel.Select("count(*)").From("users").
		Where(squirrel.Eq{"is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	if params.Role != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"role": *params.Role})
		countBuilder = countBuilder.Where(squirrel.Eq{"role": *params.Role})
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"registration_number": pattern},
		}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}
	return sqlBuilder, countBuilder
}

// GetAllUsers retrieves a paginated, filtered listing of active accounts.
func (r *UserRepository) GetAllUsers(ctx context.Context, params GetAllUsersParams) ([]*models.User, dto.PaginationInfo, error) {
	sqlBuilder, countBuilder := r.allUsersQuery(params)

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count users query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.User{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlStr, args, err := sqlBuilder.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all users query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return users, pagination, nil
}

// GetVerifiedFaculty lists active, verified faculty members.
func (r *UserRepository) GetVerifiedFaculty(ctx context.Context) ([]*models.User, error) {
	return r.listUsers(ctx, squirrel.Eq{"role": models.RoleFaculty, "is_verified": true, "is_active": true}, "full_name ASC")
}

// GetPendingVerifications lists unverified accounts, optionally for one role.
func (r *UserRepository) GetPendingVerifications(ctx context.Context, role *models.RoleType) ([]*models.User, error) {
	cond := squirrel.Eq{"is_verified": false}
	if role != nil {
		cond["role"] = *role
	}
	return r.listUsers(ctx, cond, "created_at ASC")
}

func (r *UserRepository) listUsers(ctx context.Context, cond squirrel.Eq, orderBy string) ([]*models.User, error) {
	sqlStr, args, err := r.selectUserQuery().Where(cond).OrderBy(orderBy).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetVerificationHistory returns verified accounts joined with their verifier,
// most recent first.
func (r *UserRepository) GetVerificationHistory(ctx context.Context) ([]*VerificationRecord, error) {
	sqlStr, args, err := squirrel.Select(
		"u.id", "u.full_name", "u.email", "u.registration_number", "u.role", "u.avatar_url",
		"v.id", "v.full_name", "v.email", "v.role",
		"u.verified_at",
	).From("users u").
		LeftJoin("users v ON u.verified_by = v.id").
		Where(squirrel.Eq{"u.is_verified": true}).
		Where("u.verified_at IS NOT NULL").
		OrderBy("u.verified_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing verification history query")
		return nil, err
	}
	defer rows.Close()

	records := make([]*VerificationRecord, 0)
	for rows.Next() {
		var rec VerificationRecord
		var verifierID *int64
		var verifierName, verifierEmail *string
		var verifierRole *models.RoleType
		err := rows.Scan(
			&rec.User.ID, &rec.User.FullName, &rec.User.Email, &rec.User.RegistrationNumber, &rec.User.Role, &rec.User.AvatarURL,
			&verifierID, &verifierName, &verifierEmail, &verifierRole,
			&rec.VerifiedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning verification record")
			return nil, err
		}
		if verifierID != nil {
			rec.VerifiedBy = &models.UserSummary{ID: *verifierID, FullName: *verifierName, Email: *verifierEmail, Role: *verifierRole}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// CountVerifiedByRole counts verified accounts with the given role.
func (r *UserRepository) CountVerifiedByRole(ctx context.Context, role models.RoleType) (int64, error) {
	sqlStr, args, err := squirrel.Select("count(*)").From("users").
		Where(squirrel.Eq{"role": role, "is_verified": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count verified users query")
		return 0, err
	}
	return count, nil
}
