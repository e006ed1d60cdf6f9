package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/helpers"
	"github.com/campushub/backend/internal/pkg/logger"
)

// NoticeDetails is a notice with its author populated via join.
type NoticeDetails struct {
	models.Notice
	Author *models.UserSummary `json:"author,omitempty"`
}

// GetAllNoticesParams holds filters and pagination for notice listings.
type GetAllNoticesParams struct {
	Category       *models.NoticeCategory
	IncludePending bool // admins see notices awaiting re-approval
	Sort           string
	Page           int
	Size           int
}

// NoticeRepository handles database operations for notices.
type NoticeRepository struct {
	DB *pgxpool.Pool
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{DB: db}
}

// visibleNoticeStatuses are the statuses the default listing shows; notices
// awaiting approval or already completed stay out unless pending is requested.
func visibleNoticeStatuses() []models.NoticeStatus {
	return []models.NoticeStatus{models.NoticeStatusActive, models.NoticeStatusPublished}
}

func (r *NoticeRepository) selectNoticeDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"n.id", "n.title", "n.content", "n.category", "n.status", "n.author_id",
		"n.event_date", "n.is_pinned", "n.file_url", "n.edited_by_faculty",
		"n.created_at", "n.updated_at",
		"u.full_name", "u.email", "u.role", "u.avatar_url",
	).From("notices n").
		Join("users u ON n.author_id = u.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanNoticeDetails(row pgx.Row) (*NoticeDetails, error) {
	var n NoticeDetails
	var authorName, authorEmail, authorAvatar string
	var authorRole models.RoleType
	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.Category, &n.Status, &n.AuthorID,
		&n.EventDate, &n.IsPinned, &n.FileURL, &n.EditedByFaculty,
		&n.CreatedAt, &n.UpdatedAt,
		&authorName, &authorEmail, &authorRole, &authorAvatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoticeNotFound
		}
		logger.Error().Err(err).Msg("Error scanning notice details")
		return nil, err
	}
	n.Author = &models.UserSummary{
		ID:        n.AuthorID,
		FullName:  authorName,
		Email:     authorEmail,
		Role:      authorRole,
		AvatarURL: authorAvatar,
	}
	return &n, nil
}

// CreateNotice inserts a new notice and returns the generated ID.
func (r *NoticeRepository) CreateNotice(ctx context.Context, notice *models.Notice) (int64, error) {
	sql, args, err := squirrel.Insert("notices").
		Columns("title", "content", "category", "status", "author_id", "event_date", "is_pinned", "file_url", "edited_by_faculty").
		Values(notice.Title, notice.Content, notice.Category, notice.Status, notice.AuthorID, notice.EventDate, notice.IsPinned, notice.FileURL, notice.EditedByFaculty).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create notice SQL")
		return 0, err
	}

	err = r.DB.QueryRow(ctx, sql, args...).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create notice query")
		return 0, err
	}
	return notice.ID, nil
}

// GetNoticeByID retrieves a single notice with its author.
func (r *NoticeRepository) GetNoticeByID(ctx context.Context, id int64) (*NoticeDetails, error) {
	sqlStr, args, err := r.selectNoticeDetailsQuery().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanNoticeDetails(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetAllNotices retrieves a paginated, filtered notice listing. Pinned
// notices come first regardless of the requested sort.
func (r *NoticeRepository) GetAllNotices(ctx context.Context, params GetAllNoticesParams) ([]*NoticeDetails, dto.PaginationInfo, error) {
	sqlBuilder := r.selectNoticeDetailsQuery()
	countBuilder := squirrel.Select("count(*)").From("notices n").PlaceholderFormat(squirrel.Dollar)

	if params.Category != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"n.category": *params.Category})
		countBuilder = countBuilder.Where(squirrel.Eq{"n.category": *params.Category})
	}
	if !params.IncludePending {
		cond := squirrel.Eq{"n.status": visibleNoticeStatuses()}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count notices query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*NoticeDetails{}, pagination, nil
	}

	createdOrder := "n.created_at DESC"
	if params.Sort == "oldest" {
		createdOrder = "n.created_at ASC"
	}
	sqlBuilder = sqlBuilder.OrderBy("n.is_pinned DESC", createdOrder)

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlStr, args, err := sqlBuilder.Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all notices query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	notices := make([]*NoticeDetails, 0)
	for rows.Next() {
		n, err := scanNoticeDetails(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		notices = append(notices, n)
	}
	if err = rows.Err(); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return notices, pagination, nil
}

// UpdateNotice updates an existing notice.
func (r *NoticeRepository) UpdateNotice(ctx context.Context, notice *models.Notice) error {
	sql, args, err := squirrel.Update("notices").
		Set("title", notice.Title).
		Set("content", notice.Content).
		Set("category", notice.Category).
		Set("status", notice.Status).
		Set("event_date", notice.EventDate).
		Set("is_pinned", notice.IsPinned).
		Set("file_url", notice.FileURL).
		Set("edited_by_faculty", notice.EditedByFaculty).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": notice.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update notice SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update notice query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// DeleteNotice deletes a notice by ID.
func (r *NoticeRepository) DeleteNotice(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("notices").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete notice query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// CountPinned counts currently pinned notices.
func (r *NoticeRepository) CountPinned(ctx context.Context) (int64, error) {
	sqlStr, args, err := squirrel.Select("count(*)").From("notices").
		Where(squirrel.Eq{"is_pinned": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count pinned notices query")
		return 0, err
	}
	return count, nil
}
