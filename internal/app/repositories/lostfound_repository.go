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

// LostFoundDetails is a lost & found post with poster and claimant populated.
type LostFoundDetails struct {
	models.LostFoundItem
	PostedBy  *models.UserSummary `json:"postedBy,omitempty"`
	ClaimedBy *models.UserSummary `json:"claimedBy,omitempty"`
}

// GetAllItemsParams holds filters and pagination for lost & found listings.
type GetAllItemsParams struct {
	Type       *models.LostFoundType
	Category   *string
	Status     *models.LostFoundStatus
	PostedByID *int64
	Page       int
	Size       int
}

// LostFoundRepository handles database operations for lost & found posts.
type LostFoundRepository struct {
	DB *pgxpool.Pool
}

// NewLostFoundRepository creates a new LostFoundRepository
func NewLostFoundRepository(db *pgxpool.Pool) *LostFoundRepository {
	return &LostFoundRepository{DB: db}
}

func (r *LostFoundRepository) selectItemDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"lf.id", "lf.title", "lf.description", "lf.type", "lf.category", "lf.location",
		"lf.images", "lf.contact_number", "lf.posted_by", "lf.status", "lf.claimed_by",
		"lf.created_at", "lf.updated_at",
		"pu.full_name", "pu.email", "pu.registration_number", "pu.role",
		"cu.full_name", "cu.email",
	).From("lost_found_items lf").
		Join("users pu ON lf.posted_by = pu.id").
		LeftJoin("users cu ON lf.claimed_by = cu.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanItemDetails(row pgx.Row) (*LostFoundDetails, error) {
	var item LostFoundDetails
	var posterName, posterEmail, posterRegNo string
	var posterRole models.RoleType
	var claimerName, claimerEmail *string
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Type, &item.Category, &item.Location,
		&item.Images, &item.ContactNumber, &item.PostedByID, &item.Status, &item.ClaimedByID,
		&item.CreatedAt, &item.UpdatedAt,
		&posterName, &posterEmail, &posterRegNo, &posterRole,
		&claimerName, &claimerEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrItemNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lost & found details")
		return nil, err
	}
	item.PostedBy = &models.UserSummary{
		ID:                 item.PostedByID,
		FullName:           posterName,
		Email:              posterEmail,
		RegistrationNumber: posterRegNo,
		Role:               posterRole,
	}
	if item.ClaimedByID != nil && claimerName != nil {
		item.ClaimedBy = &models.UserSummary{
			ID:       *item.ClaimedByID,
			FullName: *claimerName,
			Email:    derefString(claimerEmail),
		}
	}
	return &item, nil
}

// CreateItem inserts a new lost & found post and returns the generated ID.
func (r *LostFoundRepository) CreateItem(ctx context.Context, item *models.LostFoundItem) (int64, error) {
	sql, args, err := squirrel.Insert("lost_found_items").
		Columns("title", "description", "type", "category", "location", "images", "contact_number", "posted_by", "status").
		Values(item.Title, item.Description, item.Type, item.Category, item.Location, item.Images, item.ContactNumber, item.PostedByID, item.Status).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lost & found SQL")
		return 0, err
	}

	err = r.DB.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create lost & found query")
		return 0, err
	}
	return item.ID, nil
}

// GetItemByID retrieves a single post with poster and claimant.
func (r *LostFoundRepository) GetItemByID(ctx context.Context, id int64) (*LostFoundDetails, error) {
	sqlStr, args, err := r.selectItemDetailsQuery().Where(squirrel.Eq{"lf.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanItemDetails(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetAllItems retrieves a paginated, filtered board listing.
func (r *LostFoundRepository) GetAllItems(ctx context.Context, params GetAllItemsParams) ([]*LostFoundDetails, dto.PaginationInfo, error) {
	sqlBuilder := r.selectItemDetailsQuery()
	countBuilder := squirrel.Select("count(*)").From("lost_found_items lf").PlaceholderFormat(squirrel.Dollar)

	applyEq := func(column string, value interface{}) {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{column: value})
		countBuilder = countBuilder.Where(squirrel.Eq{column: value})
	}

	if params.Type != nil {
		applyEq("lf.type", *params.Type)
	}
	if params.Category != nil && *params.Category != "" {
		applyEq("lf.category", *params.Category)
	}
	if params.Status != nil {
		applyEq("lf.status", *params.Status)
	}
	if params.PostedByID != nil {
		applyEq("lf.posted_by", *params.PostedByID)
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count lost & found query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*LostFoundDetails{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlStr, args, err := sqlBuilder.
		OrderBy("lf.created_at DESC").
		Limit(uint64(limit)).Offset(offset).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all lost & found query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	items := make([]*LostFoundDetails, 0)
	for rows.Next() {
		item, err := scanItemDetails(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return items, pagination, nil
}

// UpdateStatus sets the moderation outcome of a post.
func (r *LostFoundRepository) UpdateStatus(ctx context.Context, itemID int64, status models.LostFoundStatus) error {
	sql, args, err := squirrel.Update("lost_found_items").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update lost & found status query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// ClaimItem marks the item claimed by the given user. The conditional update
// is the whole concurrency story: only an approved, unclaimed row matches,
// so of any number of racing claimers exactly one sees RowsAffected()==1.
// On failure the current row is re-read to report why the claim lost.
func (r *LostFoundRepository) ClaimItem(ctx context.Context, itemID, claimerID int64) error {
	sql, args, err := squirrel.Update("lost_found_items").
		Set("status", models.LostFoundStatusClaimed).
		Set("claimed_by", claimerID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID, "status": models.LostFoundStatusApproved}).
		Where("claimed_by IS NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing claim query")
		return err
	}
	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	item, err := r.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.ClaimedByID != nil {
		return apperrors.ErrItemClaimed
	}
	return apperrors.ErrItemNotClaimable
}

// DeleteItem deletes a post by ID.
func (r *LostFoundRepository) DeleteItem(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("lost_found_items").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete lost & found query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}
