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

// IssueDetails is an issue with its reporter and assignee populated.
type IssueDetails struct {
	models.Issue
	RaisedBy   *models.UserSummary `json:"raisedBy,omitempty"`
	AssignedTo *models.UserSummary `json:"assignedTo,omitempty"`
}

// GetAllIssuesParams holds filters and pagination for issue listings.
// VisibleToID restricts the listing to what that student may see: their own
// reports plus anything already resolved or closed.
type GetAllIssuesParams struct {
	Category     *models.IssueCategory
	Status       *models.IssueStatus
	Priority     *models.IssuePriority
	RaisedByID   *int64
	AssignedToID *int64
	VisibleToID  *int64
	Page         int
	Size         int
}

// IssueRepository handles database operations for facility issues.
type IssueRepository struct {
	DB *pgxpool.Pool
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{DB: db}
}

// issueListOrder sorts listings newest first, breaking ties by urgency.
func issueListOrder() []string {
	return []string{
		"i.created_at DESC",
		"CASE i.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END",
	}
}

func (r *IssueRepository) selectIssueDetailsQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"i.id", "i.title", "i.description", "i.category", "i.priority", "i.status",
		"i.raised_by", "i.assigned_to", "i.images", "i.location", "i.resolution_notes",
		"i.created_at", "i.updated_at",
		"ru.full_name", "ru.email", "ru.registration_number", "ru.role",
		"au.full_name", "au.email",
	).From("issues i").
		Join("users ru ON i.raised_by = ru.id").
		LeftJoin("users au ON i.assigned_to = au.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanIssueDetails(row pgx.Row) (*IssueDetails, error) {
	var i IssueDetails
	var raiserName, raiserEmail, raiserRegNo string
	var raiserRole models.RoleType
	var assigneeName, assigneeEmail *string
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.Category, &i.Priority, &i.Status,
		&i.RaisedByID, &i.AssignedToID, &i.Images, &i.Location, &i.ResolutionNotes,
		&i.CreatedAt, &i.UpdatedAt,
		&raiserName, &raiserEmail, &raiserRegNo, &raiserRole,
		&assigneeName, &assigneeEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIssueNotFound
		}
		logger.Error().Err(err).Msg("Error scanning issue details")
		return nil, err
	}
	i.RaisedBy = &models.UserSummary{
		ID:                 i.RaisedByID,
		FullName:           raiserName,
		Email:              raiserEmail,
		RegistrationNumber: raiserRegNo,
		Role:               raiserRole,
	}
	if i.AssignedToID != nil && assigneeName != nil {
		i.AssignedTo = &models.UserSummary{
			ID:       *i.AssignedToID,
			FullName: *assigneeName,
			Email:    derefString(assigneeEmail),
			Role:     models.RoleFaculty,
		}
	}
	return &i, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateIssue inserts a new issue and returns the generated ID.
func (r *IssueRepository) CreateIssue(ctx context.Context, issue *models.Issue) (int64, error) {
	sql, args, err := squirrel.Insert("issues").
		Columns("title", "description", "category", "priority", "status", "raised_by", "images", "location").
		Values(issue.Title, issue.Description, issue.Category, issue.Priority, issue.Status, issue.RaisedByID, issue.Images, issue.Location).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create issue SQL")
		return 0, err
	}

	err = r.DB.QueryRow(ctx, sql, args...).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create issue query")
		return 0, err
	}
	return issue.ID, nil
}

// GetIssueByID retrieves a single issue with reporter and assignee.
func (r *IssueRepository) GetIssueByID(ctx context.Context, id int64) (*IssueDetails, error) {
	sqlStr, args, err := r.selectIssueDetailsQuery().Where(squirrel.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanIssueDetails(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetAllIssues retrieves a paginated, filtered issue listing ordered by
// priority (urgent first) and then recency.
func (r *IssueRepository) GetAllIssues(ctx context.Context, params GetAllIssuesParams) ([]*IssueDetails, dto.PaginationInfo, error) {
	sqlBuilder := r.selectIssueDetailsQuery()
	countBuilder := squirrel.Select("count(*)").From("issues i").PlaceholderFormat(squirrel.Dollar)

	applyEq := func(column string, value interface{}) {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{column: value})
		countBuilder = countBuilder.Where(squirrel.Eq{column: value})
	}

	if params.Category != nil {
		applyEq("i.category", *params.Category)
	}
	if params.Status != nil {
		applyEq("i.status", *params.Status)
	}
	if params.Priority != nil {
		applyEq("i.priority", *params.Priority)
	}
	if params.RaisedByID != nil {
		applyEq("i.raised_by", *params.RaisedByID)
	}
	if params.AssignedToID != nil {
		applyEq("i.assigned_to", *params.AssignedToID)
	}
	if params.VisibleToID != nil {
		cond := squirrel.Or{
			squirrel.Eq{"i.raised_by": *params.VisibleToID},
			squirrel.Eq{"i.status": []models.IssueStatus{models.IssueStatusResolved, models.IssueStatusClosed}},
		}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	var totalItems int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count issues query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*IssueDetails{}, pagination, nil
	}

	sqlBuilder = sqlBuilder.OrderBy(issueListOrder()...)

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlStr, args, err := sqlBuilder.Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all issues query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	issues := make([]*IssueDetails, 0)
	for rows.Next() {
		i, err := scanIssueDetails(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		issues = append(issues, i)
	}
	if err = rows.Err(); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return issues, pagination, nil
}

// AssignIssue hands the issue to a faculty member and moves it to
// in-progress.
func (r *IssueRepository) AssignIssue(ctx context.Context, issueID, facultyID int64) error {
	sql, args, err := squirrel.Update("issues").
		Set("assigned_to", facultyID).
		Set("status", models.IssueStatusInProgress).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": issueID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing assign issue query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIssueNotFound
	}
	return nil
}

// UpdateIssueStatus sets the status and, when provided, resolution notes.
func (r *IssueRepository) UpdateIssueStatus(ctx context.Context, issueID int64, status models.IssueStatus, resolutionNotes *string) error {
	builder := squirrel.Update("issues").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": issueID}).
		PlaceholderFormat(squirrel.Dollar)
	if resolutionNotes != nil {
		builder = builder.Set("resolution_notes", *resolutionNotes)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update issue status query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIssueNotFound
	}
	return nil
}

// CountByStatus counts issues in the given status.
func (r *IssueRepository) CountByStatus(ctx context.Context, status models.IssueStatus) (int64, error) {
	sqlStr, args, err := squirrel.Select("count(*)").From("issues").
		Where(squirrel.Eq{"status": status}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.DB.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count issues query")
		return 0, err
	}
	return count, nil
}
