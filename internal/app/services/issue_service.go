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
	"github.com/campushub/backend/internal/pkg/filestorage"
	"github.com/campushub/backend/internal/pkg/logger"
)

// MaxIssueImages caps how many images one report may carry.
const MaxIssueImages = 5

// IssueStore is the persistence surface the issue service needs.
type IssueStore interface {
	CreateIssue(ctx context.Context, issue *models.Issue) (int64, error)
	GetIssueByID(ctx context.Context, id int64) (*repositories.IssueDetails, error)
	GetAllIssues(ctx context.Context, params repositories.GetAllIssuesParams) ([]*repositories.IssueDetails, dto.PaginationInfo, error)
	AssignIssue(ctx context.Context, issueID, facultyID int64) error
	UpdateIssueStatus(ctx context.Context, issueID int64, status models.IssueStatus, resolutionNotes *string) error
}

// FacultyLookup resolves assignees by email.
type FacultyLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// IssueService defines the interface for facility issue operations
type IssueService interface {
	CreateIssue(ctx context.Context, actor Actor, req *dto.CreateIssueRequest, images []*multipart.FileHeader) (*repositories.IssueDetails, error)
	GetIssueByID(ctx context.Context, actor Actor, id int64) (*repositories.IssueDetails, error)
	GetAllIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error)
	GetMyIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error)
	GetAssignedIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error)
	AssignIssue(ctx context.Context, actor Actor, id int64, facultyEmail string) (*repositories.IssueDetails, error)
	UpdateIssueStatus(ctx context.Context, actor Actor, id int64, req *dto.UpdateIssueStatusRequest) (*repositories.IssueDetails, error)
}

type issueServiceImpl struct {
	issueRepo IssueStore
	users     FacultyLookup
	files     filestorage.FileStorage
}

// NewIssueService creates a new IssueService
func NewIssueService(issueRepo IssueStore, users FacultyLookup, files filestorage.FileStorage) IssueService {
	return &issueServiceImpl{
		issueRepo: issueRepo,
		users:     users,
		files:     files,
	}
}

// CreateIssue files a new report. Priority defaults to medium and every
// issue starts open.
func (s *issueServiceImpl) CreateIssue(ctx context.Context, actor Actor, req *dto.CreateIssueRequest, images []*multipart.FileHeader) (*repositories.IssueDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionCreate, appauth.ResourceIssue, false) {
		return nil, apperrors.ErrPermissionDenied
	}
	if len(images) > MaxIssueImages {
		return nil, apperrors.NewBadRequestError("at most 5 images are allowed")
	}

	imageURLs := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.files.SaveFile(ctx, img, "issues")
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrUploadFailed, Message: "could not store issue image"}
		}
		imageURLs = append(imageURLs, url)
	}

	priority := models.IssuePriority(req.Priority)
	if priority == "" {
		priority = models.IssuePriorityMedium
	}

	var location *string
	if req.Location != "" {
		location = &req.Location
	}

	issue := &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Category:    models.IssueCategory(req.Category),
		Priority:    priority,
		Status:      models.IssueStatusOpen,
		RaisedByID:  actor.ID,
		Images:      imageURLs,
		Location:    location,
	}

	if _, err := s.issueRepo.CreateIssue(ctx, issue); err != nil {
		return nil, err
	}

	logger.Info().Int64("issue_id", issue.ID).Int64("raised_by", actor.ID).Str("priority", string(priority)).Msg("Issue reported")
	return s.issueRepo.GetIssueByID(ctx, issue.ID)
}

// GetIssueByID retrieves a single issue. Students only see their own reports
// or reports that have already been resolved or closed.
func (s *issueServiceImpl) GetIssueByID(ctx context.Context, actor Actor, id int64) (*repositories.IssueDetails, error) {
	issue, err := s.issueRepo.GetIssueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleStudent && issue.RaisedByID != actor.ID &&
		issue.Status != models.IssueStatusResolved && issue.Status != models.IssueStatusClosed {
		return nil, apperrors.ErrIssueNotFound
	}
	return issue, nil
}

func issueParamsFromQuery(query *dto.IssueListQuery) (repositories.GetAllIssuesParams, error) {
	params := repositories.GetAllIssuesParams{
		Page: query.Page,
		Size: query.Limit,
	}
	if query.Category != "" {
		category := models.IssueCategory(query.Category)
		if !models.ValidIssueCategory(category) {
			return params, apperrors.NewBadRequestError("unknown issue category")
		}
		params.Category = &category
	}
	if query.Status != "" {
		status := models.IssueStatus(query.Status)
		if !models.ValidIssueStatus(status) {
			return params, apperrors.NewBadRequestError("unknown issue status")
		}
		params.Status = &status
	}
	if query.Priority != "" {
		priority := models.IssuePriority(query.Priority)
		if !models.ValidIssuePriority(priority) {
			return params, apperrors.NewBadRequestError("unknown issue priority")
		}
		params.Priority = &priority
	}
	return params, nil
}

// GetAllIssues lists issues. Staff see everything; students see their own
// reports plus whatever is already resolved or closed.
func (s *issueServiceImpl) GetAllIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error) {
	params, err := issueParamsFromQuery(query)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	if actor.Role == models.RoleStudent {
		params.VisibleToID = &actor.ID
	}
	return s.issueRepo.GetAllIssues(ctx, params)
}

// GetMyIssues lists the actor's own reports.
func (s *issueServiceImpl) GetMyIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error) {
	params, err := issueParamsFromQuery(query)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	params.RaisedByID = &actor.ID
	return s.issueRepo.GetAllIssues(ctx, params)
}

// GetAssignedIssues lists issues assigned to the actor.
func (s *issueServiceImpl) GetAssignedIssues(ctx context.Context, actor Actor, query *dto.IssueListQuery) ([]*repositories.IssueDetails, dto.PaginationInfo, error) {
	if actor.Role != models.RoleFaculty && actor.Role != models.RoleAdmin {
		return nil, dto.PaginationInfo{}, apperrors.ErrPermissionDenied
	}
	params, err := issueParamsFromQuery(query)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	params.AssignedToID = &actor.ID
	return s.issueRepo.GetAllIssues(ctx, params)
}

// AssignIssue hands the issue to a verified faculty member and moves it to
// in-progress. Staff only.
func (s *issueServiceImpl) AssignIssue(ctx context.Context, actor Actor, id int64, facultyEmail string) (*repositories.IssueDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionAssign, appauth.ResourceIssue, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	faculty, err := s.users.GetUserByEmail(ctx, facultyEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, err
	}
	if faculty.Role != models.RoleFaculty || !faculty.IsVerified || !faculty.IsActive {
		return nil, apperrors.ErrFacultyNotFound
	}

	if err := s.issueRepo.AssignIssue(ctx, id, faculty.ID); err != nil {
		return nil, err
	}

	logger.Info().Int64("issue_id", id).Int64("assigned_to", faculty.ID).Msg("Issue assigned")
	return s.issueRepo.GetIssueByID(ctx, id)
}

// UpdateIssueStatus moves the issue to a new status. Any admin or faculty
// member may update any issue.
func (s *issueServiceImpl) UpdateIssueStatus(ctx context.Context, actor Actor, id int64, req *dto.UpdateIssueStatusRequest) (*repositories.IssueDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionResolve, appauth.ResourceIssue, false) {
		return nil, apperrors.ErrPermissionDenied
	}
	if _, err := s.issueRepo.GetIssueByID(ctx, id); err != nil {
		return nil, err
	}

	var notes *string
	if req.ResolutionNotes != "" {
		notes = &req.ResolutionNotes
	}

	if err := s.issueRepo.UpdateIssueStatus(ctx, id, models.IssueStatus(req.Status), notes); err != nil {
		return nil, err
	}

	logger.Info().Int64("issue_id", id).Str("status", req.Status).Int64("updated_by", actor.ID).Msg("Issue status updated")
	return s.issueRepo.GetIssueByID(ctx, id)
}
