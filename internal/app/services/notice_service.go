package services

import (
	"context"
	"mime/multipart"
	"time"

	appauth "github.com/campushub/backend/internal/app/auth"
	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/repositories"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/filestorage"
	"github.com/campushub/backend/internal/pkg/logger"
)

// NoticeStore is the persistence surface the notice service needs.
type NoticeStore interface {
	CreateNotice(ctx context.Context, notice *models.Notice) (int64, error)
	GetNoticeByID(ctx context.Context, id int64) (*repositories.NoticeDetails, error)
	GetAllNotices(ctx context.Context, params repositories.GetAllNoticesParams) ([]*repositories.NoticeDetails, dto.PaginationInfo, error)
	UpdateNotice(ctx context.Context, notice *models.Notice) error
	DeleteNotice(ctx context.Context, id int64) error
}

// NoticeService defines the interface for notice operations
type NoticeService interface {
	CreateNotice(ctx context.Context, actor Actor, req *dto.CreateNoticeRequest, attachment *multipart.FileHeader) (*repositories.NoticeDetails, error)
	GetNoticeByID(ctx context.Context, id int64) (*repositories.NoticeDetails, error)
	GetAllNotices(ctx context.Context, actor Actor, query *dto.NoticeListQuery) ([]*repositories.NoticeDetails, dto.PaginationInfo, error)
	UpdateNotice(ctx context.Context, actor Actor, id int64, req *dto.UpdateNoticeRequest) (*repositories.NoticeDetails, error)
	DeleteNotice(ctx context.Context, actor Actor, id int64) error
}

type noticeServiceImpl struct {
	noticeRepo NoticeStore
	files      filestorage.FileStorage
}

// NewNoticeService creates a new NoticeService
func NewNoticeService(noticeRepo NoticeStore, files filestorage.FileStorage) NoticeService {
	return &noticeServiceImpl{
		noticeRepo: noticeRepo,
		files:      files,
	}
}

const eventDateLayout = "2006-01-02"

func parseEventDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse(eventDateLayout, value)
	}
	if err != nil {
		return nil, apperrors.NewBadRequestError("eventDate must be an ISO date")
	}
	return &t, nil
}

// CreateNotice publishes a new notice authored by the actor. Only admin
// notices may be pinned at creation.
func (s *noticeServiceImpl) CreateNotice(ctx context.Context, actor Actor, req *dto.CreateNoticeRequest, attachment *multipart.FileHeader) (*repositories.NoticeDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionCreate, appauth.ResourceNotice, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	var fileURL *string
	if attachment != nil {
		url, err := s.files.SaveFile(ctx, attachment, "notices")
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrUploadFailed, Message: "could not store notice attachment"}
		}
		fileURL = &url
	}

	notice := &models.Notice{
		Title:     req.Title,
		Content:   req.Content,
		Category:  models.NoticeCategory(req.Category),
		Status:    models.NoticeStatusPublished,
		AuthorID:  actor.ID,
		EventDate: eventDate,
		IsPinned:  req.IsPinned && actor.Role == models.RoleAdmin,
		FileURL:   fileURL,
	}

	if _, err := s.noticeRepo.CreateNotice(ctx, notice); err != nil {
		return nil, err
	}

	logger.Info().Int64("notice_id", notice.ID).Int64("author_id", actor.ID).Msg("Notice created")
	return s.noticeRepo.GetNoticeByID(ctx, notice.ID)
}

// GetNoticeByID retrieves a single notice.
func (s *noticeServiceImpl) GetNoticeByID(ctx context.Context, id int64) (*repositories.NoticeDetails, error) {
	return s.noticeRepo.GetNoticeByID(ctx, id)
}

// GetAllNotices lists notices. Posts awaiting re-approval are only shown to
// admins.
func (s *noticeServiceImpl) GetAllNotices(ctx context.Context, actor Actor, query *dto.NoticeListQuery) ([]*repositories.NoticeDetails, dto.PaginationInfo, error) {
	params := repositories.GetAllNoticesParams{
		IncludePending: actor.Role == models.RoleAdmin,
		Sort:           query.Sort,
		Page:           query.Page,
		Size:           query.Limit,
	}
	if query.Category != "" {
		category := models.NoticeCategory(query.Category)
		if !models.ValidNoticeCategory(category) {
			return nil, dto.PaginationInfo{}, apperrors.NewBadRequestError("unknown notice category")
		}
		params.Category = &category
	}
	return s.noticeRepo.GetAllNotices(ctx, params)
}

// UpdateNotice applies a partial edit. A faculty edit demotes the notice to
// pending approval and unpins it; an admin edit publishes immediately and
// may pin.
func (s *noticeServiceImpl) UpdateNotice(ctx context.Context, actor Actor, id int64, req *dto.UpdateNoticeRequest) (*repositories.NoticeDetails, error) {
	details, err := s.noticeRepo.GetNoticeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := details.AuthorID == actor.ID
	if !appauth.Can(actor.Role, appauth.ActionUpdate, appauth.ResourceNotice, owner) {
		return nil, apperrors.ErrPermissionDenied
	}

	notice := details.Notice
	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Content != nil {
		notice.Content = *req.Content
	}
	if req.Category != nil {
		notice.Category = models.NoticeCategory(*req.Category)
	}
	if req.EventDate != nil {
		eventDate, err := parseEventDate(*req.EventDate)
		if err != nil {
			return nil, err
		}
		notice.EventDate = eventDate
	}

	switch actor.Role {
	case models.RoleAdmin:
		notice.Status = models.NoticeStatusPublished
		notice.EditedByFaculty = false
		if req.IsPinned != nil {
			notice.IsPinned = *req.IsPinned
		}
	default:
		// Faculty edits wait for an admin to approve them again.
		notice.Status = models.NoticeStatusPendingApproval
		notice.EditedByFaculty = true
		notice.IsPinned = false
	}

	if err := s.noticeRepo.UpdateNotice(ctx, &notice); err != nil {
		return nil, err
	}

	logger.Info().Int64("notice_id", id).Str("status", string(notice.Status)).Msg("Notice updated")
	return s.noticeRepo.GetNoticeByID(ctx, id)
}

// DeleteNotice removes a notice and its attachment.
func (s *noticeServiceImpl) DeleteNotice(ctx context.Context, actor Actor, id int64) error {
	details, err := s.noticeRepo.GetNoticeByID(ctx, id)
	if err != nil {
		return err
	}

	owner := details.AuthorID == actor.ID
	if !appauth.Can(actor.Role, appauth.ActionDelete, appauth.ResourceNotice, owner) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.noticeRepo.DeleteNotice(ctx, id); err != nil {
		return err
	}
	if details.FileURL != nil {
		if err := s.files.DeleteFile(ctx, *details.FileURL); err != nil {
			logger.Warn().Err(err).Str("url", *details.FileURL).Msg("Could not remove notice attachment")
		}
	}

	logger.Info().Int64("notice_id", id).Int64("deleted_by", actor.ID).Msg("Notice deleted")
	return nil
}
