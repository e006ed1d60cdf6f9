package services

import (
	"context"
	"mime/multipart"

	appauth "github.com/campushub/backend/internal/app/auth"
	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/repositories"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/filestorage"
	"github.com/campushub/backend/internal/pkg/logger"
)

// MaxLostFoundImages caps how many images one post may carry.
const MaxLostFoundImages = 5

// LostFoundStore is the persistence surface the lost & found service needs.
type LostFoundStore interface {
	CreateItem(ctx context.Context, item *models.LostFoundItem) (int64, error)
	GetItemByID(ctx context.Context, id int64) (*repositories.LostFoundDetails, error)
	GetAllItems(ctx context.Context, params repositories.GetAllItemsParams) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error)
	UpdateStatus(ctx context.Context, itemID int64, status models.LostFoundStatus) error
	ClaimItem(ctx context.Context, itemID, claimerID int64) error
	DeleteItem(ctx context.Context, id int64) error
}

// LostFoundService defines the interface for lost & found operations
type LostFoundService interface {
	CreateItem(ctx context.Context, actor Actor, req *dto.CreateLostFoundRequest, images []*multipart.FileHeader) (*repositories.LostFoundDetails, error)
	GetItemByID(ctx context.Context, id int64) (*repositories.LostFoundDetails, error)
	GetAllItems(ctx context.Context, actor Actor, query *dto.LostFoundListQuery) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error)
	GetMyPosts(ctx context.Context, actor Actor, query *dto.LostFoundListQuery) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error)
	ModerateItem(ctx context.Context, actor Actor, id int64, approve bool) (*repositories.LostFoundDetails, error)
	ClaimItem(ctx context.Context, actor Actor, id int64) (*repositories.LostFoundDetails, error)
	DeleteItem(ctx context.Context, actor Actor, id int64) error
}

type lostFoundServiceImpl struct {
	itemRepo LostFoundStore
	files    filestorage.FileStorage
}

// NewLostFoundService creates a new LostFoundService
func NewLostFoundService(itemRepo LostFoundStore, files filestorage.FileStorage) LostFoundService {
	return &lostFoundServiceImpl{
		itemRepo: itemRepo,
		files:    files,
	}
}

// CreateItem posts a new lost or found report. Every post starts pending and
// stays off the board until an admin approves it.
func (s *lostFoundServiceImpl) CreateItem(ctx context.Context, actor Actor, req *dto.CreateLostFoundRequest, images []*multipart.FileHeader) (*repositories.LostFoundDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionCreate, appauth.ResourceLostFound, false) {
		return nil, apperrors.ErrPermissionDenied
	}
	if len(images) > MaxLostFoundImages {
		return nil, apperrors.NewBadRequestError("at most 5 images are allowed")
	}

	imageURLs := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.files.SaveFile(ctx, img, "lostfound")
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrUploadFailed, Message: "could not store item image"}
		}
		imageURLs = append(imageURLs, url)
	}

	var contact *string
	if req.ContactNumber != "" {
		contact = &req.ContactNumber
	}

	item := &models.LostFoundItem{
		Title:         req.Title,
		Description:   req.Description,
		Type:          models.LostFoundType(req.Type),
		Category:      req.Category,
		Location:      req.Location,
		Images:        imageURLs,
		ContactNumber: contact,
		PostedByID:    actor.ID,
		Status:        models.LostFoundStatusPending,
	}

	if _, err := s.itemRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	logger.Info().Int64("item_id", item.ID).Int64("posted_by", actor.ID).Str("type", req.Type).Msg("Lost & found post created")
	return s.itemRepo.GetItemByID(ctx, item.ID)
}

// GetItemByID retrieves a single post.
func (s *lostFoundServiceImpl) GetItemByID(ctx context.Context, id int64) (*repositories.LostFoundDetails, error) {
	return s.itemRepo.GetItemByID(ctx, id)
}

// GetAllItems lists board posts. Non-admins may only browse approved and
// claimed posts; the pending queue belongs to moderation.
func (s *lostFoundServiceImpl) GetAllItems(ctx context.Context, actor Actor, query *dto.LostFoundListQuery) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error) {
	params := repositories.GetAllItemsParams{
		Page: query.Page,
		Size: query.Limit,
	}
	if query.Type != "" {
		itemType := models.LostFoundType(query.Type)
		if !models.ValidLostFoundType(itemType) {
			return nil, dto.PaginationInfo{}, apperrors.NewBadRequestError("unknown post type")
		}
		params.Type = &itemType
	}
	if query.Category != "" {
		params.Category = &query.Category
	}

	status := models.LostFoundStatus(query.Status)
	if actor.Role != models.RoleAdmin && status != models.LostFoundStatusApproved && status != models.LostFoundStatusClaimed {
		status = models.LostFoundStatusApproved
	}
	params.Status = &status

	return s.itemRepo.GetAllItems(ctx, params)
}

// GetMyPosts lists the actor's own posts in any status.
func (s *lostFoundServiceImpl) GetMyPosts(ctx context.Context, actor Actor, query *dto.LostFoundListQuery) ([]*repositories.LostFoundDetails, dto.PaginationInfo, error) {
	params := repositories.GetAllItemsParams{
		PostedByID: &actor.ID,
		Page:       query.Page,
		Size:       query.Limit,
	}
	if query.Type != "" {
		itemType := models.LostFoundType(query.Type)
		if !models.ValidLostFoundType(itemType) {
			return nil, dto.PaginationInfo{}, apperrors.NewBadRequestError("unknown post type")
		}
		params.Type = &itemType
	}
	return s.itemRepo.GetAllItems(ctx, params)
}

// ModerateItem approves or rejects a pending post. Staff only.
func (s *lostFoundServiceImpl) ModerateItem(ctx context.Context, actor Actor, id int64, approve bool) (*repositories.LostFoundDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionModerate, appauth.ResourceLostFound, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.LostFoundStatusPending {
		return nil, apperrors.NewConflictError("post has already been moderated")
	}

	status := models.LostFoundStatusRejected
	if approve {
		status = models.LostFoundStatusApproved
	}
	if err := s.itemRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	logger.Info().Int64("item_id", id).Str("status", string(status)).Int64("moderated_by", actor.ID).Msg("Lost & found post moderated")
	return s.itemRepo.GetItemByID(ctx, id)
}

// ClaimItem claims an approved post for the actor. The repository update is
// conditional, so concurrent claims resolve to exactly one winner. Posters
// cannot claim their own items.
func (s *lostFoundServiceImpl) ClaimItem(ctx context.Context, actor Actor, id int64) (*repositories.LostFoundDetails, error) {
	if !appauth.Can(actor.Role, appauth.ActionClaim, appauth.ResourceLostFound, false) {
		return nil, apperrors.ErrPermissionDenied
	}

	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.PostedByID == actor.ID {
		return nil, apperrors.ErrSelfClaim
	}

	if err := s.itemRepo.ClaimItem(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	logger.Info().Int64("item_id", id).Int64("claimed_by", actor.ID).Msg("Lost & found item claimed")
	return s.itemRepo.GetItemByID(ctx, id)
}

// DeleteItem removes a post and its images. Authors delete their own posts,
// admins any post.
func (s *lostFoundServiceImpl) DeleteItem(ctx context.Context, actor Actor, id int64) error {
	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		return err
	}

	owner := item.PostedByID == actor.ID
	if !appauth.Can(actor.Role, appauth.ActionDelete, appauth.ResourceLostFound, owner) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.itemRepo.DeleteItem(ctx, id); err != nil {
		return err
	}
	for _, url := range item.Images {
		if err := s.files.DeleteFile(ctx, url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Could not remove item image")
		}
	}

	logger.Info().Int64("item_id", id).Int64("deleted_by", actor.ID).Msg("Lost & found post deleted")
	return nil
}
