package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portsrepo "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/repositories"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

// categoryService is the chart-of-accounts registry.
type categoryService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewCategoryService creates a new category registry.
func NewCategoryService(txManager portsrepo.TransactionManager) portssvc.CategorySvcFacade {
	return &categoryService{txManager: txManager}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// FindOrCreate returns the (seller, type, name) category, creating it when absent.
// A concurrent creator winning the insert is tolerated by re-reading its row.
func (s *categoryService) FindOrCreate(ctx context.Context, uow portsrepo.UnitOfWork, sellerID string, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required")
	}
	if !categoryType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown category type '%s'", categoryType))
	}

	repo := uow.Categories()
	existing, err := repo.FindCategoryByName(ctx, sellerID, categoryType, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		SellerID:    sellerID,
		Name:        name,
		Type:        categoryType,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := repo.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Category created concurrently, re-reading",
				slog.String("seller_id", sellerID),
				slog.String("category_type", string(categoryType)),
				slog.String("name", name))
			return repo.FindCategoryByName(ctx, sellerID, categoryType, name)
		}
		return nil, err
	}

	s.LogDebug(ctx, "Category created",
		slog.String("seller_id", sellerID),
		slog.String("category_id", category.CategoryID),
		slog.String("name", name))
	return &category, nil
}

// CreateCategory adds a category to the seller's chart of accounts.
func (s *categoryService) CreateCategory(ctx context.Context, sellerID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, s.Observe("create_category", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, s.Observe("create_category", apperrors.NewValidationError("category name is required"))
	}

	var created domain.Category
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		repo := uow.Categories()
		parentID := normalizeOptional(req.ParentID)
		if parentID != nil {
			parent, err := repo.FindCategoryByID(ctx, sellerID, *parentID)
			if err != nil {
				return err
			}
			if parent.Type != req.Type {
				return apperrors.NewValidationError(fmt.Sprintf("parent category %s is %s, not %s", parent.CategoryID, parent.Type, req.Type))
			}
		}

		now := s.Now()
		created = domain.Category{
			CategoryID:  uuid.NewString(),
			SellerID:    sellerID,
			Name:        name,
			Type:        req.Type,
			ParentID:    parentID,
			AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := repo.SaveCategory(ctx, created); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.NewAppError(apperrors.KindConflict, fmt.Sprintf("category '%s' of type %s already exists", name, req.Type), err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create category", slog.String("seller_id", sellerID))
		return nil, s.Observe("create_category", err)
	}

	s.LogInfo(ctx, "Category created successfully",
		slog.String("seller_id", sellerID),
		slog.String("category_id", created.CategoryID))
	s.Observe("create_category", nil)
	return &created, nil
}

// ListCategories lists the seller's categories, optionally by type.
func (s *categoryService) ListCategories(ctx context.Context, sellerID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	if categoryType != nil && !categoryType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown category type '%s'", *categoryType))
	}
	var categories []domain.Category
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		categories, err = uow.Categories().ListCategories(ctx, sellerID, categoryType)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("seller_id", sellerID))
		return nil, err
	}
	return categories, nil
}
