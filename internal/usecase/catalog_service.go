package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tausif4802/ggp-backend/internal/adapters/cloudinary"
	repo "github.com/tausif4802/ggp-backend/internal/adapters/postgres"
	"github.com/tausif4802/ggp-backend/internal/domain"
	"github.com/tausif4802/ggp-backend/pkg/apperror"
	pkglog "github.com/tausif4802/ggp-backend/pkg/log"
)

const (
	folderCategories = "categories"
	folderPackages   = "packages"

	msgCategoryExists   = "Category with this name already exists"
	msgPackageExists    = "Package with this name already exists"
	msgCategoryNotFound = "Category not found"
	msgPackageNotFound  = "Package not found"
)

type CategoryInput struct {
	Name        string
	Description string
	Image       string
}

// CategoryPatch holds the attributes to merge; nil fields are left untouched.
type CategoryPatch struct {
	Name        *string
	Description *string
	Image       *string
}

type PackageInput struct {
	Name        string
	Description string
	Price       float64
	Duration    string
	Location    string
	Image       string
	CategoryID  string
}

type PackagePatch struct {
	Name        *string
	Description *string
	Price       *float64
	Duration    *string
	Location    *string
	Image       *string
	CategoryID  *string
}

// CatalogCache holds read views of categories. Implementations must treat
// every failure as a miss.
type CatalogCache interface {
	Categories(ctx context.Context) ([]domain.Category, bool)
	SetCategories(ctx context.Context, categories []domain.Category)
	Category(ctx context.Context, id string) (*domain.CategoryDetail, bool)
	SetCategory(ctx context.Context, category *domain.CategoryDetail)
	Invalidate(ctx context.Context, categoryIDs ...string)
}

type CatalogService interface {
	CreateCategory(ctx context.Context, traceID string, in CategoryInput) (*domain.Category, error)
	CreatePackage(ctx context.Context, traceID string, in PackageInput) (*domain.Package, error)
	GetAllCategories(ctx context.Context, traceID string) ([]domain.Category, error)
	GetAllPackages(ctx context.Context, traceID string) ([]domain.Package, error)
	GetCategoryByID(ctx context.Context, traceID, id string) (*domain.CategoryDetail, error)
	GetPackageByID(ctx context.Context, traceID, id string) (*domain.Package, error)
	UpdateCategory(ctx context.Context, traceID, id string, patch CategoryPatch) (*domain.Category, error)
	UpdatePackage(ctx context.Context, traceID, id string, patch PackagePatch) (*domain.Package, error)
	DeleteCategory(ctx context.Context, traceID, id string) error
	DeletePackage(ctx context.Context, traceID, id string) error
}

type catalogService struct {
	logger     pkglog.Logger
	categories repo.CategoryRepository
	packages   repo.PackageRepository
	uploader   cloudinary.Uploader
	cache      CatalogCache
}

// NewCatalogService wires catalog CRUD. cache may be nil.
func NewCatalogService(logger pkglog.Logger, categories repo.CategoryRepository, packages repo.PackageRepository, uploader cloudinary.Uploader, cache CatalogCache) CatalogService {
	if cache == nil {
		cache = noopCache{}
	}
	return &catalogService{logger: logger, categories: categories, packages: packages, uploader: uploader, cache: cache}
}

func (s *catalogService) CreateCategory(ctx context.Context, traceID string, in CategoryInput) (*domain.Category, error) {
	if _, err := s.categories.FindByName(ctx, in.Name); err == nil {
		return nil, apperror.BadRequest(msgCategoryExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream(err)
	}

	image, err := s.upload(ctx, in.Image, folderCategories, in.Name)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: in.Name, Description: in.Description, Image: image}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, upstream(err)
	}
	s.cache.Invalidate(ctx, category.ID)
	s.logger.Info().Str("trace_id", traceID).Str("category_id", category.ID).Msg("category created")
	return category, nil
}

func (s *catalogService) CreatePackage(ctx context.Context, traceID string, in PackageInput) (*domain.Package, error) {
	if _, err := s.packages.FindByName(ctx, in.Name); err == nil {
		return nil, apperror.BadRequest(msgPackageExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream(err)
	}

	image, err := s.upload(ctx, in.Image, folderPackages, in.Name)
	if err != nil {
		return nil, err
	}
	// an unknown category leaves the package unassigned
	category, err := s.lookupCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, upstream(err)
	}
	pkg := &domain.Package{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Location:    in.Location,
		Image:       image,
	}
	if category != nil {
		pkg.CategoryID = &category.ID
		pkg.Category = category
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, upstream(err)
	}
	s.cache.Invalidate(ctx, categoryKeys(pkg.CategoryID)...)
	s.logger.Info().Str("trace_id", traceID).Str("package_id", pkg.ID).Msg("package created")
	return pkg, nil
}

func (s *catalogService) GetAllCategories(ctx context.Context, traceID string) ([]domain.Category, error) {
	if cached, ok := s.cache.Categories(ctx); ok {
		return cached, nil
	}
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	s.cache.SetCategories(ctx, categories)
	return categories, nil
}

func (s *catalogService) GetAllPackages(ctx context.Context, traceID string) ([]domain.Package, error) {
	packages, err := s.packages.FindAll(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	if packages == nil {
		packages = []domain.Package{}
	}
	return packages, nil
}

func (s *catalogService) GetCategoryByID(ctx context.Context, traceID, id string) (*domain.CategoryDetail, error) {
	if !validID(id) {
		return nil, apperror.NotFound(msgCategoryNotFound)
	}
	if cached, ok := s.cache.Category(ctx, id); ok {
		return cached, nil
	}
	category, err := s.categories.FindByIDWithPackages(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, upstream(err)
	}
	detail := category.Detail()
	s.cache.SetCategory(ctx, detail)
	return detail, nil
}

func (s *catalogService) GetPackageByID(ctx context.Context, traceID, id string) (*domain.Package, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, traceID, id string, patch CategoryPatch) (*domain.Category, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}
	if patch.Image != nil {
		category.Image = *patch.Image
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, upstream(err)
	}
	s.cache.Invalidate(ctx, category.ID)
	s.logger.Info().Str("trace_id", traceID).Str("category_id", category.ID).Msg("category updated")
	return category, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, traceID, id string, patch PackagePatch) (*domain.Package, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	touched := categoryKeys(pkg.CategoryID)
	if patch.Name != nil {
		pkg.Name = *patch.Name
	}
	if patch.Description != nil {
		pkg.Description = *patch.Description
	}
	if patch.Price != nil {
		pkg.Price = *patch.Price
	}
	if patch.Duration != nil {
		pkg.Duration = *patch.Duration
	}
	if patch.Location != nil {
		pkg.Location = *patch.Location
	}
	if patch.Image != nil {
		pkg.Image = *patch.Image
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			pkg.CategoryID = nil
		} else {
			category, err := s.lookupCategory(ctx, *patch.CategoryID)
			if err != nil {
				return nil, upstream(err)
			}
			if category == nil {
				return nil, apperror.NotFound(msgCategoryNotFound)
			}
			pkg.CategoryID = &category.ID
		}
	}
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, upstream(err)
	}
	s.cache.Invalidate(ctx, append(touched, categoryKeys(pkg.CategoryID)...)...)
	s.logger.Info().Str("trace_id", traceID).Str("package_id", pkg.ID).Msg("package updated")
	return pkg, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, traceID, id string) error {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, category); err != nil {
		return upstream(err)
	}
	s.cache.Invalidate(ctx, category.ID)
	s.logger.Info().Str("trace_id", traceID).Str("category_id", category.ID).Msg("category deleted")
	return nil
}

func (s *catalogService) DeletePackage(ctx context.Context, traceID, id string) error {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return err
	}
	if err := s.packages.Delete(ctx, pkg); err != nil {
		return upstream(err)
	}
	s.cache.Invalidate(ctx, categoryKeys(pkg.CategoryID)...)
	s.logger.Info().Str("trace_id", traceID).Str("package_id", pkg.ID).Msg("package deleted")
	return nil
}

func (s *catalogService) findCategory(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, apperror.NotFound(msgCategoryNotFound)
	}
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(msgCategoryNotFound)
	}
	if err != nil {
		return nil, upstream(err)
	}
	return category, nil
}

func (s *catalogService) findPackage(ctx context.Context, id string) (*domain.Package, error) {
	if !validID(id) {
		return nil, apperror.NotFound(msgPackageNotFound)
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(msgPackageNotFound)
	}
	if err != nil {
		return nil, upstream(err)
	}
	return pkg, nil
}

func (s *catalogService) lookupCategory(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return category, err
}

func (s *catalogService) upload(ctx context.Context, data, folder, name string) (string, error) {
	if data == "" {
		return "", nil
	}
	res, err := s.uploader.Upload(ctx, data, folder, name)
	if err != nil {
		return "", upstream(err)
	}
	return res.SecureURL, nil
}

// upstream keeps an upstream status (e.g. an image-service 4xx) and defaults to 500.
func upstream(err error) error {
	return apperror.Wrap(err, http.StatusInternalServerError)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func categoryKeys(id *string) []string {
	if id == nil {
		return nil
	}
	return []string{*id}
}

type noopCache struct{}

func (noopCache) Categories(context.Context) ([]domain.Category, bool) { return nil, false }
func (noopCache) SetCategories(context.Context, []domain.Category) {}
func (noopCache) Category(context.Context, string) (*domain.CategoryDetail, bool) { return nil, false }
func (noopCache) SetCategory(context.Context, *domain.CategoryDetail) {}
func (noopCache) Invalidate(context.Context, ...string) {}
