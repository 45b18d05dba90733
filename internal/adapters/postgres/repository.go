package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tausif4802/ggp-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByEmail(ctx context.Context, email string) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByIDWithPackages(ctx context.Context, id string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, category *domain.Category) error
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	FindAll(ctx context.Context) ([]domain.Package, error)
	FindByID(ctx context.Context, id string) (*domain.Package, error)
	FindByName(ctx context.Context, name string) (*domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
	Delete(ctx context.Context, pkg *domain.Package) error
}

type userRepo struct{ db *gorm.DB }

type clientRepo struct{ db *gorm.DB }

type categoryRepo struct{ db *gorm.DB }

type packageRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }
func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }
func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }
func NewPackageRepository(db *gorm.DB) PackageRepository { return &packageRepo{db: db} }

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{&domain.User{}, &domain.Client{}, &domain.Category{}, &domain.Package{}}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("created_at").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByIDWithPackages(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Preload("Packages").Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	if category.Packages == nil {
		category.Packages = []domain.Package{}
	}
	return &category, nil
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Omit("Packages").Save(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Delete(category).Error
}

func (r *packageRepo) Create(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Omit("Category").Create(pkg).Error
}

func (r *packageRepo) FindAll(ctx context.Context) ([]domain.Package, error) {
	var packages []domain.Package
	if err := r.db.WithContext(ctx).Order("created_at").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepo) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepo) FindByName(ctx context.Context, name string) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepo) Update(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Omit("Category").Save(pkg).Error
}

func (r *packageRepo) Delete(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Delete(pkg).Error
}
