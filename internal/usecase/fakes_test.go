package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tausif4802/ggp-backend/internal/adapters/cloudinary"
	"github.com/tausif4802/ggp-backend/internal/domain"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
	findErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeClientRepo struct {
	clients   map[string]*domain.Client
	creates   int
	createErr error
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[string]*domain.Client{}}
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	cp := *client
	r.clients[client.ID] = &cp
	return nil
}

func (r *fakeClientRepo) FindByEmail(_ context.Context, email string) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCategoryRepo struct {
	categories  map[string]*domain.Category
	packages    *fakePackageRepo
	findErr     error
	findByIDErr error
}

func newFakeCategoryRepo(packages *fakePackageRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.Category{}, packages: packages}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) FindAll(context.Context) ([]domain.Category, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	if c, ok := r.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) FindByIDWithPackages(ctx context.Context, id string) (*domain.Category, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Packages = []domain.Package{}
	for _, p := range r.packages.packages {
		if p.CategoryID != nil && *p.CategoryID == id {
			c.Packages = append(c.Packages, *p)
		}
	}
	return c, nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*domain.Category, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, c *domain.Category) error {
	delete(r.categories, c.ID)
	return nil
}

type fakePackageRepo struct {
	packages map[string]*domain.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[string]*domain.Package{}}
}

func (r *fakePackageRepo) Create(_ context.Context, p *domain.Package) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	cp.Category = nil
	r.packages[p.ID] = &cp
	return nil
}

func (r *fakePackageRepo) FindAll(context.Context) ([]domain.Package, error) {
	out := make([]domain.Package, 0, len(r.packages))
	for _, p := range r.packages {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePackageRepo) FindByID(_ context.Context, id string) (*domain.Package, error) {
	if p, ok := r.packages[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePackageRepo) FindByName(_ context.Context, name string) (*domain.Package, error) {
	for _, p := range r.packages {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePackageRepo) Update(_ context.Context, p *domain.Package) error {
	cp := *p
	r.packages[p.ID] = &cp
	return nil
}

func (r *fakePackageRepo) Delete(_ context.Context, p *domain.Package) error {
	delete(r.packages, p.ID)
	return nil
}

type fakeUploader struct {
	calls []string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, _, folder, name string) (*cloudinary.UploadResult, error) {
	u.calls = append(u.calls, folder+"/"+name)
	if u.err != nil {
		return nil, u.err
	}
	return &cloudinary.UploadResult{SecureURL: "https://img.example/" + folder + "/" + name}, nil
}

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) IdentityCreated(_ context.Context, id, _, role, source string) error {
	p.events = append(p.events, source+":"+role+":"+id)
	return p.err
}

var errDBDown = errors.New("db down")
