package service

import (
	"context"
	"errors"

	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
)

// AdminStore is the persistence surface the admin service needs.
// *repository.AdminRepository implements it.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}

// AdminService handles administrator registration and authentication.
type AdminService struct {
	admins AdminStore
	auth   *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, auth *AuthService) *AdminService {
	return &AdminService{admins: admins, auth: auth}
}

// Register creates a new admin account. Intended for setup time only.
func (s *AdminService) Register(ctx context.Context, req model.AdminRegisterRequest) (*model.Admin, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{Username: req.Username, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login authenticates an admin and issues an admin-scoped token. Unknown
// usernames and wrong passwords are reported identically.
func (s *AdminService) Login(ctx context.Context, req model.AdminLoginRequest) (string, *model.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}

	token, err := s.auth.GenerateToken(admin.ID, TokenKindAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	return s.admins.GetByID(ctx, id)
}
