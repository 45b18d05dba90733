package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tausif4802/ggp-backend/config"
	natsadapter "github.com/tausif4802/ggp-backend/internal/adapters/nats"
	repo "github.com/tausif4802/ggp-backend/internal/adapters/postgres"
	"github.com/tausif4802/ggp-backend/internal/domain"
	"github.com/tausif4802/ggp-backend/internal/tokenverify"
	"github.com/tausif4802/ggp-backend/pkg/apperror"
	pkglog "github.com/tausif4802/ggp-backend/pkg/log"
)

const (
	msgUserExists     = "User with this email already exists"
	msgUserNotFound   = "User with this email does not exist"
	msgRestricted     = "Account Restricted!"
	msgInvalidPass    = "Invalid password"
	msgAccessDenied   = "Access Denied"
	msgIdentityAbsent = "Identity not found"

	TokenTypeBearer = "Bearer"
)

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SocialLoginInput struct {
	Email     string
	FirstName string
	LastName  string
}

type LoginResult struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	User         domain.PublicIdentity `json:"user"`
}

type UserProfile struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type SocialLoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	UserProfile  UserProfile `json:"user_profile"`
}

type AuthService interface {
	SignUp(ctx context.Context, traceID string, in SignUpInput) (*domain.PublicIdentity, error)
	Login(ctx context.Context, traceID, email, password string) (*LoginResult, error)
	RefreshTokens(ctx context.Context, traceID, refreshToken string) (*LoginResult, error)
	SocialLogin(ctx context.Context, traceID string, in SocialLoginInput) (*SocialLoginResult, error)
	Profile(ctx context.Context, traceID, id string) (*domain.PublicIdentity, error)
	VerifyToken(ctx context.Context, traceID, token string) (*tokenverify.Principal, error)
}

type authService struct {
	cfg       *config.Config
	logger    pkglog.Logger
	users     repo.UserRepository
	clients   repo.ClientRepository
	issuer    TokenIssuer
	hasher    PasswordHasher
	publisher natsadapter.IdentityPublisher
	verifier  *tokenverify.Verifier
	now       func() time.Time
}

// NewAuthService wires the authentication flow. publisher may be nil.
func NewAuthService(cfg *config.Config, logger pkglog.Logger, users repo.UserRepository, clients repo.ClientRepository, issuer TokenIssuer, hasher PasswordHasher, publisher natsadapter.IdentityPublisher) AuthService {
	s := &authService{cfg: cfg, logger: logger, users: users, clients: clients, issuer: issuer, hasher: hasher, publisher: publisher, now: time.Now}
	s.verifier = tokenverify.NewVerifier(issuer, func() time.Time { return s.now() })
	return s
}

func (s *authService) SignUp(ctx context.Context, traceID string, in SignUpInput) (*domain.PublicIdentity, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.BadRequest(msgUserExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user := &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     s.signupRole(email),
		Status:   domain.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	s.announce(ctx, traceID, user.ID, user.Email, user.Role, "signup")

	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("signup")
	public := user.Public()
	return &public, nil
}

// Login checks existence, then account status, then the password; the first failure wins.
func (s *authService) Login(ctx context.Context, traceID, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user.Status == domain.StatusInactive {
		return nil, apperror.BadRequest(msgRestricted)
	}
	if !s.hasher.Compare(user.Password, password) {
		return nil, apperror.BadRequest(msgInvalidPass)
	}
	tokens, err := s.issuer.Issue(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("login")
	return &LoginResult{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, User: user.Public()}, nil
}

// RefreshTokens trusts the decoded claims without checking the signature;
// only the embedded expiry and the subject's existence are enforced.
func (s *authService) RefreshTokens(ctx context.Context, traceID, refreshToken string) (*LoginResult, error) {
	claims, err := s.issuer.Decode(strings.TrimSpace(refreshToken))
	if err != nil || claims == nil || claims.Subject == "" {
		return nil, apperror.Forbidden(msgAccessDenied)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(s.now()) {
		return nil, apperror.Forbidden(msgAccessDenied)
	}

	identity, err := s.findIdentity(ctx, claims.Subject)
	if err != nil {
		s.logger.Warn().Err(err).Str("trace_id", traceID).Str("sub", claims.Subject).Msg("refresh subject lookup failed")
		return nil, apperror.Forbidden(msgAccessDenied)
	}
	tokens, err := s.issuer.Issue(ctx, identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", identity.ID).Msg("tokens refreshed")
	return &LoginResult{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, User: *identity}, nil
}

// SocialLogin reports every failure as a 400.
func (s *authService) SocialLogin(ctx context.Context, traceID string, in SocialLoginInput) (*SocialLoginResult, error) {
	email := normalizeEmail(in.Email)
	client, err := s.clients.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		client = &domain.Client{
			Name:   strings.TrimSpace(in.FirstName + " " + in.LastName),
			Email:  email,
			Role:   domain.RoleClient,
			Status: domain.StatusActive,
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		s.announce(ctx, traceID, client.ID, client.Email, client.Role, "social")
		s.logger.Info().Str("trace_id", traceID).Str("client_id", client.ID).Msg("client provisioned")
	case err != nil:
		return nil, apperror.BadRequest(err.Error())
	}

	tokens, err := s.issuer.Issue(ctx, client.ID, client.Email, client.Role)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	s.logger.Info().Str("trace_id", traceID).Str("client_id", client.ID).Msg("social login")
	return &SocialLoginResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    TokenTypeBearer,
		UserProfile:  UserProfile{Fullname: client.Name, Email: client.Email, Role: client.Role},
	}, nil
}

func (s *authService) Profile(ctx context.Context, traceID, id string) (*domain.PublicIdentity, error) {
	identity, err := s.findIdentity(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(msgIdentityAbsent)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return identity, nil
}

func (s *authService) VerifyToken(ctx context.Context, traceID, token string) (*tokenverify.Principal, error) {
	principal, err := s.verifier.Verify(token)
	if err != nil {
		return nil, apperror.Unauthorized(tokenverify.Reason(err))
	}
	s.logger.Debug().Str("trace_id", traceID).Str("user_id", principal.UserID).Msg("token verified")
	return principal, nil
}

// findIdentity resolves an id against users first and then social-login clients.
func (s *authService) findIdentity(ctx context.Context, id string) (*domain.PublicIdentity, error) {
	user, err := s.users.FindByID(ctx, id)
	if err == nil {
		public := user.Public()
		return &public, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := client.Public()
	return &public, nil
}

// signupRole grants admin to configured emails; everyone else gets the default role.
func (s *authService) signupRole(email string) string {
	for _, admin := range s.cfg.AdminEmails {
		if normalizeEmail(admin) == email {
			return domain.RoleAdmin
		}
	}
	return s.cfg.DefaultRole
}

func (s *authService) announce(ctx context.Context, traceID, id, email, role, source string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.IdentityCreated(ctx, id, email, role, source); err != nil {
		s.logger.Warn().Err(err).Str("trace_id", traceID).Str("id", id).Msg("identity event not published")
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
