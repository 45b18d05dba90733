package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tausif4802/ggp-backend/config"
)

var errUndecodableToken = errors.New("token could not be decoded")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer interface {
	Issue(ctx context.Context, subject, email, role string) (*TokenPair, error)
	// Decode extracts refresh-token claims without checking the signature.
	Decode(token string) (*Claims, error)
	// Parse verifies an access token.
	Parse(token string) (*jwt.Token, jwt.MapClaims, error)
}

type jwtIssuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg *config.Config) (TokenIssuer, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt access secret required")
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, errors.New("jwt refresh secret required")
	}
	return &jwtIssuer{
		accessKey:  []byte(cfg.JWTSecret),
		refreshKey: []byte(cfg.JWTRefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

func (i *jwtIssuer) Issue(ctx context.Context, subject, email, role string) (*TokenPair, error) {
	var pair TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		tok, err := i.sign(i.accessKey, subject, email, role, i.accessTTL)
		pair.AccessToken = tok
		return err
	})
	g.Go(func() error {
		tok, err := i.sign(i.refreshKey, subject, email, role, i.refreshTTL)
		pair.RefreshToken = tok
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (i *jwtIssuer) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, errUndecodableToken
	}
	return claims, nil
}

func (i *jwtIssuer) Parse(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return i.accessKey, nil
	})
	return token, claims, err
}

func (i *jwtIssuer) sign(key []byte, subject, email, role string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
