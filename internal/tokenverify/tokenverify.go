package tokenverify

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing   = errors.New("token_missing")
	ErrInvalidToken   = errors.New("invalid_token")
	ErrTokenExpired   = errors.New("expired")
	ErrSubjectMissing = errors.New("subject_missing")
)

// Parser checks the signature of an access token and returns its claims.
type Parser interface {
	Parse(token string) (*jwt.Token, jwt.MapClaims, error)
}

// Principal is the portal identity an access token speaks for.
type Principal struct {
	UserID string
	Email  string
	Role   string
	// Claims are the remaining claims (role, iat, exp, ...).
	Claims map[string]any
}

func (p *Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

type Verifier struct {
	parser Parser
	now    func() time.Time
}

// NewVerifier uses time.Now when now is nil.
func NewVerifier(parser Parser, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{parser: parser, now: now}
}

// Verify returns one of the package errors for any token it refuses.
func (v *Verifier) Verify(token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMissing
	}
	if v == nil || v.parser == nil {
		return nil, ErrInvalidToken
	}
	tok, claims, err := v.parser.Parse(token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil || tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !v.now().Before(exp.Time) {
		return nil, ErrTokenExpired
	}
	return principalFrom(claims)
}

func principalFrom(claims jwt.MapClaims) (*Principal, error) {
	p := &Principal{Claims: make(map[string]any, len(claims))}
	for k, v := range claims {
		switch k {
		case "sub":
			p.UserID, _ = v.(string)
		case "email":
			p.Email, _ = v.(string)
		default:
			if k == "role" {
				p.Role, _ = v.(string)
			}
			p.Claims[k] = v
		}
	}
	if p.UserID == "" {
		return nil, ErrSubjectMissing
	}
	return p, nil
}

// Reason is the wire code for err, "invalid_token" for anything unrecognised.
func Reason(err error) string {
	for _, known := range []error{ErrTokenMissing, ErrTokenExpired, ErrSubjectMissing} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ErrInvalidToken.Error()
}
