package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tausif4802/ggp-backend/internal/adapters/http/validator"
	"github.com/tausif4802/ggp-backend/internal/adapters/oauth"
	"github.com/tausif4802/ggp-backend/internal/domain"
	"github.com/tausif4802/ggp-backend/internal/tokenverify"
	"github.com/tausif4802/ggp-backend/internal/usecase"
	"github.com/tausif4802/ggp-backend/pkg/apperror"
	res "github.com/tausif4802/ggp-backend/pkg/http"
)

type mockAuthService struct {
	signUpFn      func(in usecase.SignUpInput) (*domain.PublicIdentity, error)
	loginFn       func(email, password string) (*usecase.LoginResult, error)
	refreshFn     func(token string) (*usecase.LoginResult, error)
	socialFn      func(in usecase.SocialLoginInput) (*usecase.SocialLoginResult, error)
	profileFn     func(id string) (*domain.PublicIdentity, error)
	verifyTokenFn func(token string) (*tokenverify.Principal, error)
}

func (m *mockAuthService) SignUp(_ context.Context, _ string, in usecase.SignUpInput) (*domain.PublicIdentity, error) {
	return m.signUpFn(in)
}

func (m *mockAuthService) Login(_ context.Context, _ string, email, password string) (*usecase.LoginResult, error) {
	return m.loginFn(email, password)
}

func (m *mockAuthService) RefreshTokens(_ context.Context, _ string, token string) (*usecase.LoginResult, error) {
	return m.refreshFn(token)
}

func (m *mockAuthService) SocialLogin(_ context.Context, _ string, in usecase.SocialLoginInput) (*usecase.SocialLoginResult, error) {
	return m.socialFn(in)
}

func (m *mockAuthService) Profile(_ context.Context, _ string, id string) (*domain.PublicIdentity, error) {
	return m.profileFn(id)
}

func (m *mockAuthService) VerifyToken(_ context.Context, _ string, token string) (*tokenverify.Principal, error) {
	return m.verifyTokenFn(token)
}

var _ usecase.AuthService = (*mockAuthService)(nil)

type stubProvider struct {
	authURL  string
	profile  *oauth.Profile
	err      error
	gotCode  string
	gotState string
}

func (p *stubProvider) AuthURL(state string) string {
	p.gotState = state
	return p.authURL + "?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	p.gotCode = code
	return p.profile, p.err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) res.ErrorResponse {
	t.Helper()
	var resp res.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) res.Response {
	t.Helper()
	var resp res.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpSuccess(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		signUpFn: func(in usecase.SignUpInput) (*domain.PublicIdentity, error) {
			if in.Email != "rafi@example.com" || in.Name != "Rafi" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.PublicIdentity{ID: "u-1", Name: in.Name, Email: in.Email, Role: "user"}, nil
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/signup", map[string]string{
		"name": "Rafi", "email": "rafi@example.com", "password": "secret1",
	})
	rec := httptest.NewRecorder()
	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "User created successfully" {
		t.Fatalf("message = %q", resp.Message)
	}
	data := resp.Data.(map[string]interface{})
	if _, ok := data["password"]; ok {
		t.Fatalf("password leaked: %+v", data)
	}
}

func TestSignUpValidationFailure(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&mockAuthService{}, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/signup", map[string]string{"email": "nope"})
	rec := httptest.NewRecorder()
	_ = h.SignUp(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(resp.Message, "email must be an email") {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		signUpFn: func(usecase.SignUpInput) (*domain.PublicIdentity, error) {
			return nil, apperror.BadRequest("User with this email already exists")
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/signup", map[string]string{
		"name": "Rafi", "email": "rafi@example.com", "password": "secret1",
	})
	rec := httptest.NewRecorder()
	_ = h.SignUp(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeError(t, rec).Message; msg != "User with this email already exists" {
		t.Fatalf("message = %q", msg)
	}
}

func TestLoginSuccess(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		loginFn: func(email, password string) (*usecase.LoginResult, error) {
			if email != "rafi@example.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &usecase.LoginResult{AccessToken: "a", RefreshToken: "r", User: domain.PublicIdentity{ID: "u-1"}}, nil
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": "rafi@example.com", "password": "secret1"})
	rec := httptest.NewRecorder()
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if resp.Message != "Login successful" || data["access_token"] != "a" || data["refresh_token"] != "r" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoginRestricted(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		loginFn: func(string, string) (*usecase.LoginResult, error) {
			return nil, apperror.BadRequest("Account Restricted!")
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": "rafi@example.com", "password": "x"})
	rec := httptest.NewRecorder()
	_ = h.Login(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "Account Restricted!" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshTokenSources(t *testing.T) {
	cases := []struct {
		name  string
		setup func(req *http.Request)
		body  map[string]string
	}{
		{name: "body", body: map[string]string{"refresh_token": "tok"}},
		{name: "cookie", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "tok"})
		}},
		{name: "bearer", setup: func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			svc := &mockAuthService{
				refreshFn: func(token string) (*usecase.LoginResult, error) {
					if token != "tok" {
						t.Fatalf("token = %q", token)
					}
					return &usecase.LoginResult{AccessToken: "a2", RefreshToken: "r2"}, nil
				},
			}
			h := NewAuthHandler(svc, nil, time.Hour)
			body := tc.body
			if body == nil {
				body = map[string]string{}
			}
			req := jsonRequest(http.MethodPost, "/auth/refresh", body)
			if tc.setup != nil {
				tc.setup(req)
			}
			rec := httptest.NewRecorder()
			if err := h.Refresh(e.NewContext(req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestRefreshDenied(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		refreshFn: func(string) (*usecase.LoginResult, error) {
			return nil, apperror.Forbidden("Access Denied")
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": "stale"})
	rec := httptest.NewRecorder()
	_ = h.Refresh(e.NewContext(req, rec))
	if rec.Code != http.StatusForbidden || decodeError(t, rec).Message != "Access Denied" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&mockAuthService{}, nil, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decodeResponse(t, rec).Message != "Logged out!" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
	cookie := findCookie(rec, refreshCookieName)
	if cookie == nil {
		t.Fatalf("refresh cookie not cleared")
	}
	if cookie.Value != "" || !cookie.HttpOnly || cookie.Secure || cookie.SameSite != http.SameSiteNoneMode {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("cookie not expired: %+v", cookie)
	}
}

func TestSocialLoginSetsRefreshCookie(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		socialFn: func(in usecase.SocialLoginInput) (*usecase.SocialLoginResult, error) {
			if in.FirstName != "Nadia" || in.LastName != "Islam" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &usecase.SocialLoginResult{
				AccessToken:  "a",
				RefreshToken: "r",
				TokenType:    usecase.TokenTypeBearer,
				UserProfile:  usecase.UserProfile{Fullname: "Nadia Islam", Email: in.Email, Role: "client"},
			}, nil
		},
	}
	h := NewAuthHandler(svc, nil, 48*time.Hour)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	req := jsonRequest(http.MethodPost, "/auth/social-login", map[string]string{
		"email": "nadia@example.com", "firstName": "Nadia", "lastName": "Islam",
	})
	rec := httptest.NewRecorder()
	if err := h.SocialLogin(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if resp.Message != "Authenticated!" || data["token_type"] != "Bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	cookie := findCookie(rec, refreshCookieName)
	if cookie == nil || cookie.Value != "r" {
		t.Fatalf("refresh cookie missing: %+v", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteNoneMode {
		t.Fatalf("unexpected cookie flags: %+v", cookie)
	}
	if !cookie.Expires.Equal(fixed.Add(48 * time.Hour)) {
		t.Fatalf("expires = %s", cookie.Expires)
	}
}

func TestSocialLoginFailure(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		socialFn: func(usecase.SocialLoginInput) (*usecase.SocialLoginResult, error) {
			return nil, apperror.BadRequest("connection refused")
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	req := jsonRequest(http.MethodPost, "/auth/social-login", map[string]string{"email": "nadia@example.com"})
	rec := httptest.NewRecorder()
	_ = h.SocialLogin(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "connection refused" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
	if findCookie(rec, refreshCookieName) != nil {
		t.Fatalf("cookie set on failure")
	}
}

func TestGoogleDisabled(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&mockAuthService{}, nil, time.Hour)

	rec := httptest.NewRecorder()
	_ = h.GoogleRedirect(e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/google", nil), rec))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGoogleRedirectStoresState(t *testing.T) {
	e := newEcho()
	provider := &stubProvider{authURL: "https://accounts.example.com/auth"}
	h := NewAuthHandler(&mockAuthService{}, provider, time.Hour)

	rec := httptest.NewRecorder()
	if err := h.GoogleRedirect(e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/google", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	state := findCookie(rec, oauthStateCookieName)
	if state == nil || state.Value == "" || state.Value != provider.gotState {
		t.Fatalf("state cookie mismatch: %+v vs %q", state, provider.gotState)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); !strings.HasPrefix(loc, provider.authURL) {
		t.Fatalf("location = %s", loc)
	}
}

func TestGoogleCallback(t *testing.T) {
	e := newEcho()
	provider := &stubProvider{profile: &oauth.Profile{Email: "nadia@example.com", FirstName: "Nadia", LastName: "Islam"}}
	svc := &mockAuthService{
		socialFn: func(in usecase.SocialLoginInput) (*usecase.SocialLoginResult, error) {
			if in.Email != "nadia@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &usecase.SocialLoginResult{AccessToken: "a", RefreshToken: "r", TokenType: usecase.TokenTypeBearer}, nil
		},
	}
	h := NewAuthHandler(svc, provider, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	if err := h.GoogleCallback(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || provider.gotCode != "xyz" {
		t.Fatalf("unexpected result: %d code=%q", rec.Code, provider.gotCode)
	}
	if c := findCookie(rec, refreshCookieName); c == nil || c.Value != "r" {
		t.Fatalf("refresh cookie missing")
	}
}

func TestGoogleCallbackStateMismatch(t *testing.T) {
	e := newEcho()
	provider := &stubProvider{}
	h := NewAuthHandler(&mockAuthService{}, provider, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	_ = h.GoogleCallback(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if provider.gotCode != "" {
		t.Fatalf("code exchanged despite bad state")
	}
}

func TestGoogleCallbackExchangeError(t *testing.T) {
	e := newEcho()
	provider := &stubProvider{err: errors.New("provider profile has no email")}
	h := NewAuthHandler(&mockAuthService{}, provider, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	_ = h.GoogleCallback(e.NewContext(req, rec))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "provider profile has no email" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestMeUsesContextUser(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		profileFn: func(id string) (*domain.PublicIdentity, error) {
			if id != "u-9" {
				t.Fatalf("id = %s", id)
			}
			return &domain.PublicIdentity{ID: id, Email: "x@example.com"}, nil
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set("user_id", "u-9")
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyToken(t *testing.T) {
	e := newEcho()
	svc := &mockAuthService{
		verifyTokenFn: func(token string) (*tokenverify.Principal, error) {
			if token == "bad" {
				return nil, apperror.Unauthorized("invalid_token")
			}
			return &tokenverify.Principal{UserID: "u-1", Email: "a@b.c", Claims: map[string]any{"role": "user"}}, nil
		},
	}
	h := NewAuthHandler(svc, nil, time.Hour)

	rec := httptest.NewRecorder()
	if err := h.VerifyToken(e.NewContext(jsonRequest(http.MethodPost, "/auth/verify", map[string]string{"token": "ok"}), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	if rec.Code != http.StatusOK || data["user_id"] != "u-1" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, data)
	}

	rec = httptest.NewRecorder()
	_ = h.VerifyToken(e.NewContext(jsonRequest(http.MethodPost, "/auth/verify", map[string]string{"token": "bad"}), rec))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
