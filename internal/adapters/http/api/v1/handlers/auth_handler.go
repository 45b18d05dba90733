package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tausif4802/ggp-backend/internal/adapters/oauth"
	"github.com/tausif4802/ggp-backend/internal/usecase"
	"github.com/tausif4802/ggp-backend/pkg/apperror"
	res "github.com/tausif4802/ggp-backend/pkg/http"
)

type AuthHandler struct {
	service   usecase.AuthService
	google    oauth.Provider
	cookieTTL time.Duration
	now       func() time.Time
}

// NewAuthHandler builds the auth endpoints. google may be nil to disable Google login.
func NewAuthHandler(s usecase.AuthService, google oauth.Provider, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: s, google: google, cookieTTL: cookieTTL, now: time.Now}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type socialLoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type verifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	req := new(signupRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	user, err := h.service.SignUp(c.Request().Context(), requestIDFromCtx(c), usecase.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusCreated, "User created successfully", user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	result, err := h.service.Login(c.Request().Context(), requestIDFromCtx(c), req.Email, req.Password)
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Login successful", result)
}

// Refresh reads the token from the body, then the refreshToken cookie, then a bearer header.
func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		token = bearerToken(c)
	}
	result, err := h.service.RefreshTokens(c.Request().Context(), requestIDFromCtx(c), token)
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(clearRefreshCookie())
	return res.JSON(c, http.StatusOK, "Logged out!", nil)
}

func (h *AuthHandler) SocialLogin(c echo.Context) error {
	req := new(socialLoginRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	return h.completeSocialLogin(c, usecase.SocialLoginInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	if h.google == nil {
		return res.ErrorJSON(c, http.StatusNotFound, "Google login is not configured")
	}
	state, err := oauth.StateToken()
	if err != nil {
		return res.Error(c, apperror.Internal(err))
	}
	c.SetCookie(oauthStateCookie(state, 600))
	return c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.google == nil {
		return res.ErrorJSON(c, http.StatusNotFound, "Google login is not configured")
	}
	cookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return res.ErrorJSON(c, http.StatusBadRequest, "invalid oauth state")
	}
	c.SetCookie(oauthStateCookie("", -1))

	profile, err := h.google.Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, err.Error())
	}
	return h.completeSocialLogin(c, usecase.SocialLoginInput{
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	me, err := h.service.Profile(c.Request().Context(), requestIDFromCtx(c), userID)
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Profile fetched successfully", me)
}

func (h *AuthHandler) VerifyToken(c echo.Context) error {
	req := new(verifyTokenRequest)
	if err := bindAndValidate(c, req); err != nil {
		return res.Error(c, err)
	}
	result, err := h.service.VerifyToken(c.Request().Context(), requestIDFromCtx(c), req.Token)
	if err != nil {
		return res.Error(c, err)
	}
	return res.JSON(c, http.StatusOK, "Token verified", map[string]interface{}{
		"user_id": result.UserID,
		"email":   result.Email,
		"claims":  result.Claims,
	})
}

func (h *AuthHandler) completeSocialLogin(c echo.Context, in usecase.SocialLoginInput) error {
	result, err := h.service.SocialLogin(c.Request().Context(), requestIDFromCtx(c), in)
	if err != nil {
		return res.Error(c, err)
	}
	c.SetCookie(refreshCookie(result.RefreshToken, h.now().Add(h.cookieTTL)))
	return res.JSON(c, http.StatusOK, "Authenticated!", result)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.BadRequest("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return apperror.BadRequest(err.Error())
	}
	return nil
}

func bearerToken(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
