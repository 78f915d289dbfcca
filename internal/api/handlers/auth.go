package handlers

import (
	"log"
	"net/http"

	"go-jobboard/internal/identity"
	"go-jobboard/internal/services"
	"go-jobboard/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	oauthCookieName = "jobboard_oauth"
	oauthStateKey   = "state"
)

// AuthHandler serves sign-up, sign-in and email verification.
type AuthHandler struct {
	accounts  services.AccountService
	validator *validator.Validate
	cookies   sessions.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts services.AccountService, validate *validator.Validate, cookies sessions.Store) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		validator: validate,
		cookies:   cookies,
	}
}

func authResponse(res *identity.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
		Redirect:  res.Session.LandingPath(),
		User:      *res.User,
	}
}

// Register godoc
// @Summary      Create an account
// @Description  Signs up with email and password and sends a verification email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        account body      dto.RegisterRequest true "Account details"
// @Success      201 {object}  models.User
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      409 {object}  map[string]string "Email already registered"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create account")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary      Sign in
// @Description  Signs in with email and password. The response names the landing page for the user's role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body      dto.LoginRequest true "Credentials"
// @Success      200 {object}  dto.AuthResponse
// @Failure      400 {object}  map[string]string "Validation failed"
// @Failure      401 {object}  map[string]string "Invalid credentials"
// @Failure      403 {object}  map[string]string "Account banned"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "sign in")
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), session(c)); err != nil {
		respondError(c, err, "sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

// GoogleLogin godoc
// @Summary      Start Google sign-in
// @Description  Redirects to the Google consent page. A state cookie guards the callback.
// @Tags         auth
// @Success      307
// @Failure      404 {object}  map[string]string "OAuth not configured"
// @Router       /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.accounts.OAuthURL(state)
	if err != nil {
		respondError(c, err, "start Google sign-in")
		return
	}

	cookie, _ := h.cookies.Get(c.Request, oauthCookieName)
	cookie.Values[oauthStateKey] = state
	if err := cookie.Save(c.Request, c.Writer); err != nil {
		log.Printf("Auth handler: failed to save oauth state cookie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start Google sign-in"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback godoc
// @Summary      Finish Google sign-in
// @Tags         auth
// @Produce      json
// @Param        state query string true "OAuth state"
// @Param        code  query string true "Authorization code"
// @Success      200 {object}  dto.AuthResponse
// @Failure      400 {object}  map[string]string "State mismatch"
// @Failure      401 {object}  map[string]string "Sign-in failed"
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	cookie, err := h.cookies.Get(c.Request, oauthCookieName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing sign-in state"})
		return
	}
	expected, _ := cookie.Values[oauthStateKey].(string)
	if expected == "" || expected != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sign-in state does not match"})
		return
	}
	delete(cookie.Values, oauthStateKey)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(c.Request, c.Writer); err != nil {
		log.Printf("Auth handler: failed to clear oauth state cookie: %v", err)
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}
	res, err := h.accounts.OAuthLogin(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "sign in with Google")
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

// VerifyEmail godoc
// @Summary      Confirm an email address
// @Tags         auth
// @Produce      json
// @Param        token query string true "Verification token from the email"
// @Success      200 {object}  models.User
// @Failure      400 {object}  map[string]string "Invalid or expired link"
// @Router       /auth/verify [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing verification token"})
		return
	}
	user, err := h.accounts.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "verify email")
		return
	}
	c.JSON(http.StatusOK, user)
}

// AwaitVerification godoc
// @Summary      Wait for email verification
// @Description  Polls the account until the email is verified or the wait times out.
// @Tags         auth
// @Produce      json
// @Success      200 {object}  dto.VerificationStatus
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      408 {object}  map[string]string "Verification timed out"
// @Router       /auth/verification/await [post]
// @Security     BearerAuth
func (h *AuthHandler) AwaitVerification(c *gin.Context) {
	status, err := h.accounts.AwaitVerification(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err, "check verification")
		return
	}
	c.JSON(http.StatusOK, status)
}

// ResendVerification godoc
// @Summary      Resend the verification email
// @Tags         auth
// @Success      202
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Failure      422 {object}  map[string]string "No email address on file"
// @Router       /auth/verification/resend [post]
// @Security     BearerAuth
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	if err := h.accounts.ResendVerification(c.Request.Context(), session(c)); err != nil {
		respondError(c, err, "send verification email")
		return
	}
	c.Status(http.StatusAccepted)
}
