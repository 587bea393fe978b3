package account

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"vidstream/internal/config"
	"vidstream/internal/pkg/response"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// Handler manages all HTTP interactions for the account module
type Handler struct {
	service *Service
	cfg     *config.Config
	log     *slog.Logger
}

func NewHandler(service *Service, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	users := v1.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.POST("/logout", h.Logout)
		users.POST("/change-password", h.ChangePassword)
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateProfile)
		users.PATCH("/me/avatar", h.UpdateAvatar)
		users.PATCH("/me/cover", h.UpdateCoverImage)
		users.GET("/history", h.WatchHistory)
	}
}

// Register handles multipart registration: text fields plus a mandatory
// avatar file and an optional cover image.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	avatarPath, err := h.saveUploadedFile(c, "avatar")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	req.AvatarPath = avatarPath

	coverPath, err := h.saveUploadedFile(c, "coverImage")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	req.CoverImagePath = coverPath

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user}, "User registered successfully")
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)
	response.Success(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "Logged in successfully")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		h.respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, gin.H{}, "Logged out successfully")
}

// Refresh accepts the refresh token from the cookie or the JSON body; the
// token itself is the credential, no access token required.
func (h *Handler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(refreshCookie)
	if presented == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.service.Refresh(c.Request.Context(), presented)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, *pair)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user}, "Current user fetched successfully")
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user}, "Profile updated successfully")
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	localPath, err := h.saveUploadedFile(c, "avatar")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	user, err := h.service.UpdateAvatar(c.Request.Context(), c.GetInt64("user_id"), localPath)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user}, "Avatar updated successfully")
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	localPath, err := h.saveUploadedFile(c, "coverImage")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	user, err := h.service.UpdateCoverImage(c.Request.Context(), c.GetInt64("user_id"), localPath)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user}, "Cover image updated successfully")
}

func (h *Handler) WatchHistory(c *gin.Context) {
	entries, err := h.service.WatchHistory(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": entries}, "Watch history fetched successfully")
}

// saveUploadedFile stores the named multipart file under the temp upload
// dir and returns its local path. An absent file is not an error; the
// service decides whether the field was mandatory.
func (h *Handler) saveUploadedFile(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	if err := os.MkdirAll(h.cfg.TempUploadDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	localPath := filepath.Join(h.cfg.TempUploadDir, filename)
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

func (h *Handler) setAuthCookies(c *gin.Context, pair TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, pair.AccessToken, int(h.cfg.AccessTokenTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(h.cfg.RefreshTokenTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
}

// respondError maps service errors onto the uniform envelope. Raw store
// or driver errors never reach the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrMissingAvatar):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUploadFailed):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserExists):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrInvalidRefreshToken):
		response.Error(c, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error("account request failed", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "Something went wrong")
	}
}
