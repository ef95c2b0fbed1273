package http

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/middleware"
	"creator-market/services/profile/internal/entity"
	"creator-market/services/profile/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

type ProfileHandler struct {
	profileUseCase usecase.ProfileUseCase
	sessionUseCase usecase.SessionUseCase
	logger         *logger.Logger
}

func NewProfileHandler(profileUseCase usecase.ProfileUseCase, sessionUseCase usecase.SessionUseCase, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

type UpdateProfileRequest struct {
	Username   *string             `json:"username" binding:"omitempty,username"`
	FullName   *string             `json:"full_name" binding:"omitempty,max=255"`
	Bio        *string             `json:"bio"`
	AboutLinks *[]entity.AboutLink `json:"about_links"`
}

// GetMe godoc
// @Summary      Current user
// @Description  Identity resolved from the bearer token
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Identity
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	identity, err := h.sessionUseCase.CurrentUser(c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextEmail))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, identity)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revoke the bearer token used for this request
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *ProfileHandler) SignOut(c *gin.Context) {
	expiresAt, _ := c.Get(middleware.ContextTokenExp)
	exp, _ := expiresAt.(time.Time)

	if err := h.sessionUseCase.SignOut(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextTokenID), exp); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GetProfile godoc
// @Summary      Own profile
// @Description  Returns the caller's profile, creating an empty one on the first visit
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Profile
// @Failure      500  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUseCase.GetMyProfile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Partial update. Only fields present in the body are written.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200  {object}  entity.Profile
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), entity.ProfileFields{
		Username:   req.Username,
		FullName:   req.FullName,
		Bio:        req.Bio,
		AboutLinks: req.AboutLinks,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Description  Replaces the avatar image (1:1, up to 5MB)
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image (jpg, jpeg, png, webp, gif)"
// @Success      200  {object}  entity.Profile
// @Failure      400  {object}  map[string]string
// @Router       /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	h.uploadMedia(c, entity.MediaAvatar)
}

// UploadCover godoc
// @Summary      Upload cover
// @Description  Replaces the cover image (16:5, up to 5MB)
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image (jpg, jpeg, png, webp, gif)"
// @Success      200  {object}  entity.Profile
// @Failure      400  {object}  map[string]string
// @Router       /profile/cover [post]
func (h *ProfileHandler) UploadCover(c *gin.Context) {
	h.uploadMedia(c, entity.MediaCover)
}

func (h *ProfileHandler) uploadMedia(c *gin.Context, kind entity.MediaKind) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be 5MB or smaller"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded %s: %v", kind, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded %s: %v", kind, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	profile, err := h.profileUseCase.UploadMedia(c.Request.Context(), c.GetString(middleware.ContextUserID), kind, fileHeader.Filename, contentType, bytes.NewReader(data))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetPublicProfile godoc
// @Summary      Public profile
// @Description  Case-insensitive username lookup
// @Tags         profile
// @Produce      json
// @Param        username path string true "Username"
// @Success      200  {object}  entity.Profile
// @Failure      404  {object}  map[string]string
// @Router       /profiles/{username} [get]
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.profileUseCase.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, profile)
}
