package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/driveup/account-service/internal/application"
	"github.com/driveup/account-service/pkg/response"
	"github.com/driveup/account-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"` // carries the federated ID token
	GoogleID string `json:"googleId"`
}

type loginRequest struct {
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// CheckUser GET /api/user/check?email=
func (h *UserHandler) CheckUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Err(c, http.StatusBadRequest, "Email parameter is required")
		return
	}
	exists, err := h.Svc.Exists(c.Request.Context(), email)
	if err != nil {
		h.Logger.WithError(err).WithField("email", email).Error("user existence check failed")
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"exists": exists})
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Err(c, http.StatusBadRequest, "Email and ID token are required")
		return
	}

	token, rec, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		IDToken:  req.Password,
		GoogleID: req.GoogleID,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("email", req.Email).Error("registration failed")
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message":  "User registered successfully",
		"token":    token,
		"userInfo": rec,
	})
}

// LoginGoogle POST /api/login/google
func (h *UserHandler) LoginGoogle(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.FirstMessage(err))
		return
	}
	if req.Email == "" || req.IDToken == "" {
		response.Err(c, http.StatusBadRequest, "Email and ID token are required")
		return
	}

	token, rec, avatarURL, err := h.Svc.Login(c.Request.Context(), req.Email, req.IDToken)
	if err != nil {
		if errors.Is(err, userapp.ErrAuthentication) {
			response.Err(c, http.StatusUnauthorized, "User not found or authentication failed")
			return
		}
		h.Logger.WithError(err).WithField("email", req.Email).Error("login failed")
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message":       "Login successful",
		"token":         token,
		"userInfo":      rec,
		"profilePicUrl": avatarURL,
	})
}

// UploadProfilePicture POST /api/profile-picture
// Bearer presence is enforced by middleware. The upload is staged to a
// per-request temp file that is removed on every exit path.
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		response.Err(c, http.StatusBadRequest, "Email is required")
		return
	}

	file, err := c.FormFile("profile_pic")
	if err != nil {
		response.Err(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if file.Filename == "" {
		response.Err(c, http.StatusBadRequest, "No file selected")
		return
	}

	tmp, err := os.CreateTemp("", "avatar-*")
	if err != nil {
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpName) }()

	if err := c.SaveUploadedFile(file, tmpName); err != nil {
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	data, err := os.ReadFile(tmpName)
	if err != nil {
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}

	url, err := h.Svc.UploadAvatar(c.Request.Context(), email, data)
	if err != nil {
		h.Logger.WithError(err).WithField("email", email).Error("avatar upload failed")
		response.Err(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message":       "Profile picture uploaded successfully",
		"profilePicUrl": url,
	})
}
