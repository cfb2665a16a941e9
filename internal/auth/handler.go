package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sunshineiot/evolte-auth/internal/email"
	"github.com/sunshineiot/evolte-auth/internal/httputil"
	"github.com/sunshineiot/evolte-auth/internal/logging"
	"github.com/sunshineiot/evolte-auth/internal/user"
)

// Extra room on top of the file cap for the email field and multipart
// boundaries.
const multipartOverhead = 64 << 10

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service     *Service
	logger      *logging.Logger
	maxFileSize int64
}

func NewHandler(service *Service, logger *logging.Logger, maxFileSize int64) *Handler {
	return &Handler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// LoginRequest represents the login/registration request body
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ProfileRequest represents the profile lookup request body
type ProfileRequest struct {
	Email string `json:"email"`
}

// MessageResponse represents a success message
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse represents a successful profile picture upload
type UploadResponse struct {
	Message        string `json:"message"`
	ProfilePicture string `json:"profilePicture"`
}

// ProfileResponse represents a user profile. ProfilePicture is an absolute
// URL, or null when no picture was ever uploaded.
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login handles passwordless login/registration
// @Summary      Login or register
// @Description  Send a one-time passcode to the given email, creating the user on first contact
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Name and email"
// @Success      201 {object} MessageResponse "User created"
// @Success      409 {object} MessageResponse "OTP sent to existing user"
// @Failure      400 {object} ErrorResponse "Missing or malformed fields"
// @Failure      500 {object} ErrorResponse "Database or mail-transport error"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	created, err := h.service.Login(r.Context(), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			logger.Warn("login failed: validation error", "error", err.Error())
			respondError(w, "Name and email are required", httputil.CodeNameRequired, http.StatusBadRequest)
		case errors.Is(err, ErrEmailRequired):
			logger.Warn("login failed: validation error", "error", err.Error())
			respondError(w, "Name and email are required", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			logger.Warn("login failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, email.ErrDeliveryFailed):
			logger.Error("login failed: OTP delivery error", "error", err.Error())
			respondError(w, "Failed to send OTP", httputil.CodeDeliveryFailed, http.StatusInternalServerError)
		default:
			logger.Error("login failed: storage error", "error", err.Error())
			respondError(w, "Database error", httputil.CodeDatabaseError, http.StatusInternalServerError)
		}
		return
	}

	if created {
		logger.Info("user created")
		respondJSON(w, MessageResponse{Message: "User created successfully"}, http.StatusCreated)
		return
	}

	logger.Info("OTP re-issued for existing user")
	respondJSON(w, MessageResponse{Message: "OTP sent to existing user"}, http.StatusConflict)
}

// VerifyOTP handles passcode verification
// @Summary      Verify OTP
// @Description  Check a submitted passcode against the one issued for the email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyOTPRequest true "Email and passcode"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse "Missing fields"
// @Failure      401 {object} ErrorResponse "Invalid or expired OTP"
// @Failure      500 {object} ErrorResponse "Database error"
// @Router       /verify-otp [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify-otp request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired):
			logger.Warn("verification failed: validation error", "error", err.Error())
			respondError(w, "Email and OTP are required", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrOTPRequired):
			logger.Warn("verification failed: validation error", "error", err.Error())
			respondError(w, "Email and OTP are required", httputil.CodeOTPRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidOTP):
			logger.Warn("verification failed: invalid OTP")
			respondError(w, "Invalid OTP", httputil.CodeInvalidOTP, http.StatusUnauthorized)
		case errors.Is(err, ErrOTPExpired):
			logger.Warn("verification failed: OTP expired")
			respondError(w, "OTP expired", httputil.CodeOTPExpired, http.StatusUnauthorized)
		default:
			logger.Error("verification failed: storage error", "error", err.Error())
			respondError(w, "Database error", httputil.CodeDatabaseError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("OTP verified")
	respondJSON(w, MessageResponse{Message: "OTP verified successfully"}, http.StatusOK)
}

// UploadProfilePicture handles profile picture upload
// @Summary      Upload profile picture
// @Description  Attach an image (multipart field "profilePicture", max 5 MiB) to an existing user, replacing any previous one
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        email formData string true "User email"
// @Param        profilePicture formData file true "Image file"
// @Success      200 {object} UploadResponse
// @Failure      400 {object} ErrorResponse "Missing field, wrong content type, or oversized file"
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse "Storage error"
// @Router       /upload-profile-picture [post]
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("upload rejected: request too large")
			respondError(w, fmt.Sprintf("File exceeds %d byte limit", h.maxFileSize), httputil.CodeFileTooLarge, http.StatusBadRequest)
			return
		}
		logger.Warn("invalid upload request body", "error", err.Error())
		respondError(w, "invalid multipart form", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	userEmail := r.FormValue("email")
	if userEmail == "" {
		logger.Warn("upload rejected: email missing")
		respondError(w, "Email is required", httputil.CodeEmailRequired, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": userEmail})

	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		logger.Warn("upload rejected: file missing", "error", err.Error())
		respondError(w, "Profile picture file is required", httputil.CodeFileRequired, http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Both checks run before anything touches disk.
	if header.Size > h.maxFileSize {
		logger.Warn("upload rejected: file too large", "size", header.Size)
		respondError(w, fmt.Sprintf("File exceeds %d byte limit", h.maxFileSize), httputil.CodeFileTooLarge, http.StatusBadRequest)
		return
	}
	if contentType := header.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		logger.Warn("upload rejected: not an image", "content_type", contentType)
		respondError(w, "Only image files are allowed", httputil.CodeInvalidFileType, http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))

	path, err := h.service.UploadProfilePicture(r.Context(), userEmail, ext, file)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			logger.Warn("upload failed: user not found")
			respondError(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
		default:
			logger.Error("upload failed: internal error", "error", err.Error())
			respondError(w, "Profile picture upload failed", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("profile picture stored", "path", path)

	respondJSON(w, UploadResponse{
		Message:        "Profile picture uploaded/updated successfully",
		ProfilePicture: path,
	}, http.StatusOK)
}

// Profile handles user profile lookup
// @Summary      Get user info
// @Description  Return id, name, email and an absolute profile picture URL for the given email
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body ProfileRequest true "User email"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} ErrorResponse "Missing email"
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      500 {object} ErrorResponse "Database error"
// @Router       /profile [post]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	found, err := h.service.GetUserInfo(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired):
			logger.Warn("profile lookup failed: email missing")
			respondError(w, "Email is required", httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, user.ErrNotFound):
			logger.Warn("profile lookup failed: user not found")
			respondError(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
		default:
			logger.Error("profile lookup failed: storage error", "error", err.Error())
			respondError(w, "Database error", httputil.CodeDatabaseError, http.StatusInternalServerError)
		}
		return
	}

	resp := ProfileResponse{
		ID:    found.ID,
		Name:  found.Name,
		Email: found.Email,
	}
	if found.ProfilePicture != nil {
		abs := absoluteURL(r, *found.ProfilePicture)
		resp.ProfilePicture = &abs
	}

	respondJSON(w, resp, http.StatusOK)
}

// absoluteURL turns a storage-relative path into a fully-qualified URL using
// the inbound request's scheme and host, so clients never see the storage
// layout.
func absoluteURL(r *http.Request, path string) string {
	return fmt.Sprintf("%s://%s/%s", requestScheme(r), r.Host, path)
}

// requestScheme resolves the client-facing scheme, honoring the
// X-Forwarded-Proto header set by proxies and load balancers.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
