package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// AuthHandler handles the verification-code exchange and user registration.
type AuthHandler struct {
	authService *service.AuthService
	exposeCode  bool
}

// NewAuthHandler creates a new AuthHandler. When exposeCode is set the
// issued code is echoed in the send-code response.
func NewAuthHandler(authService *service.AuthService, exposeCode bool) *AuthHandler {
	return &AuthHandler{authService: authService, exposeCode: exposeCode}
}

// SendCodeRequest is the HTTP request body for issuing a code.
type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendCodeResponse is the HTTP response for issuing a code.
type SendCodeResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// VerifyCodeRequest is the HTTP request body for verifying a code.
type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyCodeResponse is the HTTP response for a successful verification.
// User is null when the phone has not registered yet.
type VerifyCodeResponse struct {
	Verified bool          `json:"verified"`
	User     *UserResponse `json:"user"`
}

// ProfileBody is a user's optional display data.
type ProfileBody struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Phone    string       `json:"phone" binding:"required"`
	UserType string       `json:"userType" binding:"required"`
	Language string       `json:"language,omitempty"`
	Profile  *ProfileBody `json:"profile,omitempty"`
	Vehicle  *VehicleBody `json:"vehicle,omitempty"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID        string       `json:"id"`
	Phone     string       `json:"phone"`
	UserType  string       `json:"userType"`
	Language  string       `json:"language"`
	Profile   *ProfileBody `json:"profile,omitempty"`
	CreatedAt string       `json:"createdAt"`
}

func toUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		UserType:  string(u.Role),
		Language:  string(u.Language),
		CreatedAt: formatTime(u.CreatedAt),
	}
	if u.Profile != nil {
		resp.Profile = &ProfileBody{Name: u.Profile.Name, Avatar: u.Profile.Avatar}
	}
	return resp
}

// SendCode handles POST /api/auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	code, err := h.authService.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := SendCodeResponse{Message: "Verification code sent"}
	if h.exposeCode {
		resp.Code = code
	}
	respondJSON(c, http.StatusOK, resp)
}

// VerifyCode handles POST /api/auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyCodeResponse{Verified: true, User: toUserResponse(user)})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	svcReq := service.RegisterRequest{
		Phone:    req.Phone,
		Role:     domain.Role(req.UserType),
		Language: domain.Language(req.Language),
		Vehicle:  req.Vehicle.toDomain(),
	}
	if req.Profile != nil {
		svcReq.Profile = &domain.Profile{Name: req.Profile.Name, Avatar: req.Profile.Avatar}
	}

	user, err := h.authService.Register(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /api/auth/user/:phone
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.authService.GetUserByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, describe(err, "User"))
		return
	}
	respondJSON(c, http.StatusOK, toUserResponse(user))
}
