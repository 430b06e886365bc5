package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/storefront-listings/utils"
	"golang.org/x/crypto/bcrypt"
)

// adminTokenTTL is how long an issued admin token stays valid
const adminTokenTTL = 12 * time.Hour

// LoginRequest represents the payload for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token used for admin routes
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// LoginHandler exchanges the admin credentials for a Bearer token
func (a *ListingsAPI) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	if a.AdminUser == "" || a.AdminPasswordHash == "" {
		utils.RespondError(w, &logMessageBuilder, "Admin login is not configured", http.StatusServiceUnavailable)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Username and Password are required", http.StatusBadRequest)
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(a.AdminPasswordHash), []byte(req.Password))
	if err != nil || req.Username != a.AdminUser {
		utils.RespondError(w, &logMessageBuilder, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(a.JWTSecret, req.Username, adminTokenTTL)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Login successful for %s", req.Username))
	utils.RespondJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: int64(adminTokenTTL.Seconds()),
	})
}
