package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/secondchance-api/internal/api/shared"
	"github.com/phrazzld/secondchance-api/internal/service"
	"github.com/phrazzld/secondchance-api/internal/store"
)

// legacyEmailHeader is the header older clients send on /update to name
// the account. Identity comes from the token; the header is only checked.
const legacyEmailHeader = "email"

// AuthHandler handles registration, login and profile update requests.
type AuthHandler struct {
	accounts           service.AccountService
	loginFailureStatus int
}

// NewAuthHandler creates a new AuthHandler. loginFailureStatus is the status
// sent for an unknown email or a wrong password; anything other than 401
// means 404.
func NewAuthHandler(accounts service.AccountService, loginFailureStatus int) *AuthHandler {
	if loginFailureStatus != http.StatusUnauthorized {
		loginFailureStatus = http.StatusNotFound
	}
	return &AuthHandler{
		accounts:           accounts,
		loginFailureStatus: loginFailureStatus,
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	reg := req.registration()
	if err := shared.ValidateRequest(req, reg.Normalize().Validate()); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RegisterResponse{
		AuthToken: result.Token,
		Email:     result.Account.Email,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, h.loginFailureStatus, "Invalid email or password", err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		AuthToken: result.Token,
		UserName:  result.Account.FirstName,
		UserEmail: result.Account.Email,
	})
}

// Update handles PUT /update. It must run behind the auth middleware.
func (h *AuthHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := shared.GetAccountID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	patch := req.patch()
	if err := shared.ValidateRequest(req, patch.Normalize().Validate()); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.accounts.UpdateProfile(r.Context(), accountID, r.Header.Get(legacyEmailHeader), patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateProfileResponse{AuthToken: result.Token})
}
