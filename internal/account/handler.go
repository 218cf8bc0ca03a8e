package account

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/respond"
)

// Handler exposes HTTP endpoints for registration and login.
type Handler struct {
	svc    *CredentialService
	logger *zap.SugaredLogger
}

func NewHandler(svc *CredentialService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CredentialsRequest is the body of both the sign up and login endpoints.
type CredentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// TokenResponse carries the bearer token back to the client.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register handles sign up: 201 with the token, 400 on validation or
// conflict.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := respond.Decode(r, &req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		respond.Error(w, err, "could not create user")
		return
	}
	token, err := h.svc.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindValidation, apperr.KindConflict:
			h.logger.Debugw("signup rejected", "name", req.Name, "err", err)
		default:
			h.logger.Errorw("signup failed", "err", err)
		}
		respond.Error(w, err, "could not create user")
		return
	}
	h.logger.Infow("account registered", "name", req.Name)
	respond.JSON(w, http.StatusCreated, TokenResponse{AccessToken: token})
}

// NotFoundResponse is the login failure body. It is identical for unknown
// names and wrong passwords.
type NotFoundResponse struct {
	NotFound bool   `json:"notFound"`
	Message  string `json:"message"`
}

// Login handles session creation: 201 with the existing token, 404 on bad
// credentials or a body that cannot be read.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := respond.Decode(r, &req); err != nil {
		// an unreadable body names no account, same as an unknown name
		h.logger.Debugw("invalid login payload", "err", err)
		badCredentials(w)
		return
	}
	token, err := h.svc.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuthentication {
			h.logger.Debugw("login failed", "name", req.Name)
			badCredentials(w)
			return
		}
		h.logger.Errorw("login lookup failed", "err", err)
		respond.JSON(w, respond.Status(err), NotFoundResponse{NotFound: true, Message: "Internal Server Error"})
		return
	}
	respond.JSON(w, http.StatusCreated, TokenResponse{AccessToken: token})
}

func badCredentials(w http.ResponseWriter) {
	respond.JSON(w, http.StatusNotFound, NotFoundResponse{NotFound: true, Message: "Verify username and password"})
}
