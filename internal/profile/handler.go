package profile

import (
	"net/http"

	"go.uber.org/zap"

	accountentity "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/respond"
)

// Handler exposes the profile endpoints. Both methods are meant to be
// mounted behind auth.Gate.Protect.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /profiles.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, account accountentity.Account) {
	var in CreateInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, err, "could not save animal profile")
		return
	}
	p, err := h.svc.Create(r.Context(), account, in)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindValidation, apperr.KindConflict:
			h.logger.Debugw("profile rejected", "owner", account.Identity, "err", err)
		default:
			h.logger.Errorw("profile save failed", "owner", account.Identity, "err", err)
		}
		respond.Error(w, err, "could not save animal profile")
		return
	}
	h.logger.Infow("profile saved", "owner", account.Identity, "id", p.ID)
	respond.Message(w, http.StatusOK, "Animal profile saved successfully")
}

// Get handles GET /profiles.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, account accountentity.Account) {
	p, err := h.svc.Get(r.Context(), account)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			respond.Message(w, http.StatusNotFound, "Animal profile not found")
			return
		}
		h.logger.Errorw("profile lookup failed", "owner", account.Identity, "err", err)
		respond.Message(w, respond.Status(err), "Internal Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
