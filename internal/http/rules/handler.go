package rules

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/rules"
	"github.com/MrJamesThe3rd/finboard/internal/sanitize"
)

type Handler struct {
	svc *rules.Service
}

func NewHandler(svc *rules.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
}

type ruleResponse struct {
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(list))
	for i, rule := range list {
		resp[i] = ruleResponse{Pattern: rule.Pattern, Category: rule.Category, CreatedAt: rule.CreatedAt}
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type suggestResponse struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		http.Error(w, "label query parameter is required", http.StatusBadRequest)
		return
	}

	category, err := h.svc.Suggest(r.Context(), label)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, suggestResponse{Label: label, Category: category})
}

type learnRequest struct {
	Pattern  string `json:"pattern" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=100"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.DecodeOrReject(w, r, &req) {
		return
	}

	err := h.svc.Learn(r.Context(), sanitize.Text(req.Pattern), sanitize.Text(req.Category))
	if errors.Is(err, rules.ErrInvalidRule) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
