package finance

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/sanitize"
)

type Handler struct {
	engine *finance.Engine
}

func NewHandler(engine *finance.Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/trend", h.trend)

	r.Get("/categories", h.listCategories)
	r.Delete("/categories/{name}", h.removeCategory)

	r.Route("/income", func(r chi.Router) {
		r.Get("/", h.list(finance.KindIncome))
		r.Post("/", h.create(finance.KindIncome))
		r.Delete("/{id}", h.delete(finance.KindIncome))
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.list(finance.KindExpense))
		r.Post("/", h.create(finance.KindExpense))
		r.Delete("/{id}", h.delete(finance.KindExpense))
	})

	r.Get("/filter", h.getFilter)
	r.Put("/filter", h.setFilter)

	r.Get("/budgets", h.listBudgets)
	r.Put("/budgets/{category}", h.updateBudget)

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.notifications)
		r.Delete("/", h.clearNotifications)
		r.Post("/evaluate", h.evaluateAlerts)
		r.Get("/threshold", h.getThreshold)
		r.Put("/threshold", h.setThreshold)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.listHistory)
		r.Post("/archive", h.archive)
		r.Get("/{id}", h.getHistory)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	resp := toSummaryResponse(h.engine.Summary(), h.engine.ExpensesByCategory(), h.engine.Degraded())
	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, toMonthResponseList(h.engine.LastSixMonths()))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.engine.Categories())
}

// categoryParam returns the decoded category path parameter. chi matches on RawPath when the
// request escapes reserved characters, and then leaves the parameter encoded.
func categoryParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return sanitize.Text(v), nil
	}

	v, err := url.PathUnescape(v)
	if err != nil {
		return "", err
	}

	return sanitize.Text(v), nil
}

func (h *Handler) removeCategory(w http.ResponseWriter, r *http.Request) {
	name, err := categoryParam(r, "name")
	if err != nil {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}

	if err := h.engine.RemoveCategory(name); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) list(kind finance.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs := h.engine.FilteredIncome()
		if kind == finance.KindExpense {
			txs = h.engine.FilteredExpenses()
		}

		respond.JSON(w, r, http.StatusOK, toResponseList(txs))
	}
}

type createRequest struct {
	Label    string          `json:"label" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" validate:"required,max=100"`
	Date     *finance.Date   `json:"date,omitempty"`
}

func (h *Handler) create(kind finance.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if !respond.DecodeOrReject(w, r, &req) {
			return
		}

		params := finance.CreateParams{
			Label:    sanitize.Text(req.Label),
			Amount:   req.Amount,
			Category: sanitize.Text(req.Category),
		}

		if req.Date != nil {
			params.Date = *req.Date
		}

		add := h.engine.AddIncome
		if kind == finance.KindExpense {
			add = h.engine.AddExpense
		}

		tx, err := add(r.Context(), params)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, r, http.StatusCreated, toResponse(tx))
	}
}

func (h *Handler) delete(kind finance.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		remove := h.engine.DeleteIncome
		if kind == finance.KindExpense {
			remove = h.engine.DeleteExpense
		}

		if err := remove(r.Context(), id); err != nil {
			respond.Error(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) getFilter(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, toFilterResponse(h.engine.Filter()))
}

type filterRequest struct {
	StartDate *finance.Date `json:"start_date"`
	EndDate   *finance.Date `json:"end_date"`
	Category  string        `json:"category" validate:"omitempty,max=100"`
}

func (h *Handler) setFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !respond.DecodeOrReject(w, r, &req) {
		return
	}

	f := finance.Filter{
		Start:    req.StartDate,
		End:      req.EndDate,
		Category: sanitize.Text(req.Category),
	}

	if err := h.engine.SetFilter(f); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toFilterResponse(h.engine.Filter()))
}

func (h *Handler) listBudgets(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, toBudgetResponseList(h.engine.BudgetStatuses()))
}

type budgetRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

func (h *Handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !respond.DecodeOrReject(w, r, &req) {
		return
	}

	category, err := categoryParam(r, "category")
	if err != nil {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}

	if _, err := h.engine.UpdateBudgetLimit(r.Context(), category, req.Limit); err != nil {
		respond.Error(w, r, err)
		return
	}

	for _, s := range toBudgetResponseList(h.engine.BudgetStatuses()) {
		if s.Category == category {
			respond.JSON(w, r, http.StatusOK, s)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	notes := h.engine.Notifications()
	if notes == nil {
		notes = []string{}
	}

	respond.JSON(w, r, http.StatusOK, notificationsResponse{Notifications: notes})
}

func (h *Handler) clearNotifications(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearNotifications(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) evaluateAlerts(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, toAlertResponseList(h.engine.EvaluateBudgetAlerts(r.Context())))
}

func (h *Handler) getThreshold(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, thresholdResponse{Threshold: h.engine.AlertThreshold()})
}

func (h *Handler) setThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdResponse
	if !respond.DecodeOrReject(w, r, &req) {
		return
	}

	if err := h.engine.SetAlertThreshold(r.Context(), req.Threshold); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, thresholdResponse{Threshold: h.engine.AlertThreshold()})
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, toArchiveResponseList(h.engine.History()))
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entry, err := h.engine.HistoryEntry(id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toArchiveDetailResponse(entry))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	entry := h.engine.ArchiveCurrentMonth(r.Context())
	respond.JSON(w, r, http.StatusCreated, toArchiveDetailResponse(entry))
}
