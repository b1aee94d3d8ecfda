// Package ledger serves the per-user expense and sales tracker.
package ledger

import (
	"math"
	"net/http"
	"slices"
	"strings"

	"farmhand/controllers"
	"farmhand/finance"
	"farmhand/models"
	"farmhand/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Sessions *controllers.Sessions
	Repo     controllers.FinanceRepository
}

func New(sessions *controllers.Sessions, repo controllers.FinanceRepository) *Handler {
	return &Handler{Sessions: sessions, Repo: repo}
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*controllers.Finance, string, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}
	return h.Sessions.Finance(userID), userID, true
}

func dashboard(fin *controllers.Finance) utils.M {
	return utils.M{
		"success":         true,
		"selectedTab":     fin.SelectedTab.Get(),
		"expenses":        finance.ExpensesNewestFirst(fin.Expenses.Get()),
		"sales":           finance.SalesNewestFirst(fin.Sales.Get()),
		"profitSummaries": finance.ByNetProfit(fin.ProfitSummaries.Get()),
		"totalExpenses":   fin.TotalExpenses(),
		"totalRevenue":    fin.TotalRevenue(),
		"totalProfit":     fin.TotalProfit(),
		"cropNames":       fin.AllCropNames(),
	}
}

// GetDashboard reloads the caller's finance data. ?tab= selects the active
// tab.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if tab := r.URL.Query().Get("tab"); tab != "" {
		fin.SetSelectedTab(utils.ParseInt(tab))
	}
	if err := fin.LoadFinanceData(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load finance data")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard(fin))
}

// GetByCrop groups the cached entries by crop name.
func (h *Handler) GetByCrop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := fin.LoadFinanceData(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load finance data")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"expenses":  fin.ExpensesByCrop(),
		"sales":     fin.SalesByCrop(),
		"cropNames": fin.AllCropNames(),
	})
}

func (h *Handler) GetExpenseCategories(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "categories": models.ExpenseCategories})
}

const (
	minAmount = 0.01
	maxAmount = 1e12
)

// validAmount bounds money and quantities so totals and percentages stay finite.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && v >= minAmount && v <= maxAmount
}

type expenseRequest struct {
	CropName string  `json:"cropName"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Notes    string  `json:"notes"`
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req expenseRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CropName = strings.TrimSpace(req.CropName)
	switch {
	case req.CropName == "":
		utils.RespondWithError(w, http.StatusBadRequest, "cropName is required")
		return
	case !slices.Contains(models.ExpenseCategories, req.Category):
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown expense category")
		return
	case req.Amount != 0 && !validAmount(req.Amount):
		utils.RespondWithError(w, http.StatusBadRequest, "amount must be 0 or between 0.01 and 1e12")
		return
	}

	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if !fin.AddExpense(r.Context(), userID, req.CropName, req.Category, req.Amount, req.Notes) {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to save expense")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dashboard(fin))
}

type saleRequest struct {
	CropName     string  `json:"cropName"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Buyer        string  `json:"buyer"`
	Notes        string  `json:"notes"`
}

func (h *Handler) AddSale(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req saleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.CropName = strings.TrimSpace(req.CropName)
	if req.CropName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "cropName is required")
		return
	}
	if !validAmount(req.Quantity) || !validAmount(req.PricePerUnit) || !validAmount(req.Quantity*req.PricePerUnit) {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity, pricePerUnit and their product must be between 0.01 and 1e12")
		return
	}

	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if !fin.AddSale(r.Context(), userID, req.CropName, req.Quantity, req.PricePerUnit, req.Buyer, req.Notes) {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to save sale")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dashboard(fin))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if !fin.DeleteExpense(r.Context(), userID, ps.ByName("id")) {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to delete expense")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard(fin))
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fin, userID, ok := h.controller(w, r)
	if !ok {
		return
	}
	if !fin.DeleteSale(r.Context(), userID, ps.ByName("id")) {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to delete sale")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dashboard(fin))
}

// GetProfit computes per-crop profit directly from the store, most
// profitable first.
func (h *Handler) GetProfit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	summaries, err := h.Repo.GetProfitSummary(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to compute profit")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"summaries": finance.ByNetProfit(summaries),
		"total":     finance.TotalProfit(summaries),
	})
}
