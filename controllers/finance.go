package controllers

import (
	"context"
	"log"
	"time"

	"farmhand/finance"
	"farmhand/models"
	"farmhand/state"
)

type FinanceRepository interface {
	GetExpenses(ctx context.Context, userID string) ([]models.ExpenseEntry, error)
	GetSales(ctx context.Context, userID string) ([]models.SaleEntry, error)
	GetProfitSummary(ctx context.Context, userID string) ([]models.ProfitSummary, error)
	AddExpense(ctx context.Context, expense models.ExpenseEntry) bool
	AddSale(ctx context.Context, sale models.SaleEntry) bool
	DeleteExpense(ctx context.Context, userID, expenseID string) bool
	DeleteSale(ctx context.Context, userID, saleID string) bool
}

// Finance caches a user's expenses, sales and profit summaries. Every
// successful mutation reloads all three so they never drift apart.
type Finance struct {
	repo FinanceRepository
	busy *state.Busy
	now  func() time.Time

	Expenses        *state.Value[[]models.ExpenseEntry]
	Sales           *state.Value[[]models.SaleEntry]
	ProfitSummaries *state.Value[[]models.ProfitSummary]
	SelectedTab     *state.Value[int]
	IsLoading       *state.Value[bool]
	Err             *state.Value[error]
}

func NewFinance(repo FinanceRepository) *Finance {
	busy := state.NewBusy()
	return &Finance{
		repo:            repo,
		busy:            busy,
		now:             time.Now,
		Expenses:        state.NewValue([]models.ExpenseEntry{}),
		Sales:           state.NewValue([]models.SaleEntry{}),
		ProfitSummaries: state.NewValue([]models.ProfitSummary{}),
		SelectedTab:     state.NewValue(0),
		IsLoading:       busy.Loading,
		Err:             state.NewValue[error](nil),
	}
}

func (f *Finance) TotalExpenses() float64 { return finance.TotalExpenses(f.Expenses.Get()) }

func (f *Finance) TotalRevenue() float64 { return finance.TotalRevenue(f.Sales.Get()) }

func (f *Finance) TotalProfit() float64 { return finance.TotalProfit(f.ProfitSummaries.Get()) }

func (f *Finance) SetSelectedTab(tab int) { f.SelectedTab.Set(tab) }

// LoadFinanceData refreshes expenses, sales and profit summaries in that
// order. A failure leaves earlier collections updated and sets Err.
func (f *Finance) LoadFinanceData(ctx context.Context, userID string) error {
	defer f.busy.Begin()()

	expenses, err := f.repo.GetExpenses(ctx, userID)
	if err != nil {
		return f.fail("load expenses", err)
	}
	f.Expenses.Set(expenses)

	sales, err := f.repo.GetSales(ctx, userID)
	if err != nil {
		return f.fail("load sales", err)
	}
	f.Sales.Set(sales)

	summaries, err := f.repo.GetProfitSummary(ctx, userID)
	if err != nil {
		return f.fail("load profit summary", err)
	}
	f.ProfitSummaries.Set(summaries)
	f.Err.Set(nil)
	return nil
}

func (f *Finance) fail(op string, err error) error {
	log.Printf("[finance] %s: %v", op, err)
	f.Err.Set(err)
	return err
}

// AddExpense records an expense dated now and reloads on success.
func (f *Finance) AddExpense(ctx context.Context, userID, cropName, category string, amount float64, notes string) bool {
	defer f.busy.Begin()()
	ok := f.repo.AddExpense(ctx, models.ExpenseEntry{
		UserID:   userID,
		CropName: cropName,
		Category: category,
		Amount:   amount,
		Notes:    notes,
		Date:     f.now().UnixMilli(),
	})
	return f.reloadIf(ctx, ok, userID)
}

func (f *Finance) DeleteExpense(ctx context.Context, userID, expenseID string) bool {
	defer f.busy.Begin()()
	return f.reloadIf(ctx, f.repo.DeleteExpense(ctx, userID, expenseID), userID)
}

// AddSale records a sale dated now with totalAmount = quantity × pricePerUnit.
func (f *Finance) AddSale(ctx context.Context, userID, cropName string, quantity, pricePerUnit float64, buyer, notes string) bool {
	defer f.busy.Begin()()
	ok := f.repo.AddSale(ctx, models.SaleEntry{
		UserID:       userID,
		CropName:     cropName,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalAmount:  quantity * pricePerUnit,
		Buyer:        buyer,
		Notes:        notes,
		Date:         f.now().UnixMilli(),
	})
	return f.reloadIf(ctx, ok, userID)
}

func (f *Finance) DeleteSale(ctx context.Context, userID, saleID string) bool {
	defer f.busy.Begin()()
	return f.reloadIf(ctx, f.repo.DeleteSale(ctx, userID, saleID), userID)
}

// reloadIf reloads after a successful write. The write result is returned
// as-is; a failed reload only shows up in Err.
func (f *Finance) reloadIf(ctx context.Context, ok bool, userID string) bool {
	if !ok {
		return false
	}
	if err := f.LoadFinanceData(ctx, userID); err != nil {
		log.Printf("[finance] write for %s saved but reload failed: %v", userID, err)
	}
	return true
}

func (f *Finance) ExpensesByCrop() map[string][]models.ExpenseEntry {
	return finance.ExpensesByCrop(f.Expenses.Get())
}

func (f *Finance) SalesByCrop() map[string][]models.SaleEntry {
	return finance.SalesByCrop(f.Sales.Get())
}

// AllCropNames lists every crop with an expense or a sale, alphabetically.
func (f *Finance) AllCropNames() []string {
	return finance.SortedCropNames(f.Expenses.Get(), f.Sales.Get())
}
