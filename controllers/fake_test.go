package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"farmhand/finance"
	"farmhand/models"
)

var errStore = errors.New("store unavailable")

// fakeRepo is an in-memory Repository with switchable failures.
type fakeRepo struct {
	mu sync.Mutex

	categories    []models.Category
	crops         map[string]models.Crop
	products      []models.Product
	expenses      []models.ExpenseEntry
	sales         []models.SaleEntry
	orders        []models.Order
	categoryCalls int
	nextID        int

	failReads  bool
	failWrites bool
	failSales  bool
}

var _ Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetAllCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryCalls++
	if f.failReads {
		return nil, errStore
	}
	return append([]models.Category{}, f.categories...), nil
}

func (f *fakeRepo) GetCropDetails(_ context.Context, category, crop string) (models.Crop, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return models.Crop{}, false, errStore
	}
	c, ok := f.crops[category+"/"+crop]
	return c, ok, nil
}

func (f *fakeRepo) GetAllProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errStore
	}
	return append([]models.Product{}, f.products...), nil
}

func (f *fakeRepo) SaveOrder(_ context.Context, o models.Order) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return false
	}
	f.orders = append(f.orders, o)
	return true
}

func (f *fakeRepo) GetExpenses(_ context.Context, userID string) ([]models.ExpenseEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errStore
	}
	var out []models.ExpenseEntry
	for _, e := range f.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetSales(_ context.Context, userID string) ([]models.SaleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads || f.failSales {
		return nil, errStore
	}
	var out []models.SaleEntry
	for _, s := range f.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetProfitSummary(ctx context.Context, userID string) ([]models.ProfitSummary, error) {
	expenses, err := f.GetExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}
	sales, err := f.GetSales(ctx, userID)
	if err != nil {
		return nil, err
	}
	return finance.Summaries(expenses, sales), nil
}

func (f *fakeRepo) AddExpense(_ context.Context, e models.ExpenseEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return false
	}
	f.nextID++
	e.ID = fmt.Sprintf("e%d", f.nextID)
	f.expenses = append(f.expenses, e)
	return true
}

func (f *fakeRepo) AddSale(_ context.Context, s models.SaleEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return false
	}
	f.nextID++
	s.ID = fmt.Sprintf("s%d", f.nextID)
	f.sales = append(f.sales, s)
	return true
}

func (f *fakeRepo) DeleteExpense(_ context.Context, userID, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return false
	}
	out := f.expenses[:0]
	for _, e := range f.expenses {
		if e.UserID != userID || e.ID != id {
			out = append(out, e)
		}
	}
	f.expenses = out
	return true
}

func (f *fakeRepo) DeleteSale(_ context.Context, userID, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return false
	}
	out := f.sales[:0]
	for _, s := range f.sales {
		if s.UserID != userID || s.ID != id {
			out = append(out, s)
		}
	}
	f.sales = out
	return true
}
