package repository

import (
	"context"
	"fmt"
	"log"

	"farmhand/db"
	"farmhand/finance"
	"farmhand/models"
	"farmhand/mq"

	"golang.org/x/sync/errgroup"
)

func (r *Repository) AddExpense(ctx context.Context, expense models.ExpenseEntry) bool {
	id, ok := r.push(ctx, "expense", userPath(expense.UserID, "expenses"), func(id string) any {
		expense.ID = id
		return expense
	})
	if ok {
		r.emit(ctx, "expense-added", mq.Event{EntityType: "expense", Method: "POST", EntityID: id, UserID: expense.UserID})
	}
	return ok
}

func (r *Repository) GetExpenses(ctx context.Context, userID string) ([]models.ExpenseEntry, error) {
	snap, err := r.read(ctx, userPath(userID, "expenses"))
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	expenses := decodeAll("expense", snap, decodeExpense)
	log.Printf("[repository] loaded %d expenses", len(expenses))
	return expenses, nil
}

func (r *Repository) DeleteExpense(ctx context.Context, userID, expenseID string) bool {
	ok := r.remove(ctx, "expense", db.Join(userPath(userID, "expenses"), expenseID))
	if ok {
		r.emit(ctx, "expense-deleted", mq.Event{EntityType: "expense", Method: "DELETE", EntityID: expenseID, UserID: userID})
	}
	return ok
}

func (r *Repository) AddSale(ctx context.Context, sale models.SaleEntry) bool {
	id, ok := r.push(ctx, "sale", userPath(sale.UserID, "sales"), func(id string) any {
		sale.ID = id
		return sale
	})
	if ok {
		r.emit(ctx, "sale-added", mq.Event{EntityType: "sale", Method: "POST", EntityID: id, UserID: sale.UserID})
	}
	return ok
}

func (r *Repository) GetSales(ctx context.Context, userID string) ([]models.SaleEntry, error) {
	snap, err := r.read(ctx, userPath(userID, "sales"))
	if err != nil {
		return nil, fmt.Errorf("get sales: %w", err)
	}
	sales := decodeAll("sale", snap, decodeSale)
	log.Printf("[repository] loaded %d sales", len(sales))
	return sales, nil
}

func (r *Repository) DeleteSale(ctx context.Context, userID, saleID string) bool {
	ok := r.remove(ctx, "sale", db.Join(userPath(userID, "sales"), saleID))
	if ok {
		r.emit(ctx, "sale-deleted", mq.Event{EntityType: "sale", Method: "DELETE", EntityID: saleID, UserID: userID})
	}
	return ok
}

// GetProfitSummary reads expenses and sales concurrently and aggregates only
// once both reads have succeeded. The first failing read fails the call.
func (r *Repository) GetProfitSummary(ctx context.Context, userID string) ([]models.ProfitSummary, error) {
	var (
		expenses []models.ExpenseEntry
		sales    []models.SaleEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = r.GetExpenses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = r.GetSales(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get profit summary: %w", err)
	}

	summaries := finance.Summaries(expenses, sales)
	log.Printf("[repository] calculated profit for %d crops", len(summaries))
	return summaries, nil
}
