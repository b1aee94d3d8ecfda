package finance

import (
	"sort"

	"farmhand/models"
)

func ExpensesByCrop(expenses []models.ExpenseEntry) map[string][]models.ExpenseEntry {
	out := make(map[string][]models.ExpenseEntry)
	for _, e := range expenses {
		out[e.CropName] = append(out[e.CropName], e)
	}
	return out
}

func SalesByCrop(sales []models.SaleEntry) map[string][]models.SaleEntry {
	out := make(map[string][]models.SaleEntry)
	for _, s := range sales {
		out[s.CropName] = append(out[s.CropName], s)
	}
	return out
}

// SortedCropNames lists distinct crop names alphabetically.
func SortedCropNames(expenses []models.ExpenseEntry, sales []models.SaleEntry) []string {
	names := CropNames(expenses, sales)
	sort.Strings(names)
	return names
}

// The helpers below return sorted copies for history and dashboard views.

func ExpensesNewestFirst(expenses []models.ExpenseEntry) []models.ExpenseEntry {
	out := append(make([]models.ExpenseEntry, 0, len(expenses)), expenses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func SalesNewestFirst(sales []models.SaleEntry) []models.SaleEntry {
	out := append(make([]models.SaleEntry, 0, len(sales)), sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func ByNetProfit(summaries []models.ProfitSummary) []models.ProfitSummary {
	out := append(make([]models.ProfitSummary, 0, len(summaries)), summaries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NetProfit > out[j].NetProfit })
	return out
}
