// Package finance holds the pure profit and loss computations over expense
// and sale collections.
package finance

import (
	"math"

	"farmhand/models"
)

// Calculate summarizes one crop. Crop names match exactly. The percentage is
// relative to expenses and is 0 when there are none, even if revenue is
// positive, and also 0 when the ratio overflows. Break-even counts as profit.
func Calculate(cropName string, expenses []models.ExpenseEntry, sales []models.SaleEntry) models.ProfitSummary {
	var totalExpenses, totalRevenue float64
	for _, e := range expenses {
		if e.CropName == cropName {
			totalExpenses += e.Amount
		}
	}
	for _, s := range sales {
		if s.CropName == cropName {
			totalRevenue += s.TotalAmount
		}
	}

	netProfit := totalRevenue - totalExpenses
	percentage := 0.0
	if totalExpenses > 0 {
		percentage = netProfit / totalExpenses * 100
		if math.IsInf(percentage, 0) || math.IsNaN(percentage) {
			percentage = 0
		}
	}

	return models.ProfitSummary{
		CropName:         cropName,
		TotalExpenses:    totalExpenses,
		TotalRevenue:     totalRevenue,
		NetProfit:        netProfit,
		ProfitPercentage: percentage,
		IsProfit:         netProfit >= 0,
	}
}

// Summaries computes one summary per crop seen in either collection, in
// first-seen order, leaving out crops with no expenses and no revenue.
func Summaries(expenses []models.ExpenseEntry, sales []models.SaleEntry) []models.ProfitSummary {
	names := CropNames(expenses, sales)
	out := make([]models.ProfitSummary, 0, len(names))
	for _, name := range names {
		s := Calculate(name, expenses, sales)
		if s.TotalExpenses == 0 && s.TotalRevenue == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CropNames is the distinct union of crop names, expenses first, in
// first-seen order.
func CropNames(expenses []models.ExpenseEntry, sales []models.SaleEntry) []string {
	seen := make(map[string]bool)
	names := []string{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, e := range expenses {
		add(e.CropName)
	}
	for _, s := range sales {
		add(s.CropName)
	}
	return names
}

func TotalExpenses(expenses []models.ExpenseEntry) float64 {
	total := 0.0
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func TotalRevenue(sales []models.SaleEntry) float64 {
	total := 0.0
	for _, s := range sales {
		total += s.TotalAmount
	}
	return total
}

func TotalProfit(summaries []models.ProfitSummary) float64 {
	total := 0.0
	for _, s := range summaries {
		total += s.NetProfit
	}
	return total
}
