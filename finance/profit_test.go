package finance

import (
	"math/rand"
	"testing"

	"farmhand/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exp(crop string, amount float64) models.ExpenseEntry {
	return models.ExpenseEntry{CropName: crop, Amount: amount}
}

func sale(crop string, total float64) models.SaleEntry {
	return models.SaleEntry{CropName: crop, TotalAmount: total}
}

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		crop     string
		expenses []models.ExpenseEntry
		sales    []models.SaleEntry
		want     models.ProfitSummary
	}{
		{
			name:     "profitable wheat",
			crop:     "Wheat",
			expenses: []models.ExpenseEntry{exp("Wheat", 100), exp("Wheat", 50)},
			sales:    []models.SaleEntry{sale("Wheat", 300)},
			want:     models.ProfitSummary{CropName: "Wheat", TotalExpenses: 150, TotalRevenue: 300, NetProfit: 150, ProfitPercentage: 100, IsProfit: true},
		},
		{
			name:  "sales without expenses keep percentage at zero",
			crop:  "Rice",
			sales: []models.SaleEntry{sale("Rice", 200)},
			want:  models.ProfitSummary{CropName: "Rice", TotalRevenue: 200, NetProfit: 200, IsProfit: true},
		},
		{
			name:     "break even counts as profit",
			crop:     "Gram",
			expenses: []models.ExpenseEntry{exp("Gram", 80)},
			sales:    []models.SaleEntry{sale("Gram", 80)},
			want:     models.ProfitSummary{CropName: "Gram", TotalExpenses: 80, TotalRevenue: 80, IsProfit: true},
		},
		{
			name:     "loss",
			crop:     "Cotton",
			expenses: []models.ExpenseEntry{exp("Cotton", 200)},
			sales:    []models.SaleEntry{sale("Cotton", 50)},
			want:     models.ProfitSummary{CropName: "Cotton", TotalExpenses: 200, TotalRevenue: 50, NetProfit: -150, ProfitPercentage: -75, IsProfit: false},
		},
		{
			name:     "names match exactly",
			crop:     "Wheat",
			expenses: []models.ExpenseEntry{exp("wheat", 10), exp("Wheat ", 10)},
			want:     models.ProfitSummary{CropName: "Wheat", IsProfit: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.crop, tt.expenses, tt.sales))
		})
	}
}

func TestCalculateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	crops := []string{"Wheat", "Rice", "Maize"}

	for i := 0; i < 200; i++ {
		var expenses []models.ExpenseEntry
		var sales []models.SaleEntry
		for j := rng.Intn(6); j > 0; j-- {
			expenses = append(expenses, exp(crops[rng.Intn(3)], float64(rng.Intn(1000))/4))
		}
		for j := rng.Intn(6); j > 0; j-- {
			sales = append(sales, sale(crops[rng.Intn(3)], float64(rng.Intn(1000))/4))
		}

		for _, s := range Summaries(expenses, sales) {
			assert.Equal(t, s.TotalRevenue-s.TotalExpenses, s.NetProfit)
			assert.Equal(t, s.NetProfit >= 0, s.IsProfit)
			if s.TotalExpenses == 0 {
				assert.Zero(t, s.ProfitPercentage)
			}
			assert.False(t, s.TotalExpenses == 0 && s.TotalRevenue == 0, "empty crop %s in batch", s.CropName)
		}
	}
}

func TestCalculateDenormalExpense(t *testing.T) {
	s := Calculate("Wheat",
		[]models.ExpenseEntry{{CropName: "Wheat", Amount: 1e-320}},
		[]models.SaleEntry{{CropName: "Wheat", TotalAmount: 1e300}},
	)
	assert.Equal(t, 0.0, s.ProfitPercentage)
	assert.True(t, s.IsProfit)
	assert.Equal(t, 1e300, s.TotalRevenue)
}

func TestSummariesOrderAndFiltering(t *testing.T) {
	expenses := []models.ExpenseEntry{exp("Wheat", 10), exp("Zero", 0), exp("Rice", 5)}
	sales := []models.SaleEntry{sale("Maize", 40), sale("Wheat", 30)}

	got := Summaries(expenses, sales)
	require.Len(t, got, 3)
	assert.Equal(t, "Wheat", got[0].CropName)
	assert.Equal(t, "Rice", got[1].CropName)
	assert.Equal(t, "Maize", got[2].CropName)

	assert.Empty(t, Summaries(nil, nil))
}

func TestSummariesKeepsNegativeTotals(t *testing.T) {
	got := Summaries([]models.ExpenseEntry{exp("Refund", -20)}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].NetProfit)
	assert.Zero(t, got[0].ProfitPercentage, "non-positive expenses never divide")
}

func TestTotals(t *testing.T) {
	expenses := []models.ExpenseEntry{exp("A", 10), exp("B", 2.5)}
	sales := []models.SaleEntry{sale("A", 40)}

	assert.Equal(t, 12.5, TotalExpenses(expenses))
	assert.Equal(t, 40.0, TotalRevenue(sales))
	assert.Equal(t, 27.5, TotalProfit(Summaries(expenses, sales)))
	assert.Zero(t, TotalExpenses(nil))
}

func TestViews(t *testing.T) {
	expenses := []models.ExpenseEntry{
		{ID: "1", CropName: "Wheat", Date: 10},
		{ID: "2", CropName: "Rice", Date: 30},
		{ID: "3", CropName: "Wheat", Date: 20},
	}
	sales := []models.SaleEntry{{ID: "s1", CropName: "Barley", Date: 5}, {ID: "s2", CropName: "Wheat", Date: 50}}

	byCrop := ExpensesByCrop(expenses)
	assert.Len(t, byCrop["Wheat"], 2)
	assert.Len(t, byCrop["Rice"], 1)
	assert.Len(t, SalesByCrop(sales)["Barley"], 1)

	assert.Equal(t, []string{"Barley", "Rice", "Wheat"}, SortedCropNames(expenses, sales))

	newest := ExpensesNewestFirst(expenses)
	assert.Equal(t, []string{"2", "3", "1"}, []string{newest[0].ID, newest[1].ID, newest[2].ID})
	assert.Equal(t, "1", expenses[0].ID, "input is not reordered")

	assert.Equal(t, "s2", SalesNewestFirst(sales)[0].ID)

	ranked := ByNetProfit([]models.ProfitSummary{{CropName: "a", NetProfit: -5}, {CropName: "b", NetProfit: 10}, {CropName: "c", NetProfit: 0}})
	assert.Equal(t, "b", ranked[0].CropName)
	assert.Equal(t, "a", ranked[2].CropName)
}
