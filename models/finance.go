package models

// Expense categories offered by the expense form.
const (
	ExpenseSeeds      = "Seeds"
	ExpenseFertilizer = "Fertilizer"
	ExpensePesticides = "Pesticides"
	ExpenseLabor      = "Labor"
	ExpenseEquipment  = "Equipment"
	ExpenseIrrigation = "Irrigation"
	ExpenseOther      = "Other"
)

var ExpenseCategories = []string{
	ExpenseSeeds,
	ExpenseFertilizer,
	ExpensePesticides,
	ExpenseLabor,
	ExpenseEquipment,
	ExpenseIrrigation,
	ExpenseOther,
}

type ExpenseEntry struct {
	ID       string  `json:"id" bson:"id"`
	UserID   string  `json:"userId" bson:"userId"`
	CropName string  `json:"cropName" bson:"cropName"`
	Category string  `json:"category" bson:"category"`
	Amount   float64 `json:"amount" bson:"amount"`
	Date     int64   `json:"date" bson:"date"` // unix millis
	Notes    string  `json:"notes" bson:"notes"`
}

// SaleEntry records a harvest sale. TotalAmount is fixed at creation as
// Quantity × PricePerUnit.
type SaleEntry struct {
	ID           string  `json:"id" bson:"id"`
	UserID       string  `json:"userId" bson:"userId"`
	CropName     string  `json:"cropName" bson:"cropName"`
	Quantity     float64 `json:"quantity" bson:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit" bson:"pricePerUnit"`
	TotalAmount  float64 `json:"totalAmount" bson:"totalAmount"`
	Date         int64   `json:"date" bson:"date"`
	Buyer        string  `json:"buyer" bson:"buyer"`
	Notes        string  `json:"notes" bson:"notes"`
}

// ProfitSummary is derived per crop from the expense and sale collections and
// never persisted.
type ProfitSummary struct {
	CropName         string  `json:"cropName"`
	TotalExpenses    float64 `json:"totalExpenses"`
	TotalRevenue     float64 `json:"totalRevenue"`
	NetProfit        float64 `json:"netProfit"`
	ProfitPercentage float64 `json:"profitPercentage"`
	IsProfit         bool    `json:"isProfit"`
}
