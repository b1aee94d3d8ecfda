package repository

import (
	"errors"
	"fmt"

	"farmhand/db"
	"farmhand/models"
)

// ErrSkip marks a record that lacks a required field. Such records are left
// out of listings without failing the read.
var ErrSkip = errors.New("record skipped")

func skipf(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSkip, key, fmt.Sprintf(format, args...))
}

// str reads an optional string child. Absent means "", any other type is an error.
func str(s db.Snapshot, name string) (string, error) {
	c := s.Child(name)
	if !c.Exists() {
		return "", nil
	}
	v, ok := c.String()
	if !ok {
		return "", fmt.Errorf("%s.%s: expected string, got %T", s.Key(), name, c.Value())
	}
	return v, nil
}

func num(s db.Snapshot, name string) (float64, error) {
	c := s.Child(name)
	if !c.Exists() {
		return 0, nil
	}
	v, ok := c.Float()
	if !ok {
		return 0, fmt.Errorf("%s.%s: expected number, got %T", s.Key(), name, c.Value())
	}
	return v, nil
}

func whole(s db.Snapshot, name string) (int64, error) {
	c := s.Child(name)
	if !c.Exists() {
		return 0, nil
	}
	v, ok := c.Int()
	if !ok {
		return 0, fmt.Errorf("%s.%s: expected whole number, got %v", s.Key(), name, c.Value())
	}
	return v, nil
}

// strList gathers string children in store order.
func strList(s db.Snapshot, name string) ([]string, error) {
	var out []string
	for _, c := range s.Child(name).Children() {
		v, ok := c.String()
		if !ok {
			return nil, fmt.Errorf("%s.%s[%s]: expected string, got %T", s.Key(), name, c.Key(), c.Value())
		}
		out = append(out, v)
	}
	return out, nil
}

// fields reads several optional string children at once.
type fields struct {
	s   db.Snapshot
	err error
}

func (f *fields) str(name string) string {
	if f.err != nil {
		return ""
	}
	v, err := str(f.s, name)
	f.err = err
	return v
}

func (f *fields) num(name string) float64 {
	if f.err != nil {
		return 0
	}
	v, err := num(f.s, name)
	f.err = err
	return v
}

func (f *fields) whole(name string) int64 {
	if f.err != nil {
		return 0
	}
	v, err := whole(f.s, name)
	f.err = err
	return v
}

func requireObject(s db.Snapshot) error {
	if _, ok := s.Value().(map[string]any); !ok {
		return skipf(s.Key(), "not an object")
	}
	return nil
}

// decodeCategory requires a string name. Crops that fail to parse are logged
// and dropped; diseases are left empty.
func decodeCategory(s db.Snapshot) (models.Category, error) {
	if !s.Child("name").Exists() {
		return models.Category{}, skipf(s.Key(), "missing name")
	}
	name, err := str(s, "name")
	if err != nil {
		return models.Category{}, err
	}

	crops := []models.Crop{}
	for _, cs := range s.Child("crops").Children() {
		crop, err := decodeCrop(cs, false)
		if err != nil {
			logSkip("crop", cs.Key(), err)
			continue
		}
		crops = append(crops, crop)
	}
	return models.Category{Name: name, Crops: crops}, nil
}

func decodeCrop(s db.Snapshot, withDiseases bool) (models.Crop, error) {
	f := fields{s: s}
	crop := models.Crop{
		Name:     f.str("name"),
		PicURL:   f.str("picURL"),
		About:    f.str("about"),
		Diseases: []models.Disease{},
	}
	if f.err != nil {
		return models.Crop{}, f.err
	}
	regions, err := strList(s, "regions")
	if err != nil {
		return models.Crop{}, err
	}
	crop.Regions = nonNil(regions)

	if !withDiseases {
		return crop, nil
	}
	for _, ds := range s.Child("diseases").Children() {
		d, err := decodeDisease(ds)
		if err != nil {
			return models.Crop{}, err
		}
		crop.Diseases = append(crop.Diseases, d)
	}
	return crop, nil
}

func decodeDisease(s db.Snapshot) (models.Disease, error) {
	f := fields{s: s}
	d := models.Disease{
		Name:     f.str("name"),
		Symptoms: f.str("symptoms"),
		Cause:    f.str("cause"),
	}
	if f.err != nil {
		return models.Disease{}, f.err
	}
	solution, err := strList(s, "solution")
	if err != nil {
		return models.Disease{}, err
	}
	d.Solution = nonNil(solution)
	return d, nil
}

func decodeProduct(s db.Snapshot) (models.Product, error) {
	if err := requireObject(s); err != nil {
		return models.Product{}, err
	}
	f := fields{s: s}
	p := models.Product{
		ID:             f.str("id"),
		Name:           f.str("name"),
		Category:       f.str("category"),
		ImageURL:       f.str("imageUrl"),
		PricePerKg:     f.num("pricePerKg"),
		Unit:           f.str("unit"),
		StockAvailable: int(f.whole("stockAvailable")),
		Seller:         f.str("seller"),
		Description:    f.str("description"),
		MarketPrice:    f.num("marketPrice"),
		Region:         f.str("region"),
	}
	if f.err != nil {
		return models.Product{}, f.err
	}
	if !s.Child("unit").Exists() {
		p.Unit = "kg"
	}
	return p, nil
}

func decodeExpense(s db.Snapshot) (models.ExpenseEntry, error) {
	if err := requireObject(s); err != nil {
		return models.ExpenseEntry{}, err
	}
	f := fields{s: s}
	e := models.ExpenseEntry{
		ID:       f.str("id"),
		UserID:   f.str("userId"),
		CropName: f.str("cropName"),
		Category: f.str("category"),
		Amount:   f.num("amount"),
		Date:     f.whole("date"),
		Notes:    f.str("notes"),
	}
	if f.err != nil {
		return models.ExpenseEntry{}, f.err
	}
	return e, nil
}

func decodeSale(s db.Snapshot) (models.SaleEntry, error) {
	if err := requireObject(s); err != nil {
		return models.SaleEntry{}, err
	}
	f := fields{s: s}
	e := models.SaleEntry{
		ID:           f.str("id"),
		UserID:       f.str("userId"),
		CropName:     f.str("cropName"),
		Quantity:     f.num("quantity"),
		PricePerUnit: f.num("pricePerUnit"),
		TotalAmount:  f.num("totalAmount"),
		Date:         f.whole("date"),
		Buyer:        f.str("buyer"),
		Notes:        f.str("notes"),
	}
	if f.err != nil {
		return models.SaleEntry{}, f.err
	}
	return e, nil
}

func decodeOrder(s db.Snapshot) (models.Order, error) {
	if err := requireObject(s); err != nil {
		return models.Order{}, err
	}
	f := fields{s: s}
	o := models.Order{
		ID:              f.str("id"),
		UserID:          f.str("userId"),
		TotalPrice:      f.num("totalPrice"),
		Date:            f.whole("date"),
		Status:          f.str("status"),
		DeliveryAddress: f.str("deliveryAddress"),
		Items:           []models.CartItem{},
	}
	if f.err != nil {
		return models.Order{}, f.err
	}
	if !s.Child("status").Exists() {
		o.Status = models.OrderPending
	}
	for _, is := range s.Child("items").Children() {
		p, err := decodeProduct(is.Child("product"))
		if err != nil {
			return models.Order{}, err
		}
		qty, err := whole(is, "quantity")
		if err != nil {
			return models.Order{}, err
		}
		if !is.Child("quantity").Exists() {
			qty = 1
		}
		o.Items = append(o.Items, models.CartItem{Product: p, Quantity: int(qty)})
	}
	return o, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
