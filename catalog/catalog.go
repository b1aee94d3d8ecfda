// Package catalog searches and filters the crop catalogue and shop listings.
package catalog

import (
	"sort"
	"strings"

	"farmhand/models"
)

// CropMatch is a crop found by a search together with its category.
type CropMatch struct {
	Category string      `json:"category"`
	Crop     models.Crop `json:"crop"`
}

// SearchCrops matches query case-insensitively against crop names and
// regions. An empty query matches every crop.
func SearchCrops(categories []models.Category, query string) []CropMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []CropMatch
	for _, cat := range categories {
		for _, crop := range cat.Crops {
			if q == "" || containsFold(crop.Name, q) || anyContains(crop.Regions, q) {
				out = append(out, CropMatch{Category: cat.Name, Crop: crop})
			}
		}
	}
	return out
}

// CropsInRegion lists crops grown in region, compared case-insensitively.
func CropsInRegion(categories []models.Category, region string) []CropMatch {
	var out []CropMatch
	for _, cat := range categories {
		for _, crop := range cat.Crops {
			for _, r := range crop.Regions {
				if strings.EqualFold(r, region) {
					out = append(out, CropMatch{Category: cat.Name, Crop: crop})
					break
				}
			}
		}
	}
	return out
}

// FilterProducts keeps products whose name or description contains query
// (case-insensitive) and, when category is not empty, whose category equals it.
func FilterProducts(products []models.Product, query, category string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := containsFold(p.Name, q) || containsFold(p.Description, q)
		matchesCategory := category == "" || p.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, p)
		}
	}
	return out
}

// ProductCategories lists the distinct product categories alphabetically.
func ProductCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

func FindProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// containsFold expects lowerSub to already be lower case.
func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

func anyContains(values []string, lowerSub string) bool {
	for _, v := range values {
		if containsFold(v, lowerSub) {
			return true
		}
	}
	return false
}
