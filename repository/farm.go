package repository

import (
	"context"
	"fmt"
	"log"

	"farmhand/models"
)

// GetAllCategories lists every category with its crops. Diseases are not
// loaded; use GetCropDetails for those. A missing categories node yields an
// empty list.
func (r *Repository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	snap, err := r.read(ctx, categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	if !snap.Exists() {
		log.Printf("[repository] %s node does not exist", categoriesPath)
		return []models.Category{}, nil
	}
	categories := decodeAll("category", snap, decodeCategory)
	log.Printf("[repository] loaded %d categories", len(categories))
	return categories, nil
}

// GetCropDetails finds a crop by exact category and crop name and parses it
// with its diseases. ok is false when no such pair exists.
func (r *Repository) GetCropDetails(ctx context.Context, categoryName, cropName string) (crop models.Crop, ok bool, err error) {
	snap, err := r.read(ctx, categoriesPath)
	if err != nil {
		return models.Crop{}, false, fmt.Errorf("get crop details: %w", err)
	}

	for _, cs := range snap.Children() {
		if name, ok := cs.Child("name").String(); !ok || name != categoryName {
			continue
		}
		for _, crs := range cs.Child("crops").Children() {
			if name, ok := crs.Child("name").String(); !ok || name != cropName {
				continue
			}
			crop, err := decodeCrop(crs, true)
			if err != nil {
				logSkip("crop", crs.Key(), err)
				continue
			}
			log.Printf("[repository] loaded %s/%s with %d diseases", categoryName, cropName, len(crop.Diseases))
			return crop, true, nil
		}
		break
	}
	return models.Crop{}, false, nil
}
