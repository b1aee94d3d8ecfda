// Package controllers holds per-screen state (catalogue, finance, shop),
// exposes it as observable values and mediates calls to the repository.
package controllers

import (
	"context"
	"log"
	"sync"

	"farmhand/catalog"
	"farmhand/models"
	"farmhand/state"
)

type FarmRepository interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCropDetails(ctx context.Context, categoryName, cropName string) (models.Crop, bool, error)
}

// Farm caches the crop catalogue and the crop currently being viewed.
type Farm struct {
	repo FarmRepository
	busy *state.Busy
	load sync.Mutex

	Categories  *state.Value[[]models.Category]
	CropDetails *state.Value[*models.Crop]
	IsLoading   *state.Value[bool]
	Err         *state.Value[error]
}

func NewFarm(repo FarmRepository) *Farm {
	busy := state.NewBusy()
	return &Farm{
		repo:        repo,
		busy:        busy,
		Categories:  state.NewValue([]models.Category{}),
		CropDetails: state.NewValue[*models.Crop](nil),
		IsLoading:   busy.Loading,
		Err:         state.NewValue[error](nil),
	}
}

// LoadCategories fetches the catalogue unless a non-empty one is already
// cached.
func (f *Farm) LoadCategories(ctx context.Context) error {
	f.load.Lock()
	defer f.load.Unlock()
	if len(f.Categories.Get()) > 0 {
		return nil
	}

	defer f.busy.Begin()()
	categories, err := f.repo.GetAllCategories(ctx)
	if err != nil {
		log.Printf("[farm] load categories: %v", err)
		f.Err.Set(err)
		return err
	}
	f.Err.Set(nil)
	f.Categories.Set(categories)
	return nil
}

// Invalidate drops the cached catalogue so the next load refetches it.
func (f *Farm) Invalidate() {
	f.Categories.Set([]models.Category{})
}

// LoadCropDetails replaces CropDetails with the requested crop, or nil when it
// does not exist.
func (f *Farm) LoadCropDetails(ctx context.Context, categoryName, cropName string) error {
	defer f.busy.Begin()()
	crop, ok, err := f.repo.GetCropDetails(ctx, categoryName, cropName)
	if err != nil {
		log.Printf("[farm] load crop %s/%s: %v", categoryName, cropName, err)
		f.Err.Set(err)
		return err
	}
	f.Err.Set(nil)
	if !ok {
		f.CropDetails.Set(nil)
		return nil
	}
	f.CropDetails.Set(&crop)
	return nil
}

func (f *Farm) SearchCrops(query string) []catalog.CropMatch {
	return catalog.SearchCrops(f.Categories.Get(), query)
}
