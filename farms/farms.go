// Package farms serves the crop catalogue.
package farms

import (
	"log"
	"net/http"

	"farmhand/catalog"
	"farmhand/controllers"
	"farmhand/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Farm *controllers.Farm
	Repo controllers.FarmRepository
}

func New(farm *controllers.Farm, repo controllers.FarmRepository) *Handler {
	return &Handler{Farm: farm, Repo: repo}
}

// GetCategories returns the cached catalogue, loading it on first use.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Farm.LoadCategories(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load categories")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "categories": h.Farm.Categories.Get()})
}

// RefreshCategories drops the cached catalogue and reloads it.
func (h *Handler) RefreshCategories(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.Farm.Invalidate()
	log.Println("[farms] catalogue invalidated")
	h.GetCategories(w, r, ps)
}

func (h *Handler) GetCropDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	category, crop := ps.ByName("category"), ps.ByName("crop")

	// details are per request; the shared controller only caches the catalogue
	view := controllers.NewFarm(h.Repo)
	if err := view.LoadCropDetails(r.Context(), category, crop); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load crop")
		return
	}
	details := view.CropDetails.Get()
	if details == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Crop not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "category": category, "crop": details})
}

// SearchCrops matches ?q= against crop names and regions; ?region= narrows
// to crops grown in that region.
func (h *Handler) SearchCrops(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Farm.LoadCategories(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load categories")
		return
	}

	q := r.URL.Query()
	var matches []catalog.CropMatch
	if region := q.Get("region"); region != "" {
		matches = catalog.CropsInRegion(h.Farm.Categories.Get(), region)
		if query := q.Get("q"); query != "" {
			matches = filterMatches(matches, query)
		}
	} else {
		matches = h.Farm.SearchCrops(q.Get("q"))
	}
	if matches == nil {
		matches = []catalog.CropMatch{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "results": matches})
}

func filterMatches(matches []catalog.CropMatch, query string) []catalog.CropMatch {
	var out []catalog.CropMatch
	for _, m := range matches {
		if utils.ContainsIgnoreCase(m.Crop.Name, query) {
			out = append(out, m)
		}
	}
	return out
}
