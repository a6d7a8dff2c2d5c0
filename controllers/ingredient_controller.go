package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"fridgekeeper/logger"
	"fridgekeeper/models"
)

type IngredientController struct {
	db *gorm.DB
}

func NewIngredientController(db *gorm.DB) *IngredientController {
	return &IngredientController{db: db}
}

type catalogEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// List returns the catalog as name/category pairs, enough for a
// client-side picker.
func (ic *IngredientController) List(w http.ResponseWriter, r *http.Request) {
	var ingredients []models.Ingredient
	if err := ic.db.Order("name").Find(&ingredients).Error; err != nil {
		logger.Error("ingredient list query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	res := make([]catalogEntry, len(ingredients))
	for i, ing := range ingredients {
		res[i] = catalogEntry{Name: ing.Name, Category: ing.Category}
	}
	respondJSON(w, http.StatusOK, map[string]any{"ingredients": res})
}
