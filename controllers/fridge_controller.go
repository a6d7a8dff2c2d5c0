package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"fridgekeeper/logger"
	"fridgekeeper/middleware"
	"fridgekeeper/models"
)

const dateLayout = "2006-01-02"

type FridgeController struct {
	db *gorm.DB
}

func NewFridgeController(db *gorm.DB) *FridgeController {
	return &FridgeController{db: db}
}

type fridgeItemResponse struct {
	ID         uint    `json:"id"`
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	AddedDate  string  `json:"added_date"`
	ExpiryDate string  `json:"expiry_date"`
}

func fridgeItemOf(item *models.FridgeItem) fridgeItemResponse {
	return fridgeItemResponse{
		ID:         item.ID,
		Ingredient: item.Ingredient.Name,
		Quantity:   item.Quantity,
		Unit:       item.Ingredient.Unit,
		AddedDate:  item.AddedDate.Format(dateLayout),
		ExpiryDate: item.ExpiryDate.Format(dateLayout),
	}
}

func (fc *FridgeController) userByHandle(handle string) (*models.User, error) {
	var user models.User
	if err := fc.db.Where("handle = ?", handle).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListItems returns every fridge batch owned by the caller, expanded
// with the catalog name and unit.
func (fc *FridgeController) ListItems(w http.ResponseWriter, r *http.Request) {
	user, err := fc.userByHandle(middleware.Handle(r))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("fridge list lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var items []models.FridgeItem
	if err := fc.db.Preload("Ingredient").Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
		logger.Error("fridge list query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	res := make([]fridgeItemResponse, len(items))
	for i := range items {
		res[i] = fridgeItemOf(&items[i])
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": res})
}

// AddItem creates one new batch. Adding the same ingredient twice
// yields two independent rows; batches are never merged.
func (fc *FridgeController) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	name := r.PostFormValue("ingredient")
	if name == "" {
		respondError(w, http.StatusBadRequest, "ingredient is required")
		return
	}
	quantity, err := strconv.ParseFloat(r.PostFormValue("quantity"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quantity")
		return
	}
	expiry, err := time.Parse(dateLayout, r.PostFormValue("expiry_date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expiry_date")
		return
	}
	added := time.Now().Truncate(24 * time.Hour)
	if v := r.PostFormValue("added_date"); v != "" {
		added, err = time.Parse(dateLayout, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid added_date")
			return
		}
	}

	user, err := fc.userByHandle(middleware.Handle(r))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("fridge add user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var ingredient models.Ingredient
	if err := fc.db.Where("name = ?", name).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown ingredient")
			return
		}
		logger.Error("fridge add ingredient lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	item := models.FridgeItem{
		UserID:       user.ID,
		IngredientID: ingredient.ID,
		Quantity:     quantity,
		AddedDate:    added,
		ExpiryDate:   expiry,
	}
	if err := fc.db.Create(&item).Error; err != nil {
		logger.Error("fridge add failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	item.Ingredient = ingredient

	logger.Info("fridge item added", "handle", user.Handle, "ingredient", ingredient.Name)
	respondJSON(w, http.StatusCreated, fridgeItemOf(&item))
}

// DeleteItem removes a batch by its row ID. Deletion is deliberately
// not restricted to the owning user; see DESIGN.md.
func (fc *FridgeController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "fridge_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid fridge item ID")
		return
	}

	res := fc.db.Delete(&models.FridgeItem{}, id)
	if res.Error != nil {
		logger.Error("fridge delete failed", "error", res.Error)
		respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "fridge item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
