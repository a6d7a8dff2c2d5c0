package controllers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"fridgekeeper/logger"
	"fridgekeeper/middleware"
	"fridgekeeper/models"
)

type PurchaseController struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewPurchaseController(db *gorm.DB) *PurchaseController {
	return &PurchaseController{db: db, validate: validator.New()}
}

// CreatePurchaseRequest carries no price fields: unit and total price
// are derived from the catalog and never taken from the client.
type CreatePurchaseRequest struct {
	Ingredient string  `json:"ingredient" validate:"required,max=100"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
}

// Create records a purchase of a catalog ingredient for the caller.
func (pc *PurchaseController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := pc.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := pc.db.Where("handle = ?", middleware.Handle(r)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("purchase user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var ingredient models.Ingredient
	if err := pc.db.Where("name = ?", req.Ingredient).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown ingredient")
			return
		}
		logger.Error("purchase ingredient lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	purchase := models.Purchase{
		UserID:       user.ID,
		IngredientID: ingredient.ID,
		Quantity:     req.Quantity,
		UnitPrice:    ingredient.Price,
		TotalPrice:   math.Round(ingredient.Price*req.Quantity*100) / 100,
		PurchasedAt:  time.Now(),
	}
	if err := pc.db.Create(&purchase).Error; err != nil {
		logger.Error("purchase create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to record purchase")
		return
	}
	purchase.Ingredient = ingredient

	logger.Info("purchase recorded", "handle", user.Handle, "ingredient", ingredient.Name)
	respondJSON(w, http.StatusCreated, purchase)
}

// List returns the caller's purchase ledger, newest first.
func (pc *PurchaseController) List(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := pc.db.Where("handle = ?", middleware.Handle(r)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("purchase list user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var purchases []models.Purchase
	if err := pc.db.Preload("Ingredient").Where("user_id = ?", user.ID).
		Order("purchased_at desc").Find(&purchases).Error; err != nil {
		logger.Error("purchase list query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

// Merge turns a purchase into a fridge batch. The expiry date is the
// purchase date plus the ingredient's shelf life when the catalog
// knows one, otherwise the purchase date itself. Merging twice is a
// conflict.
func (pc *PurchaseController) Merge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "purchase_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	var purchase models.Purchase
	if err := pc.db.Preload("Ingredient").First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "purchase not found")
			return
		}
		logger.Error("purchase merge lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if purchase.Merged {
		respondError(w, http.StatusConflict, "purchase already merged")
		return
	}

	added := purchase.PurchasedAt.Truncate(24 * time.Hour)
	expiry := added
	if purchase.Ingredient.ShelfLifeDays != nil {
		expiry = added.AddDate(0, 0, *purchase.Ingredient.ShelfLifeDays)
	}

	item := models.FridgeItem{
		UserID:       purchase.UserID,
		IngredientID: purchase.IngredientID,
		Quantity:     purchase.Quantity,
		AddedDate:    added,
		ExpiryDate:   expiry,
	}
	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		purchase.Merged = true
		purchase.FridgeItemID = &item.ID
		return tx.Save(&purchase).Error
	})
	if err != nil {
		logger.Error("purchase merge failed", "purchase", purchase.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to merge purchase")
		return
	}
	item.Ingredient = purchase.Ingredient

	logger.Info("purchase merged", "purchase", purchase.ID, "fridge_item", item.ID)
	respondJSON(w, http.StatusOK, fridgeItemOf(&item))
}
