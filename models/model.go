package models

import "time"

// DefaultRecipeQuantity is the quantity recorded for every ingredient
// added through the add-recipe flow. The client does not send
// per-ingredient amounts yet.
const DefaultRecipeQuantity = 1

// User is a registered household member. Handle is the login
// identifier the client presents on every request.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Handle       string    `gorm:"size:50;uniqueIndex;not null" json:"handle"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Address      string    `gorm:"size:200" json:"address"`
	Vegan        bool      `gorm:"default:false" json:"vegan"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Allergies   []UserAllergy `json:"allergies,omitempty"`
	FridgeItems []FridgeItem  `json:"-"`
}

// Allergy is a tag like "peanut". Rows are find-or-created by name at
// signup, so names stay unique in practice.
type Allergy struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// UserAllergy links a user to an allergy tag.
type UserAllergy struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_allergy" json:"user_id"`
	AllergyID uint `gorm:"not null;uniqueIndex:idx_user_allergy" json:"allergy_id"`

	User    User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Allergy Allergy `gorm:"constraint:OnDelete:CASCADE" json:"allergy,omitempty"`
}

// Ingredient is a catalog entry shared by all users. ShelfLifeDays
// feeds the purchase-merge expiry estimate when set.
type Ingredient struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ImagePath     string  `gorm:"size:200" json:"image,omitempty"`
	Unit          string  `gorm:"size:20;not null" json:"unit"`
	Category      string  `gorm:"size:50" json:"category"`
	Price         float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	ShelfLifeDays *int    `json:"shelf_life_days,omitempty"`
}

// AllergyIngredient marks an ingredient as a trigger for an allergy.
type AllergyIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_allergy_ingredient" json:"ingredient_id"`
	AllergyID    uint `gorm:"not null;uniqueIndex:idx_allergy_ingredient" json:"allergy_id"`

	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Allergy    Allergy    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// FridgeItem is one batch of an ingredient in a user's fridge. The
// same ingredient may appear in several rows with different expiry
// dates; batches are never merged.
type FridgeItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	IngredientID uint      `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64   `gorm:"type:decimal(8,2);not null" json:"quantity"`
	AddedDate    time.Time `gorm:"type:date" json:"added_date"`
	ExpiryDate   time.Time `gorm:"type:date" json:"expiry_date"`

	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

// Recipe is a dish with a list of required ingredients.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ImagePath   string `gorm:"size:200" json:"image,omitempty"`
	Category    string `gorm:"size:50" json:"category,omitempty"`

	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

// RecipeIngredient links a recipe to a catalog ingredient with a
// required quantity. A recipe lists each ingredient at most once.
type RecipeIngredient struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RecipeID     uint    `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint    `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Quantity     float64 `gorm:"type:decimal(8,2);not null" json:"quantity"`

	Recipe     Recipe     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

// Like is an idempotent favorite marker, toggled on and off.
type Like struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_like_recipe_user" json:"recipe_id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_like_recipe_user" json:"user_id"`

	Recipe Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Purchase records a bought ingredient. UnitPrice and TotalPrice are
// derived from the catalog price at creation time and are never taken
// from the client. Merged flips once the purchase has been turned
// into a fridge batch.
type Purchase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	IngredientID uint      `gorm:"not null;index" json:"ingredient_id"`
	Quantity     float64   `gorm:"type:decimal(8,2);not null" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice   float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	PurchasedAt  time.Time `json:"purchased_at"`
	Merged       bool      `gorm:"default:false" json:"merged"`
	FridgeItemID *uint     `json:"fridge_item_id,omitempty"`

	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}
