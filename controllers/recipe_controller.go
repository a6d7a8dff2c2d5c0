package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"fridgekeeper/logger"
	"fridgekeeper/middleware"
	"fridgekeeper/models"
)

type RecipeController struct {
	db       *gorm.DB
	mediaDir string
}

func NewRecipeController(db *gorm.DB, mediaDir string) *RecipeController {
	return &RecipeController{db: db, mediaDir: mediaDir}
}

type recipeListEntry struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty"`
	Ingredients string `json:"ingredients"`
	Favorite    bool   `json:"favorite"`
}

type recipeDetailResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	Ingredients []string `json:"ingredients"`
}

func ingredientLine(ri *models.RecipeIngredient) string {
	return fmt.Sprintf("%s %s %s",
		ri.Ingredient.Name,
		strconv.FormatFloat(ri.Quantity, 'f', -1, 64),
		ri.Ingredient.Unit)
}

// List returns every recipe with a joined ingredient string and a
// favorite flag computed against the caller's likes.
func (rc *RecipeController) List(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := rc.db.Where("handle = ?", middleware.Handle(r)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("recipe list user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var recipes []models.Recipe
	if err := rc.db.Preload("Ingredients.Ingredient").Find(&recipes).Error; err != nil {
		logger.Error("recipe list query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var likes []models.Like
	if err := rc.db.Where("user_id = ?", user.ID).Find(&likes).Error; err != nil {
		logger.Error("recipe list likes query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	liked := make(map[uint]bool, len(likes))
	for _, l := range likes {
		liked[l.RecipeID] = true
	}

	res := make([]recipeListEntry, len(recipes))
	for i := range recipes {
		lines := make([]string, len(recipes[i].Ingredients))
		for j := range recipes[i].Ingredients {
			lines[j] = ingredientLine(&recipes[i].Ingredients[j])
		}
		res[i] = recipeListEntry{
			ID:          recipes[i].ID,
			Name:        recipes[i].Name,
			Category:    recipes[i].Category,
			Image:       recipes[i].ImagePath,
			Ingredients: strings.Join(lines, ", "),
			Favorite:    liked[recipes[i].ID],
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"recipes": res})
}

// Detail returns one recipe with its ingredients as separate lines.
func (rc *RecipeController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "recipe_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid recipe ID")
		return
	}

	var recipe models.Recipe
	if err := rc.db.Preload("Ingredients.Ingredient").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "recipe not found")
			return
		}
		logger.Error("recipe detail query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	lines := make([]string, len(recipe.Ingredients))
	for i := range recipe.Ingredients {
		lines[i] = ingredientLine(&recipe.Ingredients[i])
	}
	respondJSON(w, http.StatusOK, recipeDetailResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Category:    recipe.Category,
		Image:       recipe.ImagePath,
		Ingredients: lines,
	})
}

// Add creates a recipe from a multipart form: name, description,
// category, an "ingredients" JSON array of catalog names, and an
// optional image file. Every named ingredient must already exist;
// links are written with the fixed default quantity. The whole write
// runs in one transaction, so an unknown name leaves nothing behind.
func (rc *RecipeController) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	var ingredientNames []string
	if raw := r.FormValue("ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &ingredientNames); err != nil {
			respondError(w, http.StatusBadRequest, "ingredients must be a JSON array of names")
			return
		}
	}

	imagePath, err := rc.saveImage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to store image")
		return
	}

	recipe := models.Recipe{
		Name:        name,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		ImagePath:   imagePath,
	}

	missing := ""
	err = rc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for _, ingName := range ingredientNames {
			var ingredient models.Ingredient
			if err := tx.Where("name = ?", ingName).First(&ingredient).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					missing = ingName
				}
				return err
			}
			link := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ingredient.ID,
				Quantity:     models.DefaultRecipeQuantity,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if missing != "" {
			respondError(w, http.StatusNotFound, "unknown ingredient: "+missing)
			return
		}
		logger.Error("recipe create failed", "name", name, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	logger.Info("recipe created", "id", recipe.ID, "name", recipe.Name, "ingredients", len(ingredientNames))
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "recipe created",
		"recipe_id": recipe.ID,
	})
}

// ToggleLike flips the caller's favorite marker for one recipe:
// delete the row if present, create it otherwise.
func (rc *RecipeController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.Atoi(chi.URLParam(r, "recipe_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid recipe ID")
		return
	}

	var user models.User
	if err := rc.db.Where("handle = ?", middleware.Handle(r)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("toggle like user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var recipe models.Recipe
	if err := rc.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "recipe not found")
			return
		}
		logger.Error("toggle like recipe lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var like models.Like
	err = rc.db.Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).First(&like).Error
	switch {
	case err == nil:
		if err := rc.db.Delete(&like).Error; err != nil {
			logger.Error("unlike failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to toggle like")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"liked": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		like = models.Like{UserID: user.ID, RecipeID: recipe.ID}
		if err := rc.db.Create(&like).Error; err != nil {
			logger.Error("like failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to toggle like")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"liked": true})
	default:
		logger.Error("toggle like query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
	}
}

// saveImage stores an optional uploaded image under the media dir and
// returns its path, or "" when no file was sent.
func (rc *RecipeController) saveImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	if err := os.MkdirAll(rc.mediaDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("recipe_%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename))
	path := filepath.Join(rc.mediaDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
