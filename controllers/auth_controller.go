package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fridgekeeper/logger"
	"fridgekeeper/models"
)

type AuthController struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db, validate: validator.New()}
}

type LoginRequest struct {
	Handle   string `json:"handle" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Handle    string   `json:"handle" validate:"required,max=50"`
	Name      string   `json:"name" validate:"required,max=50"`
	Password  string   `json:"password" validate:"required,min=4,max=72"`
	Address   string   `json:"address" validate:"max=200"`
	Vegan     bool     `json:"vegan"`
	Allergies []string `json:"allergies" validate:"dive,required,max=50"`
}

// ProfileResponse is what the client persists after login or signup.
// There is no token: identity is replayed on later requests.
type ProfileResponse struct {
	Handle  string `json:"handle"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Vegan   bool   `json:"vegan"`
}

func profileOf(u *models.User) ProfileResponse {
	return ProfileResponse{
		Handle:  u.Handle,
		Name:    u.Name,
		Address: u.Address,
		Vegan:   u.Vegan,
	}
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ac.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ac.db.Where("handle = ?", req.Handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "unknown user")
			return
		}
		logger.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	logger.Info("user logged in", "handle", user.Handle)
	respondJSON(w, http.StatusOK, profileOf(&user))
}

func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ac.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var exists int64
	if err := ac.db.Model(&models.User{}).Where("handle = ?", req.Handle).Count(&exists).Error; err != nil {
		logger.Error("signup handle check failed", "error", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if exists > 0 {
		respondError(w, http.StatusConflict, "handle already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("signup hash failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		Handle:       req.Handle,
		Name:         req.Name,
		PasswordHash: string(hash),
		Address:      req.Address,
		Vegan:        req.Vegan,
	}

	// User plus allergy links go in one transaction: a failure on any
	// allergy rolls the whole signup back.
	err = ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		seen := make(map[string]bool)
		for _, name := range req.Allergies {
			if seen[name] {
				continue
			}
			seen[name] = true

			var allergy models.Allergy
			if err := tx.Where("name = ?", name).FirstOrCreate(&allergy, models.Allergy{Name: name}).Error; err != nil {
				return err
			}
			link := models.UserAllergy{UserID: user.ID, AllergyID: allergy.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("signup failed", "handle", req.Handle, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	logger.Info("user signed up", "handle", user.Handle, "allergies", len(req.Allergies))
	respondJSON(w, http.StatusCreated, profileOf(&user))
}
