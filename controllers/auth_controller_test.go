package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fridgekeeper/models"
)

func TestSignupThenLogin(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)

	rec := doJSON(t, h, http.MethodPost, "/signup", map[string]any{
		"handle":    "u1",
		"name":      "Min",
		"password":  "p123",
		"address":   "Seoul",
		"vegan":     false,
		"allergies": []string{"peanut", "peanut", "shellfish"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var profile map[string]any
	decodeBody(t, rec, &profile)
	assert.Equal(t, "u1", profile["handle"])
	assert.Equal(t, "Min", profile["name"])
	assert.Equal(t, "Seoul", profile["address"])
	assert.Equal(t, false, profile["vegan"])

	// Duplicate allergy names in the request collapse to one link.
	var allergyCount, linkCount int64
	require.NoError(t, db.Model(&models.Allergy{}).Count(&allergyCount).Error)
	require.NoError(t, db.Model(&models.UserAllergy{}).Count(&linkCount).Error)
	assert.EqualValues(t, 2, allergyCount)
	assert.EqualValues(t, 2, linkCount)

	// Password must not be stored in plain text.
	var user models.User
	require.NoError(t, db.Where("handle = ?", "u1").First(&user).Error)
	assert.NotEqual(t, "p123", user.PasswordHash)

	rec = doJSON(t, h, http.MethodPost, "/login", map[string]any{
		"handle":   "u1",
		"password": "p123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login map[string]any
	decodeBody(t, rec, &login)
	assert.Equal(t, profile["handle"], login["handle"])
	assert.Equal(t, profile["name"], login["name"])
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)
	seedUser(t, db, "u1", "right")

	rec := doJSON(t, h, http.MethodPost, "/login", map[string]any{
		"handle":   "u1",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownHandle(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)

	rec := doJSON(t, h, http.MethodPost, "/login", map[string]any{
		"handle":   "ghost",
		"password": "p",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupDuplicateHandle(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)
	seedUser(t, db, "u1", "p")

	rec := doJSON(t, h, http.MethodPost, "/signup", map[string]any{
		"handle":   "u1",
		"name":     "Other",
		"password": "p456",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSignupMissingFields(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)

	rec := doJSON(t, h, http.MethodPost, "/signup", map[string]any{
		"handle": "u1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
