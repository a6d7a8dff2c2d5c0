package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientCatalog(t *testing.T) {
	db := newTestDB(t)
	h := newTestRouter(t, db)
	seedIngredient(t, db, "Milk", "ml", "dairy", 3.5)
	seedIngredient(t, db, "Egg", "pcs", "dairy", 0.5)

	rec := doJSON(t, h, http.MethodGet, "/ingredients", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ingredients []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"ingredients"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Ingredients, 2)
	assert.Equal(t, "Egg", body.Ingredients[0].Name)
	assert.Equal(t, "dairy", body.Ingredients[0].Category)
	assert.Equal(t, "Milk", body.Ingredients[1].Name)
}
