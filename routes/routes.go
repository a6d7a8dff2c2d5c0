package routes

import (
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"fridgekeeper/config"
	"fridgekeeper/controllers"
	"fridgekeeper/llm"
	"fridgekeeper/middleware"
)

// SetupRouter builds the route table. The LLM client is constructed
// once by the caller and injected; handlers never reach for globals.
func SetupRouter(db *gorm.DB, llmClient *llm.Client) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(config.GetEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Handle"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := controllers.NewAuthController(db)
	fridge := controllers.NewFridgeController(db)
	recipes := controllers.NewRecipeController(db, config.GetEnv("MEDIA_DIR", "media"))
	catalog := controllers.NewIngredientController(db)
	purchases := controllers.NewPurchaseController(db)
	classify := controllers.NewClassifyController(llmClient)

	// Public surface
	r.Post("/login", auth.Login)
	r.Post("/signup", auth.Signup)
	r.Get("/ingredients", catalog.List)
	r.Get("/recipes/{recipe_id}", recipes.Detail)
	r.Post("/add_recipe", recipes.Add)
	r.Post("/classify", classify.Classify)

	// Deletion is by row ID with no caller check, matching the
	// original contract.
	r.Delete("/delete_ingredient/{fridge_id}", fridge.DeleteItem)

	// Caller-scoped surface: identity handle required
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity)
		r.Get("/fridge_items", fridge.ListItems)
		r.Post("/add_ingredient", fridge.AddItem)
		r.Get("/recipes", recipes.List)
		r.Post("/toggle_like/{recipe_id}", recipes.ToggleLike)
		r.Post("/purchases", purchases.Create)
		r.Get("/purchases", purchases.List)
		r.Post("/purchases/{purchase_id}/merge", purchases.Merge)
	})

	return r
}
