package main

import (
	"net/http"
	"os"

	"fridgekeeper/config"
	"fridgekeeper/database"
	"fridgekeeper/llm"
	"fridgekeeper/logger"
	"fridgekeeper/routes"
)

func main() {
	logger.Init()
	config.Load()

	db, err := database.Open()
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}

	llmClient := llm.NewClient()
	if !llmClient.Configured() {
		logger.Warn("OPENAI_API_KEY not set, /classify will answer 503")
	}

	r := routes.SetupRouter(db, llmClient)

	port := config.GetEnv("PORT", "8080")
	logger.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
