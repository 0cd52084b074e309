package main

import (
	"os"

	"github.com/mayank200604/HVA/internal/app"
)

// @title        HVA Chatbot API
// @version      0.1
// @description  Backend orchestration layer routing chat messages to upstream generative-model providers.
// @BasePath     /
func main() {
	os.Exit(app.Run())
}
