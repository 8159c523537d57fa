package main

import (
	"log"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/cmd/app"

	"github.com/joho/godotenv"
)

// @title           King Backend Interaction API
// @version         1.0
// @description     Real-time chat, notifications and call signaling for the telehealth platform.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app.GetApp().LetsGo()
}
