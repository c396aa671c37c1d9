package main

import (
	"os"

	"backend/config"
	"backend/routes"
)

func main() {
	config.InitDB()
	r := routes.SetupRouter(config.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
