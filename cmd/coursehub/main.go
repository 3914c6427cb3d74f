package main

import (
	"os"

	_ "github.com/coursehub/backend/docs"
)

// @title CourseHub API
// @version 1.0
// @description API for courses, enrollments, lesson progress and certificates

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
