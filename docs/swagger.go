// Package docs provides Swagger documentation for the API.
package docs

// @title Slidesmith Backend API
// @version 1.0
// @description API for LLM-backed slide deck generation
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.slidesmith.io/support
// @contact.email support@slidesmith.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
