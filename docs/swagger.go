// Package docs GBR API documentation
package docs

// Swagger documentation info
// @title GBR API
// @version 1.0
// @description Central API documentation - For all GBR membership directory services
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@gbr.com

// @host localhost:8001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Membership Service Endpoints
// @tag.name auth
// @tag.description Member registration and authentication
// @tag.name payments
// @tag.description Membership payment recording
// @tag.name members
// @tag.description Administrative member listing

// Directory Service Endpoints
// @tag.name taxonomy
// @tag.description Continent, country, industry and company catalog

// Chat Service Endpoints
// @tag.name chat
// @tag.description Per-company chat rooms and video signaling

// Analytics Service Endpoints
// @tag.name analytics
// @tag.description Page visit reporting
