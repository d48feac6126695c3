package main

// @title Foodgram API
// @version 1.0
// @description Recipe sharing service: recipes, favorites, shopping cart and author subscriptions
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" or "Token" followed by a space and JWT token.

// @tag.name Recipes
// @tag.description Recipe catalogue and authoring

// @tag.name Relations
// @tag.description Favorites, shopping cart and subscriptions

// @tag.name Users
// @tag.description Author profiles

// @tag.name References
// @tag.description Tags and ingredients

// @tag.name Health
// @tag.description Health check endpoints
