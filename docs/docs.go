// Package docs registers the OpenAPI document served under /swagger/.
// It is maintained by hand alongside the handler annotations; the
// RecipePage and AuthorPage definitions describe the paginated envelopes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/recipes/": {
            "get": {
                "description": "Newest first. Identity filters return nothing for anonymous requests.",
                "produces": ["application/json"],
                "tags": ["Recipes"],
                "summary": "List recipes",
                "parameters": [
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Author ID", "name": "author", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Tag slugs", "name": "tags", "in": "query"},
                    {"type": "string", "description": "0 or 1", "name": "is_favorited", "in": "query"},
                    {"type": "string", "description": "0 or 1", "name": "is_in_shopping_cart", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RecipePage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recipes"],
                "summary": "Create a recipe",
                "parameters": [
                    {"description": "Recipe data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.RecipeInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/query.RecipeView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/recipes/download_shopping_cart/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "text/plain"],
                "tags": ["Recipes"],
                "summary": "Download the shopping list",
                "parameters": [
                    {"type": "string", "description": "csv (default) or txt", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/recipes/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recipes"],
                "summary": "Get recipe by ID",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/query.RecipeView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Tags and ingredients replace the current sets; omitted scalar fields are kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recipes"],
                "summary": "Update a recipe",
                "parameters": [
                    {"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true},
                    {"description": "Recipe changes", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/command.UpdateRecipeInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/query.RecipeView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Recipes"],
                "summary": "Delete a recipe",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/http.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/recipes/{id}/favorite/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Recipes"],
                "summary": "Add a recipe to favorites",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/query.RecipeSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Recipes"],
                "summary": "Remove a recipe from favorites",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/recipes/{id}/shopping_cart/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Recipes"],
                "summary": "Add a recipe to the shopping cart",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/query.RecipeSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Recipes"],
                "summary": "Remove a recipe from the shopping cart",
                "parameters": [{"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/users/subscriptions/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List followed authors",
                "parameters": [
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Recipes per author", "name": "recipes_limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthorPage"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/users/me/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/query.UserView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/users/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get user profile",
                "parameters": [{"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/query.UserView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/users/{id}/subscribe/": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Subscribe to an author",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Recipes in the response", "name": "recipes_limit", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/query.AuthorView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Unsubscribe from an author",
                "parameters": [{"type": "integer", "description": "Author ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/tags/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tags"],
                "summary": "List tags",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Tag"}}}}
            }
        },
        "/api/tags/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tags"],
                "summary": "Get tag by ID",
                "parameters": [{"type": "integer", "description": "Tag ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Tag"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/api/ingredients/": {
            "get": {
                "description": "Names starting with the query come first, then names containing it.",
                "produces": ["application/json"],
                "tags": ["Ingredients"],
                "summary": "Search ingredients",
                "parameters": [{"type": "string", "description": "Name prefix", "name": "name", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Ingredient"}}}}
            }
        },
        "/api/ingredients/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ingredients"],
                "summary": "Get ingredient by ID",
                "parameters": [{"type": "integer", "description": "Ingredient ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Ingredient"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.Response"}}
                }
            }
        }
    },
    "definitions": {
        "http.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.Tag": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "slug": {"type": "string"}
            }
        },
        "domain.Ingredient": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "measurement_unit": {"type": "string"}
            }
        },
        "domain.IngredientAmount": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "amount": {"type": "integer", "minimum": 1}
            }
        },
        "command.RecipeInput": {
            "type": "object",
            "required": ["name", "text", "cooking_time", "image", "tags", "ingredients"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "text": {"type": "string", "maxLength": 8000},
                "cooking_time": {"type": "integer", "minimum": 1, "maximum": 14400},
                "image": {"type": "string", "description": "data:image/<format>;base64,<data>"},
                "tags": {"type": "array", "items": {"type": "integer"}},
                "ingredients": {"type": "array", "items": {"$ref": "#/definitions/domain.IngredientAmount"}}
            }
        },
        "command.UpdateRecipeInput": {
            "type": "object",
            "required": ["tags", "ingredients"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "text": {"type": "string", "maxLength": 8000},
                "cooking_time": {"type": "integer", "minimum": 1, "maximum": 14400},
                "image": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "integer"}},
                "ingredients": {"type": "array", "items": {"$ref": "#/definitions/domain.IngredientAmount"}}
            }
        },
        "query.UserView": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "is_subscribed": {"type": "boolean"}
            }
        },
        "query.IngredientView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "measurement_unit": {"type": "string"},
                "amount": {"type": "integer"}
            }
        },
        "query.RecipeSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "image": {"type": "string"},
                "cooking_time": {"type": "integer"}
            }
        },
        "query.RecipeView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tags": {"type": "array", "items": {"$ref": "#/definitions/domain.Tag"}},
                "author": {"$ref": "#/definitions/query.UserView"},
                "ingredients": {"type": "array", "items": {"$ref": "#/definitions/query.IngredientView"}},
                "is_favorited": {"type": "boolean"},
                "is_in_shopping_cart": {"type": "boolean"},
                "name": {"type": "string"},
                "image": {"type": "string"},
                "text": {"type": "string"},
                "cooking_time": {"type": "integer"}
            }
        },
        "query.AuthorView": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "is_subscribed": {"type": "boolean"},
                "recipes": {"type": "array", "items": {"$ref": "#/definitions/query.RecipeSummary"}},
                "recipes_count": {"type": "integer"}
            }
        },
        "RecipePage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "next": {"type": "string", "x-nullable": true},
                "previous": {"type": "string", "x-nullable": true},
                "results": {"type": "array", "items": {"$ref": "#/definitions/query.RecipeView"}}
            }
        },
        "AuthorPage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "next": {"type": "string", "x-nullable": true},
                "previous": {"type": "string", "x-nullable": true},
                "results": {"type": "array", "items": {"$ref": "#/definitions/query.AuthorView"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Foodgram API",
	Description:      "Recipe sharing service: recipes, favorites, shopping lists and author subscriptions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
