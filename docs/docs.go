package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Multi-tenant task management API",
        "title": "Todo API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "{\"health\": true}"
                    }
                }
            }
        },
        "/api/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Obtain token pair",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {"type": "string", "example": "alice"},
                                "password": {"type": "string", "example": "secret"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Access and refresh tokens"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/token/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "New access token"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/todo/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List the caller's visible tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "ordering", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "is_finish", "type": "boolean"},
                    {"in": "query", "name": "tags__name", "type": "string"},
                    {"in": "query", "name": "title__icontains", "type": "string"},
                    {"in": "query", "name": "id__gt", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {"200": {"description": "Paginated task list"}}
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create a task",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created task"},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/todo/tasks/{id}/status": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Toggle the completion flag",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "Updated task"}}
            }
        },
        "/todo/tags": {
            "get": {
                "tags": ["Tags"],
                "summary": "List tags",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "has_task", "type": "boolean"},
                    {"in": "query", "name": "task_count", "type": "integer"},
                    {"in": "query", "name": "name__icontains", "type": "string"}
                ],
                "responses": {"200": {"description": "Paginated tag list"}}
            },
            "post": {
                "tags": ["Tags"],
                "summary": "Create a tag",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created tag"}}
            }
        },
        "/todo/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List categories",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated category list"}}
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create a category",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created category"},
                    "409": {"description": "Name already exists"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Todo API",
	Description:      "Multi-tenant task management API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
