// Package docs registers the OpenAPI description of the creatorhubd HTTP
// surface with swag. Regenerate with `swag init -g internal/api/router.go -o internal/api/docs`.
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}},
        "/wallet/session": {"get": {"tags": ["wallet"], "summary": "Wallet session snapshot", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}}}}},
        "/wallet/events": {"get": {"tags": ["wallet"], "summary": "Wallet session stream", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}},
        "/wallet/connect": {"post": {"tags": ["wallet"], "summary": "Connect the wallet", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}}, "403": {"description": "Rejected", "schema": {"$ref": "#/definitions/handler.errorResponse"}}, "503": {"description": "No provider", "schema": {"$ref": "#/definitions/handler.errorResponse"}}, "504": {"description": "Timeout", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}},
        "/wallet/disconnect": {"post": {"tags": ["wallet"], "summary": "Disconnect the wallet", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}}}}},
        "/wallet/network": {"post": {"tags": ["wallet"], "summary": "Switch network", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"chain_id": {"type": "integer"}}}}], "responses": {"200": {"description": "OK"}, "409": {"description": "Busy or not connected"}, "422": {"description": "Unsupported network"}}}},
        "/wallet/sign": {"post": {"tags": ["wallet"], "summary": "Sign a message", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"message": {"type": "string"}}}}], "responses": {"200": {"description": "OK"}}}},
        "/wallet/estimate-gas": {"post": {"tags": ["wallet"], "summary": "Estimate gas", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"to": {"type": "string"}, "amount": {"type": "string"}}}}], "responses": {"200": {"description": "OK"}}}},
        "/wallet/providers": {"get": {"tags": ["wallet"], "summary": "List provider bindings", "responses": {"200": {"description": "OK"}}}},
        "/wallet/providers/{name}": {
            "put": {"tags": ["wallet"], "summary": "Register a provider binding", "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"url": {"type": "string"}}}}], "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown binding"}}},
            "delete": {"tags": ["wallet"], "summary": "Remove a provider binding", "parameters": [{"in": "path", "name": "name", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}, "walletAddress": {"type": "string"}, "password": {"type": "string"}, "rememberMe": {"type": "boolean"}}}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthSession"}}, "401": {"description": "Invalid credentials"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new account", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "confirmPassword": {"type": "string"}, "walletAddress": {"type": "string"}, "creatorType": {"type": "string"}, "acceptTerms": {"type": "boolean"}}}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.AuthSession"}}, "400": {"description": "Registration failed"}}}},
        "/auth/wallet": {"post": {"tags": ["auth"], "summary": "Login with the connected wallet", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthSession"}}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthSession"}}}}},
        "/auth/session": {"get": {"tags": ["auth"], "summary": "Auth session snapshot", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthSession"}}}}},
        "/auth/events": {"get": {"tags": ["auth"], "summary": "Auth session stream", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}},
        "/auth/user": {
            "get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}},
            "patch": {"tags": ["auth"], "summary": "Update current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}}
        },
        "/networks": {"get": {"tags": ["networks"], "summary": "Known networks", "responses": {"200": {"description": "OK"}}}},
        "/views": {"get": {"tags": ["views"], "summary": "Permitted dashboard views", "responses": {"200": {"description": "OK"}, "401": {"description": "Not authenticated"}}}},
        "/preferences": {
            "get": {"tags": ["preferences"], "summary": "UI preferences", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["preferences"], "summary": "Update UI preferences", "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid theme or locale"}}}
        },
        "/payments": {"post": {"tags": ["payments"], "summary": "Create a payment", "responses": {"200": {"description": "Settled"}, "201": {"description": "Created"}, "422": {"description": "Invalid payment"}}}},
        "/payments/history": {"get": {"tags": ["payments"], "summary": "Payment history", "responses": {"200": {"description": "OK"}}}},
        "/payments/balance": {"get": {"tags": ["payments"], "summary": "Account balance", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "502": {"description": "Backend failure"}}}},
        "/payments/{id}": {"put": {"tags": ["payments"], "summary": "Complete a payment", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "domain.Network": {"type": "object", "properties": {"chain_id": {"type": "integer"}, "name": {"type": "string"}, "supported": {"type": "boolean"}}},
        "domain.Session": {"type": "object", "properties": {"phase": {"type": "string", "enum": ["idle", "connecting", "connected", "failed"]}, "address": {"type": "string"}, "balance": {"type": "string"}, "network": {"$ref": "#/definitions/domain.Network"}, "reason": {"type": "string"}, "last_error": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "walletAddress": {"type": "string"}, "username": {"type": "string"}, "avatar": {"type": "string"}, "role": {"type": "string"}, "status": {"type": "string"}, "createdAt": {"type": "string"}}},
        "domain.AuthSession": {"type": "object", "properties": {"phase": {"type": "string", "enum": ["idle", "authenticating", "authenticated", "failed"]}, "user": {"$ref": "#/definitions/domain.User"}, "reason": {"type": "string"}, "updated_at": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "creatorhubd API",
	Description:      "Local session daemon for the creator dashboard: wallet and auth sessions, payments and preferences.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
