// Package docs provides the generated swagger spec served at /docs/doc.json.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/jobs": {
            "post": {
                "description": "Queues generation for one team season and returns the job ID immediately.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Submit a profile generation job",
                "parameters": [
                    {
                        "description": "Team and season",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.submitRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/jobs/{jobID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Poll job status",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "jobID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/job.Job"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Requests cooperative cancellation; the worker stops at its next stage boundary.",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Cancel a job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "jobID", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/profiles/{team}/{season}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Fetch a generated profile",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true},
                    {"type": "integer", "description": "Season year", "name": "season", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profile.TeamProfile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.submitRequest": {
            "type": "object",
            "properties": {
                "team": {"type": "string"},
                "season": {"type": "integer"},
                "forceRefresh": {"type": "boolean"}
            }
        },
        "job.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "team": {"type": "string"},
                "season": {"type": "integer"},
                "status": {"type": "string"},
                "progress": {"type": "integer"},
                "message": {"type": "string"},
                "sourceStatuses": {"type": "array", "items": {"$ref": "#/definitions/profile.SourceStatus"}},
                "resultRef": {"type": "string"},
                "error": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "profile.SourceStatus": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "profile.TeamProfile": {
            "type": "object",
            "properties": {
                "team": {"type": "string"},
                "season": {"type": "integer"},
                "seasonType": {"type": "string"},
                "generatedAt": {"type": "string"},
                "conference": {"type": "string"},
                "records": {"type": "object"},
                "teamStats": {"type": "object"},
                "gameLog": {"type": "array", "items": {"type": "object"}},
                "roster": {"type": "array", "items": {"type": "object"}},
                "advancedMetrics": {"type": "object"},
                "encyclopediaMetadata": {"type": "object"},
                "coachingHistory": {"type": "object"},
                "netRating": {"type": "object"},
                "sourceStatuses": {"type": "array", "items": {"$ref": "#/definitions/profile.SourceStatus"}},
                "metadata": {"type": "object"}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "TeamScout API",
	Description:      "Cancellable, pollable team scouting profile generation: primary provider data, enrichment sources, derived statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
