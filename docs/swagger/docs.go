// Package swagger holds the registered OpenAPI spec served at /swagger.json.
// Regenerate with "go generate ./docs" after changing endpoint annotations.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/fieldwise/takeoff"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Check server health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}
                    }
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get detailed server status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.StatusResponse"}
                    }
                }
            }
        },
        "/api/drawings/analyze": {
            "post": {
                "description": "Upload a drawing PDF and receive panel, circuit, conduit and material takeoff results",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Analyze an electrical drawing set",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Drawing PDF",
                        "name": "files",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Markup sidecar JSON",
                        "name": "markup",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/engine.AnalysisResult"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    }
                }
            }
        },
        "/api/drawings/batch": {
            "post": {
                "description": "Upload multiple drawing PDFs; returns per-document results plus combined material totals and the union of issue categories",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Analyze several drawing sets in one request",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Drawing PDFs",
                        "name": "files",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/engine.BatchResult"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    }
                }
            }
        },
        "/api/drawings/summarize": {
            "post": {
                "description": "Send a previously returned analysis result; requires summaries to be enabled in config",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Generate a narrative review of an analysis result",
                "parameters": [
                    {
                        "description": "Analysis result to review",
                        "name": "result",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/engine.AnalysisResult"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.SummaryResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "endpoints.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "endpoints.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "endpoints.StatusResponse": {
            "type": "object",
            "properties": {
                "server": {"type": "string"},
                "engine": {"$ref": "#/definitions/endpoints.EngineStatus"},
                "summarizer": {"type": "string"}
            }
        },
        "endpoints.EngineStatus": {
            "type": "object",
            "properties": {
                "overage": {"type": "number"},
                "high_conduit_runs": {"type": "integer"},
                "high_panel_count": {"type": "integer"},
                "stick_length_ft": {"type": "integer"}
            }
        },
        "endpoints.SummaryResponse": {
            "type": "object",
            "properties": {
                "summary": {"type": "string"},
                "model": {"type": "string"}
            }
        },
        "engine.AnalysisResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "pages": {"type": "integer"},
                "panels_detected": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/engine.Panel"}
                },
                "circuits_count": {"type": "integer"},
                "conduit_runs": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/engine.ConduitRun"}
                },
                "materials": {
                    "type": "object",
                    "additionalProperties": {"type": "integer"}
                },
                "flagged_issues": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "issues": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/engine.Issue"}
                },
                "notes": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "analyzed_at": {"type": "string"}
            }
        },
        "engine.BatchResult": {
            "type": "object",
            "properties": {
                "total_files": {"type": "integer"},
                "results": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/engine.AnalysisResult"}
                },
                "total_materials": {
                    "type": "object",
                    "additionalProperties": {"type": "integer"}
                },
                "issue_categories": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        },
        "engine.Panel": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "source_pages": {
                    "type": "array",
                    "items": {"type": "integer"}
                }
            }
        },
        "engine.ConduitRun": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "size": {"type": "string"},
                "run_count": {"type": "integer"}
            }
        },
        "engine.Issue": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Takeoff API",
	Description:      "Electrical drawing analysis API for panel, circuit and conduit takeoffs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
