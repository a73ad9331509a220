package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mentor Dashboard API",
        "description": "Backend for the mentor scheduling dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Mentor attendance summaries"},
        {"name": "Schedule", "description": "Cohort schedules and rescheduling"},
        {"name": "Sessions", "description": "Mentor session feed"},
        {"name": "Auth", "description": "Magic-link sign-in"}
    ],
    "paths": {
        "/mentor-attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List all attendance summaries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Recompute one mentor's attendance summary",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["mentorId"],
                        "properties": {"mentorId": {"type": "integer"}}
                    }}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Mentor not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "503": {"description": "Store failure", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/mentor-attendance/recompute": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Queue an attendance recompute for every mentor",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor-attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export attendance summaries",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/cohorts": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List cohort timelines",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cohort/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get one cohort's schedule",
                "parameters": [
                    {"name": "tableName", "in": "query", "type": "string", "required": true},
                    {"name": "mentor_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Schedule"],
                "summary": "Update a single schedule field",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["tableName", "id", "field"],
                        "properties": {
                            "tableName": {"type": "string"},
                            "id": {"type": "integer"},
                            "field": {"type": "string"},
                            "value": {"type": "string"}
                        }
                    }}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Constraint violation", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/cohort/schedule/reschedule-options": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List legal target dates for moving a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "tableName", "in": "query", "type": "string", "required": true},
                    {"name": "id", "in": "query", "type": "integer", "required": true},
                    {"name": "direction", "in": "query", "type": "string", "required": true, "enum": ["postpone", "prepone"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cohort/schedule/reschedule": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Commit a session move",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["tableName", "id", "direction"],
                        "properties": {
                            "tableName": {"type": "string"},
                            "id": {"type": "integer"},
                            "direction": {"type": "string", "enum": ["postpone", "prepone"]},
                            "newDate": {"type": "string"},
                            "newTime": {"type": "string"}
                        }
                    }}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Constraint violation", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/mentor/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get a mentor's upcoming sessions across cohorts",
                "parameters": [
                    {"name": "mentor_id", "in": "query", "type": "integer", "required": true},
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentor/session-details": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get one session's details",
                "parameters": [
                    {"name": "table", "in": "query", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "time", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/mentor/session-material": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Append material links to a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["tableName", "date", "time", "newLinks"],
                        "properties": {
                            "tableName": {"type": "string"},
                            "date": {"type": "string"},
                            "time": {"type": "string"},
                            "newLinks": {"type": "array", "items": {"type": "string"}}
                        }
                    }}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/magic-link": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue a sign-in token for a mentor email",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "required": ["email", "password"],
                        "properties": {
                            "email": {"type": "string"},
                            "password": {"type": "string"}
                        }
                    }}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Bad password", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "tags": ["Auth"],
                "summary": "Exchange a sign-in token for an access token",
                "parameters": [
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
