// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/questions": {"get": {"tags": ["catalog"], "summary": "List the 20 questionnaire items", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Question"}}}}}},
        "/types": {"get": {"tags": ["catalog"], "summary": "List the followership types", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/FollowershipType"}}}}}},
        "/sessions": {"post": {"tags": ["sessions"], "summary": "Start a session", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/SessionCreated"}}}}},
        "/sessions/{id}": {"get": {"tags": ["sessions"], "summary": "Current session state", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "404": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/start": {"post": {"tags": ["sessions"], "summary": "Leave the intro screen", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "409": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/back": {"post": {"tags": ["sessions"], "summary": "Return to the intro screen", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "409": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/identity": {"put": {"tags": ["sessions"], "summary": "Submit name and company", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RespondentIdentity"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "422": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/answers": {"put": {"tags": ["sessions"], "summary": "Replace all 20 answers", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}, {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"answers": {"type": "array", "items": {"type": "integer"}}}}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "422": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/answers/{index}": {"put": {"tags": ["sessions"], "summary": "Set one answer (0 clears it)", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}, {"name": "index", "in": "path", "required": true, "type": "integer"}, {"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"value": {"type": "integer"}}}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "422": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/submit": {"post": {"tags": ["sessions"], "summary": "Score the answers and start report generation", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/SessionView"}}, "409": {"$ref": "#/responses/Error"}, "422": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/retry": {"post": {"tags": ["sessions"], "summary": "Return from the error screen to the questions", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}, "409": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/restart": {"post": {"tags": ["sessions"], "summary": "Discard everything and start over", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionView"}}}}},
        "/sessions/{id}/result": {"get": {"tags": ["sessions"], "summary": "Analysis result of a completed session", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AnalysisResult"}}, "409": {"$ref": "#/responses/Error"}}}},
        "/sessions/{id}/archive": {"post": {"tags": ["reports"], "summary": "Archive the rendered result PDF", "consumes": ["application/pdf", "multipart/form-data"], "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ReportRecord"}}, "409": {"$ref": "#/responses/Error"}, "413": {"$ref": "#/responses/Error"}, "415": {"$ref": "#/responses/Error"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Admin login", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}}, "401": {"$ref": "#/responses/Error"}}}},
        "/admin/reports": {"get": {"tags": ["admin"], "summary": "List archived reports, newest first", "security": [{"Bearer": []}], "parameters": [{"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ReportRecord"}}}}}},
        "/admin/reports/stats": {"get": {"tags": ["admin"], "summary": "Report counts by type and company", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ReportStats"}}}}},
        "/admin/reports/{id}/file": {"get": {"tags": ["admin"], "summary": "Download a report PDF", "produces": ["application/pdf"], "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "PDF file"}, "404": {"$ref": "#/responses/Error"}}}},
        "/admin/reports/{id}": {"delete": {"tags": ["admin"], "summary": "Delete a report file and its metadata", "security": [{"Bearer": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}, "404": {"$ref": "#/responses/Error"}}}}
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "responses": {
        "Error": {"description": "Error", "schema": {"$ref": "#/definitions/Error"}}
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "string"}, "session": {"$ref": "#/definitions/SessionView"}}},
        "Question": {"type": "object", "properties": {"id": {"type": "integer"}, "text": {"type": "string"}, "axis": {"type": "string", "enum": ["Participation", "IndependentThinking"]}}},
        "FollowershipType": {"type": "object", "properties": {"code": {"type": "string"}, "name": {"type": "string"}, "english": {"type": "string"}, "color": {"type": "string"}}},
        "RespondentIdentity": {"type": "object", "properties": {"name": {"type": "string"}, "company": {"type": "string"}}},
        "AnalysisResult": {"type": "object", "properties": {"type": {"$ref": "#/definitions/FollowershipType"}, "scoreParticipation": {"type": "integer"}, "scoreIndependentThinking": {"type": "integer"}, "reportHtml": {"type": "string"}, "answersParticipation": {"type": "array", "items": {"type": "integer"}}, "answersIndependentThinking": {"type": "array", "items": {"type": "integer"}}}},
        "SessionState": {"type": "object", "properties": {"step": {"type": "string", "enum": ["INTRO", "USER_INFO", "QUESTIONS", "ANALYZING", "RESULT", "ERROR"]}, "identity": {"$ref": "#/definitions/RespondentIdentity"}, "answers": {"type": "array", "items": {"type": "integer"}}, "result": {"$ref": "#/definitions/AnalysisResult"}, "error": {"type": "string"}, "generation": {"type": "integer"}}},
        "SessionView": {"type": "object", "properties": {"sessionId": {"type": "string"}, "state": {"$ref": "#/definitions/SessionState"}, "answeredCount": {"type": "integer"}}},
        "SessionCreated": {"type": "object", "properties": {"sessionId": {"type": "string"}, "state": {"$ref": "#/definitions/SessionState"}, "answeredCount": {"type": "integer"}, "token": {"type": "string"}}},
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expiresAt": {"type": "integer"}}},
        "ReportRecord": {"type": "object", "properties": {"id": {"type": "string"}, "fileName": {"type": "string"}, "fileId": {"type": "string"}, "userName": {"type": "string"}, "company": {"type": "string"}, "followershipType": {"type": "string"}, "typeCode": {"type": "string"}, "scoreA": {"type": "integer"}, "scoreB": {"type": "integer"}, "sizeBytes": {"type": "integer"}, "downloadURL": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}}},
        "ReportStats": {"type": "object", "properties": {"total": {"type": "integer"}, "byType": {"type": "object", "additionalProperties": {"type": "integer"}}, "byCompany": {"type": "object", "additionalProperties": {"type": "integer"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Followership Assessment API",
	Description:      "Kelley followership questionnaire sessions, scoring and report archive",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
