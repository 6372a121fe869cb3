package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sports Registration API",
        "description": "Bulk student registration for multi-sport events",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Account authentication"},
        {"name": "Import", "description": "Bulk student upload"},
        {"name": "Students", "description": "Student roster"},
        {"name": "Reference", "description": "Sports and age categories"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/students/parse": {
            "post": {
                "tags": ["Import"],
                "summary": "Preview a student upload without committing",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/bulk-upload": {
            "post": {
                "tags": ["Import"],
                "summary": "Commit a student upload",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": false, "type": "file"},
                    {"name": "rows", "in": "formData", "required": false, "type": "string", "description": "JSON array of confirmed rows from a previous parse"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/import-template": {
            "get": {
                "tags": ["Import"],
                "summary": "Download the student upload template",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV template"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sportId", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a single student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Deactivate student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sports": {
            "get": {
                "tags": ["Reference"],
                "summary": "List sports with distances and sub-types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/age-categories": {
            "get": {
                "tags": ["Reference"],
                "summary": "List configured age categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "StudentRow": {
            "type": "object",
            "properties": {
                "rowNumber": {"type": "integer"},
                "name": {"type": "string"},
                "uid": {"type": "string"},
                "dob": {"type": "string"},
                "formattedDob": {"type": "string"},
                "gender": {"type": "string"},
                "nationality": {"type": "string"},
                "city": {"type": "string"},
                "grade": {"type": "string"},
                "bloodGroup": {"type": "string"},
                "relationship": {"type": "string"},
                "sport": {"type": "string"},
                "distance": {"type": "string"},
                "sportSubType": {"type": "string"},
                "parentEmail": {"type": "string"},
                "parentName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "countryCode": {"type": "string"},
                "medicalConditions": {"type": "string"}
            }
        },
        "ImportRowError": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "uid": {"type": "string"},
                "name": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "ImportPreviewError": {
            "allOf": [
                {"$ref": "#/definitions/StudentRow"},
                {
                    "type": "object",
                    "properties": {
                        "error": {"type": "string"}
                    }
                }
            ]
        },
        "ImportPreview": {
            "type": "object",
            "properties": {
                "validRows": {"type": "array", "items": {"$ref": "#/definitions/StudentRow"}},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/ImportPreviewError"}},
                "totalRows": {"type": "integer"}
            }
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "successCount": {"type": "integer"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/ImportRowError"}},
                "reportCsv": {"type": "string"},
                "reportPdf": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "uid": {"type": "string"},
                "full_name": {"type": "string"},
                "gender": {"type": "string"},
                "birth_date": {"type": "string"},
                "nationality": {"type": "string"},
                "city": {"type": "string"},
                "grade": {"type": "string"},
                "blood_group": {"type": "string"},
                "sport_id": {"type": "string"},
                "distance_id": {"type": "string"},
                "sport_sub_type_id": {"type": "string"},
                "age_category_id": {"type": "string"},
                "medical_notes": {"type": "string"}
            },
            "required": ["uid", "full_name", "gender", "birth_date", "sport_id", "age_category_id"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "gender": {"type": "string"},
                "birth_date": {"type": "string"},
                "nationality": {"type": "string"},
                "city": {"type": "string"},
                "grade": {"type": "string"},
                "blood_group": {"type": "string"},
                "sport_id": {"type": "string"},
                "distance_id": {"type": "string"},
                "sport_sub_type_id": {"type": "string"},
                "age_category_id": {"type": "string"},
                "medical_notes": {"type": "string"},
                "active": {"type": "boolean"}
            },
            "required": ["full_name", "gender", "birth_date", "sport_id", "age_category_id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
