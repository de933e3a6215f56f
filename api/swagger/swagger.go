package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Smart Classroom Scheduler API",
        "description": "Constraint-based university timetable generation and catalog management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Timetable generation, publication and conflict detection"},
        {"name": "Courses", "description": "Course catalog management"},
        {"name": "Faculty", "description": "Faculty roster management"},
        {"name": "Classrooms", "description": "Classroom catalog management"},
        {"name": "System", "description": "Health and observability"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a draft timetable from the current catalog",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Draft generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Malformed catalog or grid"}
                }
            }
        },
        "/timetable/save": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Publish a draft timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Draft published"},
                    "404": {"description": "Draft not found or expired"},
                    "409": {"description": "Draft has unresolved conflicts"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List the published timetable",
                "parameters": [
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "facultyId", "in": "query", "type": "string"},
                    {"name": "classroomId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/entries": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Add a manual schedule entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Entry added with refreshed conflict report"}
                }
            }
        },
        "/timetable/entries/{id}": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Update a schedule entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Entry updated with refreshed conflict report"},
                    "404": {"description": "Entry not found"}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a schedule entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Entry deleted with refreshed conflict report"},
                    "404": {"description": "Entry not found"}
                }
            }
        },
        "/timetable/conflicts": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Re-scan the published timetable for conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/DetectConflictsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conflict report"}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the published timetable",
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf", "json"]},
                    {"name": "department", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Signed download URL"}
                }
            }
        },
        "/timetable/export/{token}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download a rendered export by signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Export not found"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Code already exists"}}
            }
        },
        "/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get course", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Courses"], "summary": "Update course", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Courses"], "summary": "Delete course", "responses": {"204": {"description": "Deleted"}, "412": {"description": "Referenced by schedule entries"}}}
        },
        "/faculty": {
            "get": {"tags": ["Faculty"], "summary": "List faculty", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Faculty"], "summary": "Create faculty member", "responses": {"201": {"description": "Created"}}}
        },
        "/faculty/{id}": {
            "get": {"tags": ["Faculty"], "summary": "Get faculty member", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Faculty"], "summary": "Update faculty member", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Faculty"], "summary": "Delete faculty member", "responses": {"204": {"description": "Deleted"}, "412": {"description": "Referenced by schedule entries"}}}
        },
        "/classrooms": {
            "get": {"tags": ["Classrooms"], "summary": "List classrooms", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Classrooms"], "summary": "Create classroom", "responses": {"201": {"description": "Created"}}}
        },
        "/classrooms/{id}": {
            "get": {"tags": ["Classrooms"], "summary": "Get classroom", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Classrooms"], "summary": "Update classroom", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Classrooms"], "summary": "Delete classroom", "responses": {"204": {"description": "Deleted"}, "412": {"description": "Referenced by schedule entries"}}}
        },
        "/status": {
            "get": {"tags": ["System"], "summary": "Aggregate runtime metrics snapshot", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "department": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}},
                "timeSlots": {"type": "array", "items": {"type": "string"}},
                "constraints": {"$ref": "#/definitions/ConstraintConfig"}
            }
        },
        "SaveTimetableRequest": {
            "type": "object",
            "required": ["draftId"],
            "properties": {
                "draftId": {"type": "string"},
                "force": {"type": "boolean"}
            }
        },
        "EntryRequest": {
            "type": "object",
            "required": ["courseId", "facultyId", "classroomId", "day", "timeSlot"],
            "properties": {
                "courseId": {"type": "string"},
                "facultyId": {"type": "string"},
                "classroomId": {"type": "string"},
                "day": {"type": "string"},
                "timeSlot": {"type": "string"},
                "constraints": {"$ref": "#/definitions/ConstraintConfig"}
            }
        },
        "DetectConflictsRequest": {
            "type": "object",
            "properties": {
                "timeSlots": {"type": "array", "items": {"type": "string"}},
                "constraints": {"$ref": "#/definitions/ConstraintConfig"}
            }
        },
        "ConstraintConfig": {
            "type": "object",
            "properties": {
                "avoid_back_to_back": {"type": "boolean"},
                "max_hours_per_day": {"type": "integer"},
                "min_gap_between_classes": {"type": "integer"},
                "prefer_morning_slots": {"type": "boolean"},
                "avoid_evening_classes": {"type": "boolean"},
                "optimize_for": {"type": "string", "enum": ["no_conflicts", "faculty_preference", "room_utilization", "student_convenience"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
