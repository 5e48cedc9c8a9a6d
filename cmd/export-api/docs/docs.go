// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Check if API is alive",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/exports/{report}": {
            "post": {
                "description": "Render a report as an Excel workbook or a PDF document",
                "consumes": ["application/json"],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Export"],
                "summary": "Export a report",
                "parameters": [
                    {"type": "string", "description": "Report (inventory, crm, accounting, orders, activity, dashboard, ledger)", "name": "report", "in": "path", "required": true},
                    {"type": "string", "description": "excel or pdf", "name": "format", "in": "query", "required": true},
                    {"type": "string", "description": "link to receive a temporary download URL", "name": "delivery", "in": "query"},
                    {"description": "Report data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reports.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/documents/purchase-order": {
            "post": {
                "description": "Render a supplier purchase order as PDF",
                "consumes": ["application/json"],
                "produces": ["application/pdf"],
                "tags": ["Documents"],
                "summary": "Render a purchase order",
                "parameters": [
                    {"description": "Purchase order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/export.PurchaseOrder"}},
                    {"type": "string", "description": "link to receive a temporary download URL", "name": "delivery", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/documents/invoice": {
            "post": {
                "description": "Render a client invoice as PDF",
                "consumes": ["application/json"],
                "produces": ["application/pdf"],
                "tags": ["Documents"],
                "summary": "Render an invoice",
                "parameters": [
                    {"description": "Invoice", "name": "invoice", "in": "body", "required": true, "schema": {"$ref": "#/definitions/export.Invoice"}},
                    {"type": "string", "description": "link to receive a temporary download URL", "name": "delivery", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/activity/export": {
            "get": {
                "description": "Render the stored activity journal, newest first",
                "produces": ["application/pdf"],
                "tags": ["Export"],
                "summary": "Export the activity journal",
                "parameters": [
                    {"type": "string", "description": "excel or pdf", "name": "format", "in": "query", "required": true},
                    {"type": "string", "description": "Only entries of this module", "name": "module", "in": "query"},
                    {"type": "integer", "default": 1000, "description": "Maximum number of entries", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/downloads/{id}": {
            "get": {
                "description": "Fetch an export stored with delivery=link before its link expires",
                "produces": ["application/octet-stream"],
                "tags": ["Export"],
                "summary": "Download an export",
                "parameters": [{"type": "string", "description": "Download ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "reports.Request": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "expenses": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "data": {"type": "object", "additionalProperties": true},
                "currency": {"type": "string"},
                "period": {"type": "integer"},
                "store_name": {"type": "string"}
            }
        },
        "export.OrderItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "quantity": {"type": "number"},
                "unit_price": {"type": "number"},
                "price": {"type": "number"}
            }
        },
        "export.PurchaseOrder": {
            "type": "object",
            "properties": {
                "order_id": {"type": "string"},
                "supplier_name": {"type": "string"},
                "supplier_phone": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string"},
                "total_amount": {"type": "number"},
                "currency": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/export.OrderItem"}}
            }
        },
        "export.InvoiceItem": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "quantity": {"type": "number"},
                "price": {"type": "number"}
            }
        },
        "export.Invoice": {
            "type": "object",
            "properties": {
                "client_name": {"type": "string"},
                "notes": {"type": "string"},
                "currency": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/export.InvoiceItem"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stockman Export API",
	Description:      "Excel and PDF exports for the Stockman console",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
