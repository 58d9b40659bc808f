// Package swagger registers the OpenAPI document served by the Swagger UI
// at /api/docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and your API token. Example: \"Bearer ud_xxx\""
        }
    },
    "paths": {
        "/slug-check": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Slugs"],
                "summary": "Check slug availability",
                "parameters": [
                    {"type": "string", "name": "slug", "in": "query", "required": true, "description": "Candidate slug"}
                ],
                "responses": {
                    "200": {"description": "Availability result"},
                    "400": {"description": "Missing, invalid, or reserved slug"},
                    "500": {"description": "Availability check failed"}
                }
            }
        },
        "/invitations": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "List invitations",
                "responses": {"200": {"description": "Invitation list"}}
            },
            "post": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Create an invitation",
                "responses": {
                    "201": {"description": "Created invitation"},
                    "400": {"description": "Invalid slug or configuration"},
                    "409": {"description": "Slug already exists"},
                    "503": {"description": "Slug availability check failed"}
                }
            }
        },
        "/invitations/{id}": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Get an invitation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Invitation"}, "404": {"description": "Not found"}}
            },
            "put": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Update an invitation's configuration",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Updated invitation"},
                    "400": {"description": "Aggregated dotted-path field errors"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Delete an invitation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/invitations/{id}/publish": {
            "post": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Publish an invitation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Published invitation"},
                    "400": {"description": "Configuration fails validation"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/invitations/{id}/unpublish": {
            "post": {
                "security": [{"BearerToken": []}],
                "tags": ["Invitations"],
                "summary": "Unpublish an invitation",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Unpublished invitation"}, "404": {"description": "Not found"}}
            }
        },
        "/invitations/{id}/rsvps": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["RSVPs"],
                "summary": "List RSVPs",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "RSVP list"}, "404": {"description": "Not found"}}
            }
        },
        "/invitations/{id}/rsvps/{rid}": {
            "delete": {
                "security": [{"BearerToken": []}],
                "tags": ["RSVPs"],
                "summary": "Delete an RSVP",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "rid", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/invitations/{id}/guestbook": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Guestbook"],
                "summary": "List guestbook entries",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Guestbook entries"}, "404": {"description": "Not found"}}
            }
        },
        "/invitations/{id}/guestbook/{eid}": {
            "delete": {
                "security": [{"BearerToken": []}],
                "tags": ["Guestbook"],
                "summary": "Delete a guestbook entry",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "eid", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/tokens": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Tokens"],
                "summary": "List API tokens",
                "responses": {"200": {"description": "Token list"}}
            },
            "post": {
                "security": [{"BearerToken": []}],
                "tags": ["Tokens"],
                "summary": "Create an API token",
                "responses": {"201": {"description": "Token with one-time plaintext"}}
            }
        },
        "/tokens/{id}": {
            "delete": {
                "security": [{"BearerToken": []}],
                "tags": ["Tokens"],
                "summary": "Revoke an API token",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "Revoked"}, "404": {"description": "Not found"}}
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Admin"],
                "summary": "List all users (admin)",
                "responses": {"200": {"description": "User list"}, "403": {"description": "Forbidden"}}
            }
        },
        "/admin/users/{id}/role": {
            "put": {
                "security": [{"BearerToken": []}],
                "tags": ["Admin"],
                "summary": "Update user role (admin)",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Updated user"}, "403": {"description": "Forbidden"}}
            }
        },
        "/admin/invitations": {
            "get": {
                "security": [{"BearerToken": []}],
                "tags": ["Admin"],
                "summary": "List all invitations (admin)",
                "responses": {"200": {"description": "Invitation list"}, "403": {"description": "Forbidden"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "undang API",
	Description:      "Wedding invitation authoring and publishing service. Authenticate with a Personal Access Token.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
