// Package docs publica el documento OpenAPI que sirve /swagger/doc.json.
// Se regenera con `swag init -g cmd/api/main.go` a partir de las anotaciones
// de los handlers.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Alta de empresa con su usuario owner",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login con email y contraseña",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/customers": {
            "get": {"tags": ["customers"], "summary": "Listar clientes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["customers"], "summary": "Crear cliente", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/customers/{customerID}/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mascotas del cliente", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["pets"], "summary": "Registrar mascota", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/services": {
            "get": {"tags": ["catalog"], "summary": "Listar servicios", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Crear servicio", "responses": {"201": {"description": "Created"}}}
        },
        "/package-types": {
            "get": {"tags": ["catalog"], "summary": "Listar tipos de paquete", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Crear tipo de paquete", "responses": {"201": {"description": "Created"}}}
        },
        "/packages": {
            "get": {"tags": ["packages"], "summary": "Listar paquetes (active=true aplica el predicado de uso)", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["packages"], "summary": "Vender un paquete a un cliente", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/packages/{packageID}/usages": {
            "get": {"tags": ["packages"], "summary": "Historial de usos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["packages"], "summary": "Registrar un uso", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/packages/{packageID}/renew": {
            "post": {"tags": ["packages"], "summary": "Renovar paquete", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/appointments": {
            "get": {"tags": ["appointments"], "summary": "Listar turnos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["appointments"], "summary": "Agendar turno", "responses": {"201": {"description": "Created"}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "Listar notificaciones", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["notifications"], "summary": "Enviar notificación a un cliente", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/dashboard/metrics": {
            "get": {"tags": ["dashboard"], "summary": "Métricas del tablero", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard/action-queue": {
            "get": {"tags": ["dashboard"], "summary": "Cola de clientes a contactar", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard/revenue": {
            "get": {"tags": ["dashboard"], "summary": "Ingresos por tipo de paquete", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo se puede ajustar desde main (host, basePath).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Grooming Manager API",
	Description:      "Clientes, mascotas, catálogo, paquetes prepagos, turnos y tablero de una peluquería canina multi-empresa.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
