// Package docs содержит сгенерированную Swagger-спецификацию API.
// Код сгенерирован swag; регенерация: swag init -g cmd/server/main.go
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Регистрация пользователя",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Выдача access-токена",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/trainings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["trainings"],
                "summary": "Список тренировок",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["trainings"],
                "summary": "Создать тренировку",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/trainings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["trainings"],
                "summary": "Получить тренировку",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["trainings"],
                "summary": "Изменить дату тренировки",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["trainings"],
                "summary": "Удалить тренировку",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/trainings/{id}/muscle-groups": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["muscle-groups"],
                "summary": "Добавить группу мышц",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/muscle-groups/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["muscle-groups"],
                "summary": "Получить группу мышц",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["muscle-groups"],
                "summary": "Переименовать группу мышц",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["muscle-groups"],
                "summary": "Удалить группу мышц",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/muscle-groups/{id}/exercises": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercises"],
                "summary": "Добавить упражнение",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/exercises/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercises"],
                "summary": "Получить упражнение",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercises"],
                "summary": "Изменить вес упражнения",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercises"],
                "summary": "Удалить упражнение",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/exercises/{id}/sets": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["sets"],
                "summary": "Добавить подход",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/sets/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sets"],
                "summary": "Получить подход",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["sets"],
                "summary": "Изменить подход",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["sets"],
                "summary": "Удалить подход",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/permission": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["permission"],
                "summary": "Переключить права администратора",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/permission/delete": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["permission"],
                "summary": "Удалить пользователя",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/permission/get_id": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["permission"],
                "summary": "Найти ID пользователя",
                "parameters": [
                    {"type": "string", "name": "username", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
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
    }
}`

// SwaggerInfo хранит метаданные спецификации.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Fitness App API",
	Description:      "Backend для дневника тренировок: пользователи, тренировки, группы мышц, упражнения и подходы.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
