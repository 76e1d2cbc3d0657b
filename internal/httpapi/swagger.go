//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// apiSpec is a hand-maintained subset of the generated document; run
// `swag init -g cmd/convertd/docs.go` for the full schema set.
var apiSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Title:            "convertd API",
	Description:      "Merges LoRA adapters, converts them to GGUF and loads them into Ollama.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(apiSpec.InstanceName(), apiSpec)
}

// MountSwagger serves the UI under /swagger/ and the document at /swagger/doc.json.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const swaggerTemplate = `{
  "swagger": "2.0",
  "info": {"title": "{{.Title}}", "description": "{{escape .Description}}", "version": "{{.Version}}"},
  "basePath": "{{.BasePath}}",
  "paths": {
    "/": {"get": {"tags": ["meta"], "summary": "Welcome message", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/health": {"get": {"tags": ["meta"], "summary": "Health check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/status": {"get": {"tags": ["meta"], "summary": "Pipeline counters", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/models/finetuned": {"get": {"tags": ["models"], "summary": "List fine-tuned training runs", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
    "/models/gguf": {"get": {"tags": ["models"], "summary": "List converted GGUF files", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
    "/models/ollama": {"get": {"tags": ["models"], "summary": "List models registered in the serving runtime", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
    "/models/convert-and-load/{model_name}": {"post": {
      "tags": ["models"],
      "summary": "Merge, convert and load a fine-tuned model",
      "consumes": ["application/json"],
      "produces": ["application/json"],
      "parameters": [
        {"name": "model_name", "in": "path", "required": true, "type": "string", "description": "Training run id, <model>::<run>"},
        {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ConvertAndLoadRequest"}}
      ],
      "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "415": {"description": "Unsupported Media Type"}, "500": {"description": "Internal Server Error"}}
    }}
  },
  "definitions": {
    "types.ConvertAndLoadRequest": {
      "type": "object",
      "properties": {
        "base_model_path": {"type": "string", "example": "meta-llama/Llama-3.2-1B-Instruct"},
        "use_legacy_format": {"type": "boolean", "example": false},
        "new_model_name": {"type": "string", "example": "mymodel"},
        "system_prompt": {"type": "string", "example": "You are a helpful assistant."}
      }
    }
  }
}`
