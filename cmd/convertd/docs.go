package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/convertd/docs.go`.
//
// @title           convertd API
// @version         1.0
// @description     Merges LoRA adapters, converts them to GGUF and loads them into Ollama.
//
// @contact.name   convertd maintainers
// @contact.url    https://github.com/your-org/convertd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
