package types

// ConvertAndLoadRequest is the body of POST /models/convert-and-load/{model_name}.
type ConvertAndLoadRequest struct {
	// Base model path as understood by the merge service.
	// example: meta-llama/Llama-3.2-1B-Instruct
	BaseModelPath string `json:"base_model_path" example:"meta-llama/Llama-3.2-1B-Instruct"`
	// Requested legacy export format. Currently not forwarded to the merge command.
	// example: false
	UseLegacyFormat bool `json:"use_legacy_format" example:"false"`
	// Name of the model to register in the serving runtime. Must not contain path separators.
	// example: mymodel
	NewModelName string `json:"new_model_name" example:"mymodel"`
	// System prompt embedded verbatim in the generated Modelfile.
	// example: You are a helpful assistant.
	SystemPrompt string `json:"system_prompt" example:"You are a helpful assistant."`
}

// MessageResponse carries a human-readable message.
type MessageResponse struct {
	// example: Successfully converted and loaded model: llama3::run1
	Message string `json:"message" example:"Successfully converted and loaded model: llama3::run1"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// FinetunedModelsResponse lists training runs that hold a LoRA adapter.
type FinetunedModelsResponse struct {
	// Training run identifiers in "<model>::<run>" form.
	// example: ["llama3::run1"]
	Models []string `json:"models"`
}

// GGUFModelsResponse lists converted GGUF files in the saves directory.
type GGUFModelsResponse struct {
	Models []GGUFModel `json:"models"`
}

// OllamaModelsResponse lists rows of `ollama list`, header removed.
// Each row is the whitespace-split columns of one line.
type OllamaModelsResponse struct {
	Models [][]string `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
