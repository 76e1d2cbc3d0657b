package types

// GGUFModel is a converted model file found in the saves directory.
type GGUFModel struct {
	// File name including extension.
	// example: mymodel.gguf
	Filename string `json:"filename" example:"mymodel.gguf"`
	// File name without the .gguf suffix.
	// example: mymodel
	ModelName string `json:"model_name" example:"mymodel"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Pipeline runs currently executing.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Pipeline runs started since process start.
	// example: 12
	RunsTotal uint64 `json:"runs_total" example:"12"`
	// Pipeline runs that ended in an error.
	// example: 2
	RunsFailed uint64 `json:"runs_failed" example:"2"`
	// Message of the most recent failed run, if any.
	LastError string `json:"last_error,omitempty"`
	// Model name registered by the most recent successful run.
	// example: mymodel
	LastModel string `json:"last_model,omitempty" example:"mymodel"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
