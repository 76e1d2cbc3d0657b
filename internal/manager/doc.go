// Package manager is the service layer behind the HTTP API. It is structured
// into small files by concern:
//
//   - manager.go: core Manager type, constructor, listing queries, readiness.
//   - config.go: ManagerConfig and NewWithConfig.
//   - convert.go: ConvertAndLoad, the entry point for one pipeline run.
//   - status.go: run counters reported by /status.
//   - events.go: lifecycle events for optional subscribers.
//
// The conversion itself lives in internal/pipeline; this package adds
// bookkeeping, events and the request-to-pipeline mapping. External packages
// should use public methods only.
package manager
