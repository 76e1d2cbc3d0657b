// Package pipeline turns a LoRA training run into a model registered with the
// serving runtime. It is structured into small files by concern:
//
//   - runid.go: "<model>::<run>" identifiers and parsing.
//   - request.go: Request and validation of the new model name.
//   - paths.go: PathSet, every host and in-service path a run touches.
//   - errors.go: NotFoundError, CommandError, TimeoutError, StepError and Is* helpers.
//   - wait.go: Waiter, the host-side poll for the converted file.
//   - steps.go: the individual steps and their command vectors.
//   - pipeline.go: Pipeline, Config and the Run driver.
//   - metrics.go: Prometheus collectors for runs and steps.
//
// Run is strictly sequential: LocateAdapter, Merge, Convert, WaitForFile,
// WriteManifest, Load. The first failing step ends the run. Nothing is retried
// and partial outputs are left on disk.
package pipeline
