package manager

import (
	"context"

	"convertd/internal/pipeline"
	"convertd/pkg/types"
)

// ConvertAndLoad runs the full pipeline for runID. Once validated, the run is
// detached from ctx cancellation and always reaches a terminal state.
func (m *Manager) ConvertAndLoad(ctx context.Context, runID string, req types.ConvertAndLoadRequest) (pipeline.Result, error) {
	preq := pipeline.Request{
		BaseModelPath:   req.BaseModelPath,
		UseLegacyFormat: req.UseLegacyFormat,
		NewModelName:    req.NewModelName,
		SystemPrompt:    req.SystemPrompt,
	}
	if _, _, err := m.pipe.Plan(runID, preq); err != nil {
		return pipeline.Result{}, err
	}

	pub := m.events()
	m.beginRun()
	pub.Publish(Event{Name: "convert_start", ModelID: req.NewModelName, Fields: map[string]any{"training_run_id": runID}})

	res, err := m.pipe.Run(context.WithoutCancel(ctx), runID, preq)
	m.endRun(req.NewModelName, err)

	if err != nil {
		fields := map[string]any{"training_run_id": runID, "error": err.Error()}
		if step, ok := pipeline.FailedStep(err); ok {
			fields["step"] = string(step)
		}
		pub.Publish(Event{Name: "convert_failed", ModelID: req.NewModelName, Fields: fields})
		return pipeline.Result{}, err
	}
	pub.Publish(Event{Name: "convert_done", ModelID: req.NewModelName, Fields: map[string]any{
		"training_run_id": runID,
		"duration_ms":     res.Duration.Milliseconds(),
	}})
	return res, nil
}
