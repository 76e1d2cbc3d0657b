package pipeline

import (
	"context"

	"convertd/internal/common/fsutil"
	"convertd/internal/manifest"
)

// Fixed export parameters for the merge service.
const (
	mergeTemplate   = "default"
	mergeExportSize = "2"
	// mergeLegacyFormat is always sent as-is; Request.UseLegacyFormat does not reach it.
	mergeLegacyFormat = "False"
	convertOutType    = "f16"
)

// LocateAdapter checks the adapter directory exists on the host. The
// adapter_config.json marker is not required here.
func LocateAdapter(ps PathSet) error {
	if !fsutil.IsDir(ps.HostAdapter) {
		return &NotFoundError{What: "Adapter", Path: ps.HostAdapter}
	}
	return nil
}

// MergeCommand is the argv run in the merge service.
func MergeCommand(baseModelPath string, ps PathSet) []string {
	return []string{
		"llamafactory-cli", "export",
		"--model_name_or_path", baseModelPath,
		"--adapter_name_or_path", ps.MergeAdapter,
		"--template", mergeTemplate,
		"--export_dir", ps.MergeOutput,
		"--export_size", mergeExportSize,
		"--export_legacy_format", mergeLegacyFormat,
	}
}

// ConvertCommand is the argv run in the convert service.
func ConvertCommand(ps PathSet) []string {
	return []string{
		"python3", "convert_hf_to_gguf.py",
		ps.ConvertInput,
		"--outfile", ps.ConvertOutput,
		"--outtype", convertOutType,
	}
}

// CreateCommand is the argv that registers the model in the serving runtime.
func CreateCommand(newModelName string, ps PathSet) []string {
	return []string{"ollama", "create", newModelName, "-f", ps.ServeModelfile}
}

// ListCommand is the argv that lists models known to the serving runtime.
func ListCommand() []string { return []string{"ollama", "list"} }

func (p *Pipeline) merge(ctx context.Context, req Request, ps PathSet) error {
	if req.UseLegacyFormat {
		p.log.Debug().Msg("use_legacy_format requested; merge exports with --export_legacy_format False")
	}
	return p.run(ctx, p.cfg.Services.Merge, "Failed to merge LoRA adapter", MergeCommand(req.BaseModelPath, ps))
}

func (p *Pipeline) convert(ctx context.Context, ps PathSet) error {
	return p.run(ctx, p.cfg.Services.Convert, "GGUF conversion failed", ConvertCommand(ps))
}

func (p *Pipeline) writeManifest(req Request, ps PathSet) error {
	return manifest.Write(ps.HostModelfile, ps.ServeGGUF, req.SystemPrompt)
}

func (p *Pipeline) load(ctx context.Context, req Request, ps PathSet) error {
	svc := p.cfg.Services.Serve
	if err := p.exec.CopyFile(ctx, svc, ps.HostGGUF, ps.ServeGGUF); err != nil {
		return err
	}
	if err := p.exec.CopyFile(ctx, svc, ps.HostModelfile, ps.ServeModelfile); err != nil {
		return err
	}
	return p.run(ctx, svc, "Ollama model creation failed", CreateCommand(req.NewModelName, ps))
}

// run executes argv in service and turns a non-zero exit into a *CommandError.
func (p *Pipeline) run(ctx context.Context, service, op string, argv []string) error {
	res, err := p.exec.Exec(ctx, service, argv)
	if err != nil {
		return err
	}
	if !res.OK() {
		return &CommandError{Op: op, Service: service, ExitCode: res.ExitCode, Output: string(res.Output)}
	}
	return nil
}
