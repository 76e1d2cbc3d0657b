package pipeline

import (
	"fmt"
	"path"
	"path/filepath"

	"convertd/internal/mounts"
)

// Service roles used as mount map keys.
const (
	RoleMerge   = "merge"
	RoleConvert = "convert"
)

// Directory layout under the saves root.
const (
	loraDir       = "lora"
	mergedDir     = "merged_model"
	ggufExt       = ".gguf"
	modelfileStem = "Modelfile."
	serveDir      = "/"
)

// DefaultMounts returns where the merge and convert services see hostRoot.
func DefaultMounts(hostRoot string) mounts.Map {
	return mounts.Map{
		RoleMerge:   {HostRoot: hostRoot, ServiceRoot: "/app/saves"},
		RoleConvert: {HostRoot: hostRoot, ServiceRoot: "/saves"},
	}
}

// PathSet is every path one run touches, per location.
type PathSet struct {
	HostAdapter   string
	HostMerged    string
	HostGGUF      string
	HostModelfile string

	MergeAdapter string // adapter as seen by the merge service
	MergeOutput  string // merged model dir as seen by the merge service

	ConvertInput  string // merged model dir as seen by the convert service
	ConvertOutput string // GGUF file as seen by the convert service

	ServeGGUF      string // GGUF destination inside the serving runtime
	ServeModelfile string // Modelfile destination inside the serving runtime
}

// NewPathSet derives the PathSet for id and newName. It is deterministic.
func NewPathSet(root string, m mounts.Map, id RunID, newName string) (PathSet, error) {
	ps := PathSet{
		HostAdapter:    filepath.Join(root, id.ModelName, loraDir, id.TrainingRun),
		HostMerged:     filepath.Join(root, id.ModelName, mergedDir),
		HostGGUF:       filepath.Join(root, newName+ggufExt),
		HostModelfile:  filepath.Join(root, modelfileStem+newName),
		ServeGGUF:      path.Join(serveDir, newName+ggufExt),
		ServeModelfile: path.Join(serveDir, modelfileStem+newName),
	}
	var err error
	if ps.MergeAdapter, err = m.Translate(ps.HostAdapter, mounts.Host, RoleMerge); err != nil {
		return PathSet{}, fmt.Errorf("adapter path: %w", err)
	}
	if ps.MergeOutput, err = m.Translate(ps.HostMerged, mounts.Host, RoleMerge); err != nil {
		return PathSet{}, fmt.Errorf("merged path: %w", err)
	}
	if ps.ConvertInput, err = m.Translate(ps.MergeOutput, RoleMerge, RoleConvert); err != nil {
		return PathSet{}, fmt.Errorf("convert input path: %w", err)
	}
	if ps.ConvertOutput, err = m.Translate(ps.HostGGUF, mounts.Host, RoleConvert); err != nil {
		return PathSet{}, fmt.Errorf("gguf path: %w", err)
	}
	return ps, nil
}
