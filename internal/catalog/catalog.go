package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"convertd/internal/common/fsutil"
	"convertd/pkg/types"
)

// AdapterMarker must exist in a training run directory for it to be listed.
const AdapterMarker = "adapter_config.json"

const ggufSuffix = ".gguf"

// ListAdapters scans root for {model}/lora/{run}/adapter_config.json and
// returns "<model>::<run>" ids, sorted. A missing root yields an empty list.
func ListAdapters(root string) ([]string, error) {
	root, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	models, err := readDirIfExists(root)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, m := range models {
		// DirEntry.IsDir does not follow symlinks; Stat does.
		if !fsutil.IsDir(filepath.Join(root, m.Name())) {
			continue
		}
		loraDir := filepath.Join(root, m.Name(), "lora")
		if !fsutil.IsDir(loraDir) {
			continue
		}
		runs, err := os.ReadDir(loraDir)
		if err != nil {
			return nil, fmt.Errorf("read dir: %w", err)
		}
		for _, r := range runs {
			if !fsutil.IsDir(filepath.Join(loraDir, r.Name())) {
				continue
			}
			if !fsutil.IsFile(filepath.Join(loraDir, r.Name(), AdapterMarker)) {
				continue
			}
			out = append(out, m.Name()+"::"+r.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListGGUF returns the *.gguf files directly under root. A missing root
// yields an empty list.
func ListGGUF(root string) ([]types.GGUFModel, error) {
	root, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	entries, err := readDirIfExists(root)
	if err != nil {
		return nil, err
	}
	out := []types.GGUFModel{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ggufSuffix) {
			continue
		}
		out = append(out, types.GGUFModel{Filename: name, ModelName: strings.TrimSuffix(name, ggufSuffix)})
	}
	return out, nil
}

// ParseOllamaList turns `ollama list` output into rows of whitespace-split
// columns. The header line is dropped; blank lines are skipped.
func ParseOllamaList(output []byte) [][]string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	rows := [][]string{}
	if len(lines) <= 1 {
		return rows
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}

func readDirIfExists(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	return entries, nil
}
