package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"convertd/internal/remote"
)

// call is one recorded Executor interaction.
type call struct {
	kind    string // "exec" or "copy"
	service string
	argv    []string
	src     string
	dest    string
}

func (c call) String() string {
	if c.kind == "copy" {
		return fmt.Sprintf("copy %s %s -> %s", c.service, filepath.Base(c.src), c.dest)
	}
	return fmt.Sprintf("exec %s %s", c.service, strings.Join(c.argv, " "))
}

// fakeExecutor records calls. Results are keyed by the first argv element.
type fakeExecutor struct {
	calls    []call
	results  map[string]remote.ExecResult
	errs     map[string]error
	copyErr  error
	onExec   func(service string, argv []string)
	copiedAs map[string][]byte
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		results:  map[string]remote.ExecResult{},
		errs:     map[string]error{},
		copiedAs: map[string][]byte{},
	}
}

func (f *fakeExecutor) Exec(ctx context.Context, service string, argv []string) (remote.ExecResult, error) {
	f.calls = append(f.calls, call{kind: "exec", service: service, argv: append([]string(nil), argv...)})
	if f.onExec != nil {
		f.onExec(service, argv)
	}
	if err := f.errs[argv[0]]; err != nil {
		return remote.ExecResult{}, err
	}
	return f.results[argv[0]], nil
}

func (f *fakeExecutor) CopyFile(ctx context.Context, service, hostSrc, dest string) error {
	f.calls = append(f.calls, call{kind: "copy", service: service, src: hostSrc, dest: dest})
	if f.copyErr != nil {
		return f.copyErr
	}
	b, err := os.ReadFile(hostSrc)
	if err != nil {
		return err
	}
	f.copiedAs[dest] = b
	return nil
}

// fakeClock drives a Waiter without real sleeping.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) waiter(exists func(string) bool) Waiter {
	return Waiter{
		Interval: DefaultWaitInterval,
		Ceiling:  DefaultWaitCeiling,
		Now:      c.Now,
		Sleep:    c.Sleep,
		Exists:   exists,
	}
}

// makeAdapter creates {root}/{model}/lora/{run}, optionally with the marker file.
func makeAdapter(t *testing.T, root, model, run string, marker bool) string {
	t.Helper()
	dir := filepath.Join(root, model, "lora", run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if marker {
		if err := os.WriteFile(filepath.Join(dir, "adapter_config.json"), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
	}
	return dir
}
