package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertd/internal/remote"
)

var testServices = Services{Merge: "llama-factory", Convert: "llama-cpp", Serve: "ollama"}

// newTestPipeline wires a Pipeline whose convert step materializes the GGUF
// file on the host, as the real shared volume would.
func newTestPipeline(t *testing.T) (*Pipeline, *fakeExecutor, string) {
	t.Helper()
	root := t.TempDir()
	fe := newFakeExecutor()
	fe.onExec = func(service string, argv []string) {
		if service == testServices.Convert && fe.results["python3"].OK() {
			out := filepath.Join(root, strings.TrimPrefix(argv[4], "/saves/"))
			_ = os.WriteFile(out, []byte("GGUF"), 0o644)
		}
	}
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	p := New(Config{Root: root, Services: testServices}, fe,
		WithWaiter(clk.waiter(func(p string) bool { _, err := os.Stat(p); return err == nil })))
	return p, fe, root
}

func TestRun_EndToEndCallOrder(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", true)

	res, err := p.Run(context.Background(), "modelA::run1", Request{
		BaseModelPath: "/models/base",
		NewModelName:  "mymodel",
		SystemPrompt:  "Be brief.",
	})
	require.NoError(t, err)
	assert.Equal(t, "mymodel", res.ModelName)

	want := []string{
		"exec llama-factory llamafactory-cli export --model_name_or_path /models/base --adapter_name_or_path /app/saves/modelA/lora/run1 --template default --export_dir /app/saves/modelA/merged_model --export_size 2 --export_legacy_format False",
		"exec llama-cpp python3 convert_hf_to_gguf.py /saves/modelA/merged_model --outfile /saves/mymodel.gguf --outtype f16",
		"copy ollama mymodel.gguf -> /mymodel.gguf",
		"copy ollama Modelfile.mymodel -> /Modelfile.mymodel",
		"exec ollama ollama create mymodel -f /Modelfile.mymodel",
	}
	var got []string
	for _, c := range fe.calls {
		got = append(got, c.String())
	}
	assert.Equal(t, want, got)

	mf, err := os.ReadFile(filepath.Join(root, "Modelfile.mymodel"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(mf), "FROM ./mymodel.gguf\n"))
	assert.Contains(t, string(mf), `SYSTEM """Be brief."""`)
	assert.Equal(t, mf, fe.copiedAs["/Modelfile.mymodel"])
}

func TestRun_LegacyFlagIsNotForwarded(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", false)

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", UseLegacyFormat: true, NewModelName: "m"})
	require.NoError(t, err)
	argv := fe.calls[0].argv
	assert.Equal(t, "False", argv[len(argv)-1])
}

func TestRun_MergeFailureStopsPipeline(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", true)
	fe.results["llamafactory-cli"] = remote.ExecResult{ExitCode: 1, Output: []byte("CUDA out of memory")}

	before := testutil.ToFloat64(runsTotal.WithLabelValues("MergeFailed"))
	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.True(t, IsCommandError(err))
	assert.Equal(t, "Failed to merge LoRA adapter: CUDA out of memory", err.Error())

	step, ok := FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, StepMerge, step)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "MergeFailed", se.State())
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues("MergeFailed")))

	require.Len(t, fe.calls, 1, "no step after merge may run")
	_, statErr := os.Stat(filepath.Join(root, "Modelfile.mymodel"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ConvertFailure(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", true)
	fe.results["python3"] = remote.ExecResult{ExitCode: 2, Output: []byte("bad tensor")}

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.Equal(t, "GGUF conversion failed: bad tensor", err.Error())
	step, _ := FailedStep(err)
	assert.Equal(t, StepConvert, step)
	assert.Len(t, fe.calls, 2)
}

func TestRun_WaitTimeout(t *testing.T) {
	root := t.TempDir()
	makeAdapter(t, root, "modelA", "run1", true)
	fe := newFakeExecutor()
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	p := New(Config{Root: root, Services: testServices}, fe,
		WithWaiter(clk.waiter(func(string) bool { return false })))

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	step, _ := FailedStep(err)
	assert.Equal(t, StepWait, step)
	assert.Len(t, fe.calls, 2, "load must not run after a timeout")
}

func TestRun_LoadFailure(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", true)
	fe.results["ollama"] = remote.ExecResult{ExitCode: 1, Output: []byte("invalid model name")}

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.Equal(t, "Ollama model creation failed: invalid model name", err.Error())
	step, _ := FailedStep(err)
	assert.Equal(t, StepLoad, step)
}

func TestRun_ServiceMissing(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	makeAdapter(t, root, "modelA", "run1", true)
	fe.errs["llamafactory-cli"] = remote.ErrServiceNotFound("llama-factory")

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.True(t, remote.IsServiceNotFound(err))
	assert.False(t, IsNotFound(err))
}

func TestRun_AdapterMissing(t *testing.T) {
	p, fe, root := newTestPipeline(t)
	// directory for another run only
	makeAdapter(t, root, "modelA", "other", true)

	_, err := p.Run(context.Background(), "modelA::run1", Request{BaseModelPath: "b", NewModelName: "mymodel"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Adapter not found at "+filepath.Join(root, "modelA", "lora", "run1"), err.Error())
	assert.Empty(t, fe.calls)
}

func TestRun_InvalidInputsTouchNothing(t *testing.T) {
	p, fe, _ := newTestPipeline(t)

	_, err := p.Run(context.Background(), "no-separator", Request{NewModelName: "m"})
	assert.True(t, errors.Is(err, ErrInvalidRunID))
	_, ok := FailedStep(err)
	assert.False(t, ok)

	_, err = p.Run(context.Background(), "a::b", Request{NewModelName: "../escape"})
	assert.True(t, errors.Is(err, ErrInvalidModelName))

	// well-formed id and name, but no base model
	_, err = p.Run(context.Background(), "modelA::run1", Request{NewModelName: "mymodel"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	_, ok = FailedStep(err)
	assert.False(t, ok)
	assert.Empty(t, fe.calls)
}

func TestLocateAdapter_DirectoryWithoutMarker(t *testing.T) {
	root := t.TempDir()
	makeAdapter(t, root, "m", "r", false)
	ps, err := NewPathSet(root, DefaultMounts(root), RunID{ModelName: "m", TrainingRun: "r"}, "x")
	require.NoError(t, err)
	assert.NoError(t, LocateAdapter(ps))

	// a regular file where the directory should be does not count
	ps2, err := NewPathSet(root, DefaultMounts(root), RunID{ModelName: "m", TrainingRun: "file"}, "x")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ps2.HostAdapter, []byte("x"), 0o644))
	assert.True(t, IsNotFound(LocateAdapter(ps2)))
}
