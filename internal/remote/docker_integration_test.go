//go:build integration

package remote

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

func startBusybox(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "busybox:1.36",
			Cmd:   []string{"sleep", "600"},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	return c.GetContainerID()
}

func TestDockerExecutor_Integration(t *testing.T) {
	id := startBusybox(t)
	ex, err := NewDockerExecutor(zerolog.Nop())
	require.NoError(t, err)
	defer ex.Close()
	ctx := context.Background()

	require.NoError(t, ex.Ping(ctx))

	res, err := ex.Exec(ctx, id, []string{"sh", "-c", "echo out; echo err >&2; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Output), "out")
	assert.Contains(t, string(res.Output), "err")

	src := filepath.Join(t.TempDir(), "local.txt")
	require.NoError(t, os.WriteFile(src, []byte("FROM ./m.gguf\n"), 0o644))
	require.NoError(t, ex.CopyFile(ctx, id, src, "/tmp/Modelfile.m"))

	res, err = ex.Exec(ctx, id, []string{"cat", "/tmp/Modelfile.m"})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, "FROM ./m.gguf", strings.TrimSpace(string(res.Output)))

	_, err = ex.Exec(ctx, "convertd-no-such-container", []string{"true"})
	assert.True(t, IsServiceNotFound(err))
}
