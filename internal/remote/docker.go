package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rs/zerolog"
)

// dockerAPI is the subset of *client.Client used here.
type dockerAPI interface {
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	CopyToContainer(ctx context.Context, containerID, dstPath string, content io.Reader, options container.CopyToContainerOptions) error
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// DockerExecutor implements Executor against a Docker Engine.
type DockerExecutor struct {
	api dockerAPI
	log zerolog.Logger
}

// NewDockerExecutor connects using the standard DOCKER_* environment.
func NewDockerExecutor(log zerolog.Logger) (*DockerExecutor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return newDockerExecutor(cli, log), nil
}

func newDockerExecutor(api dockerAPI, log zerolog.Logger) *DockerExecutor {
	return &DockerExecutor{api: api, log: log.With().Str("component", "remote").Logger()}
}

// Exec runs argv inside the named container and waits for it to exit.
func (d *DockerExecutor) Exec(ctx context.Context, service string, argv []string) (res ExecResult, err error) {
	defer func() { execTotal.WithLabelValues(service, execResultLabel(res, err)).Inc() }()

	d.log.Debug().Str("service", service).Strs("argv", argv).Msg("exec start")
	created, err := d.api.ContainerExecCreate(ctx, service, container.ExecOptions{
		Cmd:          argv,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return ExecResult{}, d.mapErr(service, "exec create", err)
	}

	attach, err := d.api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return ExecResult{}, d.mapErr(service, "exec attach", err)
	}
	defer attach.Close()

	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, attach.Reader); err != nil {
		return ExecResult{}, fmt.Errorf("exec read output in %s: %w", service, err)
	}

	insp, err := d.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return ExecResult{}, d.mapErr(service, "exec inspect", err)
	}
	d.log.Debug().Str("service", service).Int("exit_code", insp.ExitCode).Int("output_bytes", out.Len()).Msg("exec end")
	return ExecResult{ExitCode: insp.ExitCode, Output: out.Bytes()}, nil
}

// CopyFile wraps hostSrc in a one-entry tar and extracts it at dest's directory.
func (d *DockerExecutor) CopyFile(ctx context.Context, service, hostSrc, dest string) error {
	buf, err := singleFileTar(hostSrc, path.Base(dest))
	if err != nil {
		return err
	}
	n := buf.Len()
	if err := d.api.CopyToContainer(ctx, service, path.Dir(dest), buf, container.CopyToContainerOptions{}); err != nil {
		return d.mapErr(service, "copy "+dest, err)
	}
	copyBytesTotal.WithLabelValues(service).Add(float64(n))
	d.log.Debug().Str("service", service).Str("src", hostSrc).Str("dest", dest).Int("archive_bytes", n).Msg("copied file")
	return nil
}

// Ping reports whether the Docker daemon answers.
func (d *DockerExecutor) Ping(ctx context.Context) error {
	_, err := d.api.Ping(ctx)
	return err
}

// Close releases the underlying client.
func (d *DockerExecutor) Close() error { return d.api.Close() }

func (d *DockerExecutor) mapErr(service, op string, err error) error {
	if errdefs.IsNotFound(err) {
		d.log.Error().Str("service", service).Msg("container not found")
		return ErrServiceNotFound(service)
	}
	return fmt.Errorf("%s in %s: %w", op, service, err)
}
