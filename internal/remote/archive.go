package remote

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
)

// singleFileTar builds an in-memory tar stream holding hostSrc under name.
// The container copy API only accepts archive streams.
func singleFileTar(hostSrc, name string) (*bytes.Buffer, error) {
	f, err := os.Open(hostSrc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", hostSrc, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", hostSrc, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", hostSrc)
	}

	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return nil, fmt.Errorf("tar header: %w", err)
	}
	hdr.Name = name

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, fmt.Errorf("tar header: %w", err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return nil, fmt.Errorf("tar body: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("tar close: %w", err)
	}
	return &buf, nil
}
