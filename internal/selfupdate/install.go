package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Stage names reported to the progress callback, in order.
const (
	StageCheck    = "check"
	StageDownload = "download"
	StageVerify   = "verify"
	StageExtract  = "extract"
	StageApply    = "apply"
	StageDone     = "done"
)

type UpdateInput struct {
	CurrentVersion string
	// TargetVersion skips the latest-release lookup.
	TargetVersion string
}

type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads the target release for this platform, verifies it
// against the release checksums and swaps it in for the running binary.
func (c *Checker) Update(ctx context.Context, in UpdateInput, progress func(UpdateProgress)) error {
	if in.CurrentVersion == DevVersion || in.CurrentVersion == "" {
		return ErrDevBuild
	}
	if progress == nil {
		progress = func(UpdateProgress) {}
	}

	tag := in.TargetVersion
	if tag == "" {
		progress(UpdateProgress{StageCheck, "Checking for the latest release..."})
		rel, err := c.Latest(ctx)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		newer, err := Newer(in.CurrentVersion, rel.Tag)
		if err != nil {
			return err
		}
		if !newer {
			return ErrAlreadyLatest
		}
		tag = rel.Tag
	}

	asset, err := c.assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	base := fmt.Sprintf("%s/%s/%s/releases/download/%s", strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag)

	progress(UpdateProgress{StageDownload, fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.fetch(ctx, base+"/"+asset)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{StageVerify, "Verifying checksum..."})
	sums, err := c.fetch(ctx, base+"/checksums.txt")
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return fmt.Errorf("no checksum for %s", asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{StageExtract, "Extracting binary..."})
	bin, err := c.extract(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{StageApply, "Replacing binary..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{StageDone, fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// assetFor names the release archive built for goos/goarch.
func (c *Checker) assetFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return c.binary + "_Darwin_all.tar.gz", nil
	}
	arch, ok := map[string]string{"amd64": "x86_64", "arm64": "arm64", "386": "i386"}[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return fmt.Sprintf("%s_Linux_%s.tar.gz", c.binary, arch), nil
	case "windows":
		return fmt.Sprintf("%s_Windows_%s.zip", c.binary, arch), nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads "<sha256>  <file>" lines; anything else is skipped.
func parseChecksums(data []byte) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		f := strings.Fields(line)
		if len(f) == 2 {
			out[f[1]] = f[0]
		}
	}
	return out
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func (c *Checker) extract(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return fromZip(archive, c.binary+".exe")
	}
	return fromTarGz(archive, c.binary)
}

func fromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func fromZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceFile writes data next to target and renames it into place,
// keeping target's mode. The staged copy is re-read and hashed before the
// rename.
func replaceFile(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	dir, err := os.MkdirTemp(filepath.Dir(target), ".emoiq-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	staged := filepath.Join(dir, filepath.Base(target))
	if err := os.WriteFile(staged, data, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}
	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(data) {
		return fmt.Errorf("%w: staged binary changed after write", ErrChecksum)
	}

	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return os.Chmod(target, info.Mode())
}
