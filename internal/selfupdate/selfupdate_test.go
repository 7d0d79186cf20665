package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewer(t *testing.T) {
	cases := []struct {
		current, latest string
		want            bool
		wantErr         bool
	}{
		{"v1.0.0", "v1.0.1", true, false},
		{"1.2.0", "v1.10.0", true, false},
		{"v1.2.0", "v1.2.0", false, false},
		{"v2.0.0", "v1.9.9", false, false},
		{"v1.0.0", "v1.1.0-rc.1", true, false},
		{"nightly", "v1.0.0", false, true},
		{"v1.0.0", "", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.current+"->"+tc.latest, func(t *testing.T) {
			got, err := Newer(tc.current, tc.latest)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssetFor(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		goos, goarch, want string
	}{
		{"darwin", "arm64", "emoiq_Darwin_all.tar.gz"},
		{"linux", "amd64", "emoiq_Linux_x86_64.tar.gz"},
		{"linux", "386", "emoiq_Linux_i386.tar.gz"},
		{"windows", "arm64", "emoiq_Windows_arm64.zip"},
	}
	for _, tt := range tests {
		got, err := c.assetFor(tt.goos, tt.goarch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := c.assetFor("plan9", "amd64")
	assert.Error(t, err)
	_, err = c.assetFor("linux", "mips")
	assert.Error(t, err)
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("abc  a.tar.gz\nbadline\n\n x  y  z\ndef  b.zip\n"))
	assert.Equal(t, map[string]string{"a.tar.gz": "abc", "b.zip": "def"}, got)
}

func TestReplaceFileKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "emoiq")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, replaceFile(target, []byte("new")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// releaseServer serves a latest-release document for tag plus the asset
// and checksum file for this platform.
func releaseServer(t *testing.T, tag string, archive []byte, sum string) *httptest.Server {
	t.Helper()
	asset, err := NewChecker().assetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dl := "/abhisek/emoiq/releases/download/" + tag + "/"
		switch r.URL.Path {
		case "/repos/abhisek/emoiq/releases/latest":
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
		case dl + asset:
			if archive == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(archive)
		case dl + "checksums.txt":
			fmt.Fprintf(w, "%s  %s\n", sum, asset)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("zip archives are not built here")
	}
	payload := []byte("new-emoiq-binary")
	archive := tarGz(t, "emoiq", payload)
	sum := sha256.Sum256(archive)
	goodSum := hex.EncodeToString(sum[:])

	t.Run("installs newer release", func(t *testing.T) {
		exe := filepath.Join(t.TempDir(), "emoiq")
		require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))
		srv := releaseServer(t, "v2.0.0", archive, goodSum)

		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))

		var stages []string
		err := c.Update(context.Background(), UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.Equal(t, []string{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), UpdateInput{CurrentVersion: DevVersion}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseServer(t, "v1.0.0", archive, goodSum)
		err := NewChecker(WithBaseURL(srv.URL)).Update(context.Background(), UpdateInput{CurrentVersion: "1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", archive, strings.Repeat("0", 64))
		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := c.Update(context.Background(), UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing asset", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", nil, goodSum)
		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := c.Update(context.Background(), UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})

	t.Run("explicit target skips lookup", func(t *testing.T) {
		exe := filepath.Join(t.TempDir(), "emoiq")
		require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))
		srv := releaseServer(t, "v1.5.0", archive, goodSum)
		c := NewChecker(WithBaseURL("http://127.0.0.1:1"), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))

		err := c.Update(context.Background(), UpdateInput{CurrentVersion: "v9.0.0", TargetVersion: "v1.5.0"}, nil)
		require.NoError(t, err)
	})
}

func TestExtractMissingBinary(t *testing.T) {
	_, err := NewChecker().extract(tarGz(t, "README.md", []byte("hi")), "emoiq_Linux_x86_64.tar.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
