package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSONStdin(t *testing.T) {
	code, out, _ := runCLI(t, `{"b":1,"a":[1,2]}`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"a\":[1 2] \"b\":1}\n", out)
}

func TestRun_NoNewline(t *testing.T) {
	code, out, _ := runCLI(t, `[true, null]`, "--no-newline")
	assert.Equal(t, 0, code)
	assert.Equal(t, "[true null]", out)
}

func TestRun_FromFlag(t *testing.T) {
	code, out, _ := runCLI(t, "- 1\n- two\n", "-f", "yaml")
	assert.Equal(t, 0, code)
	assert.Equal(t, "[1 \"two\"]\n", out)
}

func TestRun_FromEnv(t *testing.T) {
	t.Setenv("OLML_FROM", "yaml")
	code, out, _ := runCLI(t, "a: 1\n")
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"a\":1}\n", out)
}

func TestRun_FileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nports: [80, 443]\n"), 0o644))

	code, out, _ := runCLI(t, "", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"name\":\"x\" \"ports\":[80 443]}\n", out)
}

func TestRun_OutputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.olml")

	code, stdout, _ := runCLI(t, `[1,2,3]`, "-o", out)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[1 2 3]\n", string(data))
}

func TestRun_OutputFileNotCreatedOnError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.olml")

	code, stdout, stderr := runCLI(t, `{"a":`, "-o", out)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "JSON parse error")

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "output file should not exist, stat err: %v", err)
}

func TestRun_OutputFileUnwritable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "out.olml")

	code, _, stderr := runCLI(t, `1`, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "write output")
}

func TestRun_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"k":"v"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	code, out, _ := runCLI(t, buf.String())
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"k\":\"v\"}\n", out)
}

func TestRun_Zstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(`[1,[2]]`), nil)
	require.NoError(t, enc.Close())

	code, out, _ := runCLI(t, string(compressed))
	assert.Equal(t, 0, code)
	assert.Equal(t, "[1 [2]]\n", out)
}

func TestRun_Verbose(t *testing.T) {
	code, _, stderr := runCLI(t, `1`, "-v")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "read input")
	assert.Contains(t, stderr, "format=json")
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "", "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "olml "+version+"\n", out)
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "--from")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		args   []string
		errMsg string
	}{
		{"bad json", `{"a":`, nil, "JSON parse error"},
		{"bad format", `1`, []string{"-f", "xml"}, "unknown format"},
		{"missing file", "", []string{"/nonexistent/in.json"}, "open file"},
		{"two files", "", []string{"a.json", "b.json"}, "at most one input file"},
		{"bad flag", "", []string{"--bogus"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, stderr, tt.errMsg)
		})
	}
}

func TestRun_BadLogLevel(t *testing.T) {
	t.Setenv("OLML_LOG_LEVEL", "loud")
	code, _, stderr := runCLI(t, `1`)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid log level")
}

func TestDecompress_Plain(t *testing.T) {
	data, compression, err := decompress([]byte("plain"))
	require.NoError(t, err)
	assert.Empty(t, compression)
	assert.Equal(t, []byte("plain"), data)
}

func TestDecompress_CorruptGzip(t *testing.T) {
	_, _, err := decompress([]byte{0x1f, 0x8b, 0x00})
	assert.ErrorContains(t, err, "gzip")
}
