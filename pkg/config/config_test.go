// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	assert.NilError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(newFlags(t, "--root", "/srv/corpus"))
	assert.NilError(t, err)
	assert.DeepEqual(t, cfg, &Config{
		Root:        "/srv/corpus",
		Backend:     catalog.BackendDisk,
		Transport:   TransportStdio,
		Listen:      DefaultListen,
		MaxFileSize: 32 * 1024 * 1024,
	})
}

func TestLoadPrecedence(t *testing.T) {
	dir := fs.NewDir(t, "config", fs.WithFile("config.yaml", `
root: /from/file
backend: memory
max-file-size: 1MiB
concurrency: 3
`))
	t.Setenv("CORPUS_ROOT", "/from/env")
	t.Setenv("CORPUS_MAX_FILE_SIZE", "2MiB")

	cfg, err := load(newFlags(t, "--config", dir.Join("config.yaml")))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Root, "/from/env")
	assert.Equal(t, cfg.Backend, catalog.BackendMemory)
	assert.Equal(t, cfg.MaxFileSize, int64(2*1024*1024))
	assert.Equal(t, cfg.Concurrency, 3)
	assert.Equal(t, cfg.ConfigFile, dir.Join("config.yaml"))

	cfg, err = load(newFlags(t, "--config", dir.Join("config.yaml"), "--root", "/from/flag"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.Root, "/from/flag")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing root", want: "root is not set"},
		{name: "backend", args: []string{"--root", "/x", "--backend", "sqlite"}, want: `invalid backend "sqlite"`},
		{name: "transport", args: []string{"--root", "/x", "--transport", "websocket"}, want: `invalid transport "websocket"`},
		{name: "max file size", args: []string{"--root", "/x", "--max-file-size", "lots"}, want: "invalid max-file-size"},
		{name: "concurrency", args: []string{"--root", "/x", "--concurrency", "-1"}, want: "concurrency must not be negative"},
		{name: "listen", args: []string{"--root", "/x", "--transport", "http", "--listen", ""}, want: "listen must be set"},
		{name: "sse listen", args: []string{"--root", "/x", "--transport", "sse", "--listen", ""}, want: "listen must be set for the sse transport"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(newFlags(t, tc.args...))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := load(newFlags(t, "--root", "/x", "--config", "/nonexistent/config.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadEnvFiles(t *testing.T) {
	dir := fs.NewDir(t, "config",
		fs.WithFile(".env.local", "CORPUS_TEST_A=local\n"),
		fs.WithFile(".env", "CORPUS_TEST_A=base\nCORPUS_TEST_B=base\n"),
	)
	t.Setenv("CORPUS_TEST_A", "")
	t.Setenv("CORPUS_TEST_B", "")
	assert.NilError(t, os.Unsetenv("CORPUS_TEST_A"))
	assert.NilError(t, os.Unsetenv("CORPUS_TEST_B"))

	err := LoadEnvFiles(dir.Join(".env.local"), dir.Join(".env"), dir.Join(".env.missing"))
	assert.NilError(t, err)
	assert.Equal(t, os.Getenv("CORPUS_TEST_A"), "local")
	assert.Equal(t, os.Getenv("CORPUS_TEST_B"), "base")
}

func TestCatalogOptions(t *testing.T) {
	cfg := &Config{MaxFileSize: 10, Concurrency: 2}
	assert.Equal(t, len(cfg.CatalogOptions()), 2)
}
