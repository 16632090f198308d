// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
	"github.com/lima-vm/corpus-mcp/pkg/config"
	"github.com/lima-vm/corpus-mcp/pkg/query"
	"github.com/lima-vm/corpus-mcp/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp().ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}

func newApp() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus-mcp",
		Short: "Model Context Protocol server for a read-only text corpus",
		Long: `Model Context Protocol server for a read-only text corpus.

The tools read, list, and search the text files under a single root directory.
Paths, patterns and symlinks supplied by the caller can never reach outside of it.`,
		Version:       strings.TrimPrefix(version.Version, "v"),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	cmd.PersistentFlags().String("log-format", "text", "Set the logging format [text, json]")
	cmd.PersistentFlags().Bool("debug", false, "Debug mode")
	config.RegisterFlags(cmd.PersistentFlags())
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return processGlobalFlags(cmd)
	}
	cmd.AddCommand(
		newServeCommand(),
		newInfoCommand(),
		newCallCommand(),
		newGenDocCommand(),
	)
	return cmd
}

func processGlobalFlags(cmd *cobra.Command) error {
	// --log-level will override --debug
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	l, _ := cmd.Flags().GetString("log-level")
	if l != "" {
		lvl, err := logrus.ParseLevel(l)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	logFormat, _ := cmd.Flags().GetString("log-format")
	switch logFormat {
	case "json":
		formatter := new(logrus.JSONFormatter)
		logrus.StandardLogger().SetFormatter(formatter)
	case "text":
		// logrus use text format by default.
		if runtime.GOOS == "windows" && isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatter := new(logrus.TextFormatter)
			// the default setting does not recognize cygwin on windows
			formatter.ForceColors = true
			logrus.StandardLogger().SetFormatter(formatter)
		}
	default:
		return fmt.Errorf("unsupported log-format: %q", logFormat)
	}
	return nil
}

// newServer returns a server without tools. cat may be nil.
func newServer(cat catalog.Catalog) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "corpus-mcp",
		Title:   "Read-only access to a corpus of text files",
		Version: version.Version,
	}
	serverOpts := &mcp.ServerOptions{
		Instructions: `This MCP server provides read-only tools for the text files of a single directory.

Use list_files to discover files, read_file or read_multiple_files to read them,
and search_file_content to find lines containing a term.
File names can be given relative to the directory. Anything outside of it is refused.
`,
	}
	if cat != nil {
		impl.Title += fmt.Sprintf(" (%s catalog)", cases.Title(language.English).String(cat.Backend()))
		if cat.Backend() == catalog.BackendMemory {
			serverOpts.Instructions += `
NOTE: the files were loaded when the server started. Later changes are not visible.
`
		}
	}
	return mcp.NewServer(impl, serverOpts)
}

// openService opens the catalog configured by cfg.
func openService(ctx context.Context, cfg *config.Config) (*query.Service, error) {
	cat, err := catalog.Open(ctx, cfg.Backend, cfg.Root, cfg.CatalogOptions()...)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"root":    cat.Root(),
		"backend": cat.Backend(),
	}).Debug("Opened catalog")
	return query.New(cat, query.WithConcurrency(cfg.Concurrency)), nil
}
