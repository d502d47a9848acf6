// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/invowk/coil/internal/issue"
	"github.com/invowk/coil/internal/packager"
	"github.com/invowk/coil/internal/tarball"
	"github.com/invowk/coil/pkg/types"
)

// errTerminalOutput is returned when an archive would be written to a terminal.
var errTerminalOutput = errors.New("refusing to write a binary archive to a terminal")

type packOptions struct {
	gzip   bool
	output string
	list   bool
}

func newPackCommand(app *App) *cobra.Command {
	opts := &packOptions{}

	packCmd := &cobra.Command{
		Use:   "pack [start]",
		Short: "Package the project into a tar archive",
		Long: `Package the project containing [start] (default: the current directory).

The project root is the nearest directory holding the marker file. Every file
git reports as tracked or untracked-but-not-ignored is added to the archive
under its path relative to the root.

The archive is written to stdout unless --output is given. A summary is
printed on stderr.`,
		Example: `  coil pack -o project.tar
  coil pack --gzip ./services/api > api.tar.gz
  coil pack --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compressed := app.cfg.Archive.Gzip
			if cmd.Flags().Changed("gzip") {
				compressed = opts.gzip
			}
			return runPack(cmd, app, startArg(args), compressed, opts)
		},
	}

	packCmd.Flags().BoolVar(&opts.gzip, "gzip", false, "gzip-compress the archive (default from archive.gzip)")
	packCmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the archive to `file` instead of stdout")
	packCmd.Flags().BoolVar(&opts.list, "list", false, "print the archive member names instead of the archive")

	return packCmd
}

func runPack(cmd *cobra.Command, app *App, start types.FilesystemPath, compressed bool, opts *packOptions) error {
	if opts.output == "" && !opts.list && app.isTerminal(app.stdout) {
		return app.fail(cmd, "write archive", issue.NewErrorContext().
			WithOperation("write archive").
			WithSuggestion("Pass -o FILE or redirect stdout to a file").
			WithSuggestion("Use --list to see the member names").
			Wrap(errTerminalOutput).
			BuildError())
	}

	p, err := app.newPackager()
	if err != nil {
		return app.fail(cmd, "package project", err)
	}
	res, err := p.Package(cmd.Context(), packager.Request{Start: start, Compressed: compressed})
	if err != nil {
		return app.fail(cmd, "package project", err)
	}

	data := res.Buffer.Bytes()
	switch {
	case opts.list:
		names, err := tarball.Names(data, compressed)
		if err != nil {
			return app.fail(cmd, "read archive", err)
		}
		for _, name := range names {
			fmt.Fprintln(app.stdout, name)
		}
	case opts.output != "":
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return app.fail(cmd, "write archive", err)
		}
	default:
		if _, err := app.stdout.Write(data); err != nil {
			return app.fail(cmd, "write archive", err)
		}
	}

	printPackSummary(app, res, opts.output)
	return nil
}

func printPackSummary(app *App, res *packager.Result, output string) {
	w := app.stderr
	format := "tar"
	if res.Compressed {
		format = "tar.gz"
	}

	fmt.Fprintf(w, "%s Packaged %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.Root.String()))
	fmt.Fprintf(w, "  %s %d\n", SubtitleStyle.Render("entries:"), res.Entries)
	fmt.Fprintf(w, "  %s %s (%s)\n", SubtitleStyle.Render("size:   "), humanize.Bytes(uint64(res.Buffer.Len())), format)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("blake3: "), res.Digest)
	if output != "" {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("output: "), output)
	}
	if n := len(res.Skipped); n > 0 {
		fmt.Fprintf(w, "%s skipped %s that vanished during packaging\n",
			WarningStyle.Render("!"), english.Plural(n, "file", ""))
	}
}

// startArg returns the optional [start] positional argument.
func startArg(args []string) types.FilesystemPath {
	if len(args) == 0 {
		return ""
	}
	return types.FilesystemPath(args[0])
}
