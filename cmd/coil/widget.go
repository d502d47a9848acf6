// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/coil/internal/widget"
)

const terminalWidth = 80

type widgetOptions struct {
	title    string
	body     string
	meta     []string
	prelude  bool
	terminal bool
}

func newWidgetCommand(app *App) *cobra.Command {
	opts := &widgetOptions{}

	widgetCmd := &cobra.Command{
		Use:   "widget",
		Short: "Render a display widget fragment",
		Long: `Render a display widget as an HTML fragment that carries its payload in the
` + widget.DataAttribute + ` attribute.

With --prelude the front-end script is emitted first, inside a <script> tag.
With --terminal the payload is decoded again and rendered for the terminal.`,
		Example: `  coil widget --title Build --body "3 files changed" --meta files=3
  coil widget --prelude > widget.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWidget(cmd, app, opts)
		},
	}

	widgetCmd.Flags().StringVar(&opts.title, "title", widget.DefaultTitle, "widget title")
	widgetCmd.Flags().StringVar(&opts.body, "body", widget.DefaultBody, "widget body")
	widgetCmd.Flags().StringArrayVar(&opts.meta, "meta", nil, "metadata entry as `key=value` (repeatable; JSON values are decoded)")
	widgetCmd.Flags().BoolVar(&opts.prelude, "prelude", false, "emit the front-end script before the fragment")
	widgetCmd.Flags().BoolVar(&opts.terminal, "terminal", false, "render the widget for the terminal instead of as HTML")
	widgetCmd.MarkFlagsMutuallyExclusive("prelude", "terminal")

	return widgetCmd
}

func runWidget(cmd *cobra.Command, app *App, opts *widgetOptions) error {
	meta, err := parseMeta(opts.meta)
	if err != nil {
		return app.fail(cmd, "parse widget metadata", err)
	}
	w := widget.Widget{Title: opts.title, Body: opts.body, Metadata: meta}

	fragment, err := widget.RenderHTML(w)
	if err != nil {
		return app.fail(cmd, "render widget", err)
	}

	var presenter widget.Presenter
	if opts.terminal {
		style := "notty"
		if app.isTerminal(app.stdout) {
			style = ""
		}
		presenter = &widget.TerminalPresenter{W: app.stdout, Style: style, Width: terminalWidth}
	} else {
		presenter = &widget.WriterPresenter{W: app.stdout, Prelude: opts.prelude}
	}

	app.logger.Debug("presenting widget", "title", w.Title, "metadata", len(meta), "terminal", opts.terminal)
	if err := presenter.Present(cmd.Context(), fragment); err != nil {
		return app.fail(cmd, "present widget", err)
	}
	return nil
}

// parseMeta turns key=value entries into widget metadata. Values that parse
// as JSON keep their decoded type; anything else is a string.
func parseMeta(entries []string) (map[string]any, error) {
	meta := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q: expected key=value", entry)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}
		meta[key] = decoded
	}
	return meta, nil
}
