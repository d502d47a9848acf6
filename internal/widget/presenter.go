// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

type (
	// Presenter displays a rendered fragment in some host environment.
	Presenter interface {
		Present(ctx context.Context, fragment string) error
	}

	// WriterPresenter writes fragments verbatim, optionally preceded once by
	// the script prelude. Notebook hosts that read HTML from stdout use it.
	WriterPresenter struct {
		W       io.Writer
		Prelude bool

		wrotePrelude bool
	}

	// TerminalPresenter decodes a fragment's payload and renders it as
	// markdown for a terminal.
	TerminalPresenter struct {
		W io.Writer
		// Style is a glamour standard style name; empty selects auto
		// detection.
		Style string
		// Width wraps output when positive.
		Width int
	}
)

// Present implements Presenter.
func (p *WriterPresenter) Present(ctx context.Context, fragment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Prelude && !p.wrotePrelude {
		if _, err := io.WriteString(p.W, JSPrelude()+"\n"); err != nil {
			return fmt.Errorf("failed to write widget prelude: %w", err)
		}
		p.wrotePrelude = true
	}
	if _, err := io.WriteString(p.W, fragment+"\n"); err != nil {
		return fmt.Errorf("failed to write widget: %w", err)
	}
	return nil
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(ctx context.Context, fragment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := ParseHTML(fragment)
	if err != nil {
		return err
	}
	md, err := markdown(payload)
	if err != nil {
		return err
	}

	var opts []glamour.TermRendererOption
	if p.Style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(p.Style))
	}
	if p.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(p.Width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render widget: %w", err)
	}
	_, err = io.WriteString(p.W, out)
	return err
}

// markdown lays out a payload as a heading, a body block and, when present,
// the metadata as a JSON code block.
func markdown(payload map[string]any) (string, error) {
	title, _ := payload["title"].(string)
	body, _ := payload["body"].(string)
	if title == "" {
		title = DefaultTitle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if body != "" {
		fmt.Fprintf(&sb, "```\n%s\n```\n", body)
	}
	if meta, ok := payload["metadata"].(map[string]any); ok && len(meta) > 0 {
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode metadata: %w", err)
		}
		fmt.Fprintf(&sb, "\n```json\n%s\n```\n", data)
	}
	return sb.String(), nil
}
