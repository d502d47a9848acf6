// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestJSPrelude(t *testing.T) {
	t.Parallel()

	js := BundleJS()
	if !strings.Contains(js, "CoiledWidgets") {
		t.Fatal("bundle does not define CoiledWidgets")
	}
	prelude := JSPrelude()
	if !strings.HasPrefix(prelude, "<script>\n") || !strings.HasSuffix(prelude, "\n</script>") {
		t.Errorf("JSPrelude() is not a script element: %.40q", prelude)
	}
	if !strings.Contains(prelude, js) {
		t.Error("JSPrelude() does not embed the bundle")
	}
}

func TestWriterPresenter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &WriterPresenter{W: &out, Prelude: true}
	ctx := context.Background()

	if err := p.Present(ctx, "<div>one</div>"); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := p.Present(ctx, "<div>two</div>"); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	got := out.String()
	if strings.Count(got, "<script>") != 1 {
		t.Errorf("prelude written %d times, want once", strings.Count(got, "<script>"))
	}
	if !strings.HasSuffix(got, "<div>one</div>\n<div>two</div>\n") {
		t.Errorf("fragments missing or out of order: %q", got[max(0, len(got)-60):])
	}
}

func TestWriterPresenter_CanceledContext(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&WriterPresenter{W: &out}).Present(ctx, "<div></div>"); err == nil {
		t.Error("Present() expected an error for a canceled context")
	}
	if out.Len() != 0 {
		t.Errorf("Present() wrote %q after cancellation", out.String())
	}
}

func TestTerminalPresenter(t *testing.T) {
	t.Parallel()

	fragment, err := RenderHTML(Widget{Title: "Hello", Body: "World", Metadata: map[string]any{"owner": "ops"}})
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	var out bytes.Buffer
	p := &TerminalPresenter{W: &out, Style: "notty", Width: 60}
	if err := p.Present(context.Background(), fragment); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	for _, want := range []string{"Hello", "World", "owner", "ops"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestTerminalPresenter_RejectsForeignHTML(t *testing.T) {
	t.Parallel()

	p := &TerminalPresenter{W: &bytes.Buffer{}, Style: "notty"}
	if err := p.Present(context.Background(), "<p>plain</p>"); err == nil {
		t.Error("Present() expected an error for a fragment without payload")
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	md, err := markdown(map[string]any{"body": "b"})
	if err != nil {
		t.Fatalf("markdown() error = %v", err)
	}
	if !strings.HasPrefix(md, "# "+DefaultTitle) {
		t.Errorf("markdown() = %q, want default title heading", md)
	}
	if strings.Contains(md, "```json") {
		t.Errorf("markdown() rendered an empty metadata block: %q", md)
	}
}
