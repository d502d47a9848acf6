// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
)

// DataAttribute is the attribute the front-end script reads payloads from.
const DataAttribute = "data-coiled-widget"

const hostClass = "tp-widget-host"

// ErrNoPayload is returned by ParseHTML when a fragment carries no payload.
var ErrNoPayload = errors.New("fragment has no widget payload")

// RenderHTML returns the host element for w with its payload embedded as an
// escaped attribute value.
func RenderHTML(w Widget) (string, error) {
	return render(w.ordered())
}

// RenderHTMLPayload is RenderHTML for a raw payload. Keys are encoded in
// sorted order.
func RenderHTMLPayload(p map[string]any) (string, error) {
	if p == nil {
		p = map[string]any{}
	}
	return render(p)
}

func render(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// html.EscapeString below handles markup; keep the JSON itself literal.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode widget payload: %w", err)
	}
	encoded := html.EscapeString(strings.TrimSuffix(buf.String(), "\n"))
	return fmt.Sprintf(`<div class="%s" %s="%s"></div>`, hostClass, DataAttribute, encoded), nil
}

// ParseHTML extracts and decodes the payload embedded in a fragment produced
// by RenderHTML.
func ParseHTML(fragment string) (map[string]any, error) {
	marker := DataAttribute + `="`
	start := strings.Index(fragment, marker)
	if start < 0 {
		return nil, ErrNoPayload
	}
	rest := fragment[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return nil, fmt.Errorf("unterminated %s attribute: %w", DataAttribute, ErrNoPayload)
	}

	var p map[string]any
	if err := json.Unmarshal([]byte(html.UnescapeString(rest[:end])), &p); err != nil {
		return nil, fmt.Errorf("failed to decode widget payload: %w", err)
	}
	return p, nil
}
