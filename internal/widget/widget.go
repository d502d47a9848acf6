// SPDX-License-Identifier: MPL-2.0

package widget

const (
	// DefaultTitle is the title of a widget created with New.
	DefaultTitle = "Widget Preview"
	// DefaultBody is the body of a widget created with New.
	DefaultBody = "Render structured data here."
)

type (
	// Widget is the record a fragment is rendered from.
	Widget struct {
		Title    string
		Body     string
		Metadata map[string]any
	}

	// payload fixes the JSON key order to title, body, metadata.
	payload struct {
		Title    string         `json:"title"`
		Body     string         `json:"body"`
		Metadata map[string]any `json:"metadata"`
	}
)

// New returns a widget with the default title and body and empty metadata.
func New() Widget {
	return Widget{
		Title:    DefaultTitle,
		Body:     DefaultBody,
		Metadata: map[string]any{},
	}
}

// Payload returns the JSON-compatible form of w. Nil metadata becomes an
// empty map.
func (w Widget) Payload() map[string]any {
	return map[string]any{
		"title":    w.Title,
		"body":     w.Body,
		"metadata": w.metadata(),
	}
}

func (w Widget) metadata() map[string]any {
	if w.Metadata == nil {
		return map[string]any{}
	}
	return w.Metadata
}

func (w Widget) ordered() payload {
	return payload{Title: w.Title, Body: w.Body, Metadata: w.metadata()}
}
