// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestMarkerFileName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   MarkerFileName
		wantErr bool
	}{
		{"default", DefaultMarkerFileName, false},
		{"go module", "go.mod", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"nested path", "config/pyproject.toml", true},
		{"windows path", `config\pyproject.toml`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("MarkerFileName(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidMarkerFileName) {
				t.Errorf("error should wrap ErrInvalidMarkerFileName, got: %v", err)
			}
		})
	}
}
