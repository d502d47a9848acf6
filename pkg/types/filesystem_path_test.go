// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/srv/project/pyproject.toml"), false},
		{"relative path", FilesystemPath("sub/b.txt"), false},
		{"windows style", FilesystemPath(`C:\work\project`), false},
		{"path with spaces", FilesystemPath("/path/to/my file.txt"), false},
		{"dot path", FilesystemPath("."), false},
		{"empty is invalid", FilesystemPath(""), true},
		{"whitespace only is invalid", FilesystemPath("   "), true},
		{"tab only is invalid", FilesystemPath("\t"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FilesystemPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(err, &fpErr) {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_IsEmpty(t *testing.T) {
	t.Parallel()

	if !FilesystemPath("").IsEmpty() {
		t.Error(`FilesystemPath("").IsEmpty() = false, want true`)
	}
	if FilesystemPath("/tmp").IsEmpty() {
		t.Error(`FilesystemPath("/tmp").IsEmpty() = true, want false`)
	}
	if got := FilesystemPath("/tmp").String(); got != "/tmp" {
		t.Errorf("String() = %q, want %q", got, "/tmp")
	}
}
