// SPDX-License-Identifier: MPL-2.0

package tarball

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/invowk/coil/pkg/types"
)

// Headers returns the headers of every member of a produced archive, in
// archive order.
func Headers(data []byte, compressed bool) (headers []*tar.Header, err error) {
	var src io.Reader = bytes.NewReader(data)
	if compressed {
		gz, gzErr := gzip.NewReader(src)
		if gzErr != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", gzErr)
		}
		defer func() {
			if closeErr := gz.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		src = gz
	}

	tr := tar.NewReader(src)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			return headers, nil
		}
		if nextErr != nil {
			return nil, fmt.Errorf("failed to read tar stream: %w", nextErr)
		}
		headers = append(headers, hdr)
	}
}

// Names returns the member names of a produced archive, in archive order.
func Names(data []byte, compressed bool) ([]types.ArchiveName, error) {
	headers, err := Headers(data, compressed)
	if err != nil {
		return nil, err
	}
	names := make([]types.ArchiveName, 0, len(headers))
	for _, hdr := range headers {
		names = append(names, types.ArchiveName(hdr.Name))
	}
	return names, nil
}
