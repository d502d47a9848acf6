// SPDX-License-Identifier: MPL-2.0

package widget

import (
	"embed"
	"io/fs"
)

// BundlePath is the location of the front-end bundle inside BundleFS.
const BundlePath = "assets/index.js"

//go:embed assets/index.js
var assets embed.FS

// BundleFS exposes the embedded front-end assets.
func BundleFS() fs.FS { return assets }

// BundleJS returns the front-end bundle source.
func BundleJS() string {
	data, err := assets.ReadFile(BundlePath)
	if err != nil {
		// The bundle is compiled in; a read failure is a build defect.
		panic(err)
	}
	return string(data)
}

// JSPrelude returns a script element that loads the bundle. Hosts insert it
// once before any rendered fragments.
func JSPrelude() string {
	return "<script>\n" + BundleJS() + "\n</script>"
}
