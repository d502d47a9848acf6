// SPDX-License-Identifier: MPL-2.0

// Package packager turns a project directory into a single in-memory archive
// of its version-controlled files. It locates the project root, enumerates
// files through git and streams them into a tarball, failing fast on the
// first error of any stage.
package packager
