// SPDX-License-Identifier: MPL-2.0

// Package project locates the root directory of a project.
//
// A project root is the nearest directory, walking upward from a starting
// directory, that contains the marker file (pyproject.toml unless configured
// otherwise). Only one marker name is recognized per lookup.
package project
