// SPDX-License-Identifier: MPL-2.0

// Package widget renders small structured records as HTML fragments that the
// bundled front-end script turns into widgets. Rendering is a pure function;
// displaying the result is left to a Presenter chosen by the caller.
package widget
