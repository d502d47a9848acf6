// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue values hold Markdown guidance for the failure
// classes the packaging pipeline can hit (missing git, no project root,
// repository errors) and are rendered for the terminal with glamour.
package issue
