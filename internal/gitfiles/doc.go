// SPDX-License-Identifier: MPL-2.0

// Package gitfiles enumerates the files that belong to a project by asking
// git, so that ignore rules are evaluated by git itself:
//
//	git ls-files --cached --others --exclude-standard -z
//
// The result is the union of indexed files and untracked files that are not
// ignored. Paths that git still knows about but that are gone from the work
// tree are skipped and reported through Listing.Skipped.
//
// Process execution goes through the CommandRunner interface; tests swap in
// a fake runner instead of spawning git.
package gitfiles
