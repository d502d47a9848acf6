// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	GitNotFoundId Id = iota + 1
	NotAGitRepositoryId
	ProjectRootNotFoundId
	PathOutsideRootId
	GitTimeoutId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog entry. The zero value means "no issue".
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry with Markdown guidance for a failure class.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Markdown returns the full Markdown document, including the "See also"
// section when links are present.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <")
			sb.WriteString(string(link))
			sb.WriteString(">\n")
		}
	}
	return sb.String()
}

// Render renders the guidance for a terminal using the given glamour style
// ("dark", "light", "notty", ... or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	gitNotFoundIssue = &Issue{
		id: GitNotFoundId,
		mdMsg: `
# git was not found

coil asks git which files belong to the project, so that ignore rules are
applied exactly the way git applies them.

## Things you can try
- Install git and make sure it is on your PATH:
~~~
$ git --version
~~~
- Point coil at a specific binary in your config file:
~~~cue
git: binary: "/usr/local/bin/git"
~~~`,
		docLinks: []HttpLink{"https://git-scm.com/downloads"},
	}

	notAGitRepositoryIssue = &Issue{
		id: NotAGitRepositoryId,
		mdMsg: `
# git could not list the project files

git exited with an error while listing files under the project root. The most
common cause is a project that is not inside a git repository.

## Things you can try
- Initialize a repository in the project root:
~~~
$ git init
~~~
- Check that the directory is not owned by another user (git's
  'safe.directory' protection refuses to work in that case).`,
		docLinks: []HttpLink{"https://git-scm.com/docs/git-ls-files"},
	}

	projectRootNotFoundIssue = &Issue{
		id: ProjectRootNotFoundId,
		mdMsg: `
# No project root found

coil walks up from the starting directory looking for the project marker
file. None of the directories on the way to the filesystem root contained it.

## Things you can try
- Run coil from inside your project, or pass the project directory explicitly:
~~~
$ coil pack ./path/to/project
~~~
- If your project uses a different descriptor file, configure it:
~~~cue
project: marker: "go.mod"
~~~`,
	}

	pathOutsideRootIssue = &Issue{
		id: PathOutsideRootId,
		mdMsg: `
# A file resolved outside the project root

An entry handed to the archive did not live under the project root. This
points to a symlinked root or a bug; no archive was produced.

## Things you can try
- Run coil again with **--verbose** and report the output.`,
	}

	gitTimeoutIssue = &Issue{
		id: GitTimeoutId,
		mdMsg: `
# git did not finish in time

Listing the project files took longer than the configured timeout.

## Things you can try
- Raise or disable the timeout in your config file:
~~~cue
git: timeout: "10m"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# The configuration could not be loaded

## Things you can try
- Show where coil looks for its configuration:
~~~
$ coil config path
~~~
- Recreate a default configuration file:
~~~
$ coil config init
~~~`,
	}

	issues = map[Id]*Issue{
		gitNotFoundIssue.Id():         gitNotFoundIssue,
		notAGitRepositoryIssue.Id():   notAGitRepositoryIssue,
		projectRootNotFoundIssue.Id(): projectRootNotFoundIssue,
		pathOutsideRootIssue.Id():     pathOutsideRootIssue,
		gitTimeoutIssue.Id():          gitTimeoutIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
