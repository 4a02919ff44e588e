package script

import "strings"

// Command specifies what to run: either a single command-line string, or an
// ordered sequence of fragments representing one logical command pre-split
// for display. Fragments are joined with single spaces for execution but are
// rendered one per line with continuation backslashes, and are never re-split
// to fit a width; only the single-line form is subject to width-based
// breaking.
type Command struct {
	line  string
	parts []string
}

// Line builds a Command from a single command-line string.
func Line(cmd string) Command {
	return Command{line: cmd}
}

// Parts builds a Command from pre-split display fragments.
func Parts(fragments ...string) Command {
	return Command{parts: fragments}
}

// split reports whether the command was given as display fragments.
func (c Command) split() bool {
	return c.parts != nil
}

// joined returns the executable form: fragments joined with spaces, or the
// literal line.
func (c Command) joined() string {
	if c.split() {
		return strings.Join(c.parts, " ")
	}
	return c.line
}

func (c Command) empty() bool {
	if c.split() {
		return len(c.parts) == 0
	}
	return c.line == ""
}
