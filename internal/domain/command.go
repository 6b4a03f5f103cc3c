package domain

import "strings"

// CommandSpec is an immutable description of how to launch a backend
// process. It is produced by a backend's command builder and never
// mutated afterwards; layers pass it by value.
// Fields are ordered to minimize memory padding.
type CommandSpec struct {
	Program string            // Executable name or path
	Dir     string            // Working directory ("" = inherit)
	Env     map[string]string // Extra environment (nil = none)
	Args    []string          // Arguments, program excluded
}

// FullCommand renders the spec as a single shell-quoted command line,
// suitable for handing to a multiplexer as the window command.
func (c CommandSpec) FullCommand() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellQuote(c.Program))
	for _, arg := range c.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// shellQuote quotes a single argument for POSIX sh. Safe strings pass
// through unchanged; everything else is single-quoted with embedded
// single quotes escaped.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$\\|&;<>()*?[]#~%{}!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// NewShellCommand wraps a shell command line for execution via sh -c
// in the given directory.
func NewShellCommand(script, dir string) CommandSpec {
	return CommandSpec{
		Program: "sh",
		Args:    []string{"-c", script},
		Dir:     dir,
	}
}
