// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// PlainEnv is the environment variable that forces plain output when set to "1" or "true".
	PlainEnv = "CI_PLAIN"
	// TermEnv is the environment variable holding the terminal type.
	TermEnv  = "TERM"
	dumbTerm = "dumb"
)

// Environment holds the inputs of the plain output decision.
type Environment struct {
	// ForcePlain is an explicit request for plain output, e.g. the --plain flag.
	ForcePlain bool
	// IsTerminal reports whether the output stream is an interactive terminal.
	IsTerminal bool
	// LookupEnv looks up an environment variable. Nil means no variables are set.
	LookupEnv func(string) (string, bool)
}

// OSEnvironment returns the Environment of the current process for output f.
func OSEnvironment(f *os.File, forcePlain bool) Environment {
	return Environment{
		ForcePlain: forcePlain,
		IsTerminal: f != nil && term.IsTerminal(int(f.Fd())),
		LookupEnv:  os.LookupEnv,
	}
}

// Plain reports whether output must be rendered without colors or cursor movement.
func Plain(e Environment) bool {
	if e.ForcePlain || !e.IsTerminal {
		return true
	}

	lookup := e.LookupEnv
	if lookup == nil {
		return false
	}

	if v, _ := lookup(TermEnv); v == dumbTerm {
		return true
	}

	if _, ok := lookup(NoColor); ok {
		return true
	}

	switch v, _ := lookup(PlainEnv); v {
	case "1", "true":
		return true
	}

	return false
}
