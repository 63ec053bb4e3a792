// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI escape codes for text formatting and cursor control,
// and the decision of whether output should be rendered in plain mode.
//
// Plain mode means no colors and no cursor movement. It is selected when the caller
// asks for it explicitly, when stdout is not a terminal, when TERM is "dumb",
// when NO_COLOR is set, or when CI_PLAIN is "1" or "true".
// Terminal detection is done using the golang.org/x/term package.
//
// Nothing in this package reads process state at init time; callers build an
// Environment and pass it to Plain.
package color
