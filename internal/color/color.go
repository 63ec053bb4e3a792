// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"strconv"
	"strings"
)

const (
	sbPadding = 16 // padding for the strings.Builder
)

// Code represents an ANSI control code for text formatting.
type Code int

const (
	reset  = "\033[0m"
	prefix = "\033["
	suffix = "m"
)

// Codes used by the console output and the log handler.
const (
	Bold        Code = 1
	FgRed       Code = 31
	FgYellow    Code = 33
	FgBlue      Code = 34
	FgCyan      Code = 36
	FgWhite     Code = 37
	FgHiMagenta Code = 95
	FgHiWhite   Code = 97
)

// Colorize returns a string with ANSI color codes applied.
// It appends the reset code at the end of the string to reset the color.
// Whether color should be used at all is the caller's decision, see Plain.
func Colorize(str string, colorCodes ...Code) string {
	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + sbPadding)
	sb.WriteString(prefix)
	writeCodes(&sb, colorCodes)
	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

func writeCodes(sb *strings.Builder, codes []Code) {
	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}
}
