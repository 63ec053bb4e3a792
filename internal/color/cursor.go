// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import "strconv"

// Cursor control sequences.
const (
	SaveCursor    = "\033[s"
	RestoreCursor = "\033[u"
	// ClearLine returns the cursor to column zero and erases the whole line.
	ClearLine = "\r\033[2K"
)

// CursorUp returns the sequence that moves the cursor up n lines.
// It returns an empty string when n is not positive.
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}

	return prefix + strconv.Itoa(n) + "A"
}
