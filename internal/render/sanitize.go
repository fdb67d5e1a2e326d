// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"
	"strings"
)

// SECURITY: Model output is untrusted. Raw escape sequences in a reply
// could move the cursor, retitle the terminal, or inject fake UI, so
// every byte is scrubbed before styling is applied.

var (
	// CSI sequences: ESC [ parameters intermediate final.
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

	// OSC sequences: ESC ] ... terminated by BEL or ST.
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)?`)

	// Remaining two-byte escapes and stray ESC bytes.
	escPattern = regexp.MustCompile(`\x1b[@-_]?`)
)

// StripControlSequences removes ANSI/OSC escape sequences and control
// characters from model output. Newlines and tabs survive.
func StripControlSequences(s string) string {
	if !strings.ContainsAny(s, "\x1b\x00\x07\x08\x0b\x0c\x0d\x7f") {
		return s
	}
	s = csiPattern.ReplaceAllString(s, "")
	s = oscPattern.ReplaceAllString(s, "")
	s = escPattern.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
