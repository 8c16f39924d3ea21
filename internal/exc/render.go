// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Render writes a human readable diagnostic for e to w. The line of input that
// e points at is quoted with a caret under the offending column. Widths are
// measured in terminal cells so that wide characters keep the caret aligned.
func Render(w io.Writer, input string, e Exception) error {
	loc := e.Location()
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s\n", e.Code(), e.Message())

	where := fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	if loc.URI != "" {
		where = loc.URI + ":" + where
	}
	text, ok := lineAt(input, int(loc.Line))
	if !ok {
		fmt.Fprintf(&b, " --> %s\n", where)
		_, err := io.WriteString(w, b.String())
		return err
	}
	text = strings.ReplaceAll(text, "\t", " ")

	gutter := strconv.Itoa(int(loc.Line))
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&b, "%s--> %s\n", pad, where)
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s | %s\n", gutter, text)
	fmt.Fprintf(&b, "%s | %s^\n", pad, strings.Repeat(" ", caretColumn(text, int(loc.Column))))
	_, err := io.WriteString(w, b.String())
	return err
}

// caretColumn converts a 1-based code point column into a 0-based cell
// offset within line.
func caretColumn(line string, column int) int {
	if column <= 1 {
		return 0
	}
	runes := []rune(line)
	if column-1 > len(runes) {
		return uniseg.StringWidth(line) + (column - 1 - len(runes))
	}
	return uniseg.StringWidth(string(runes[:column-1]))
}

// lineAt returns the text of the 1-based line n. Lines end at "\n", "\r\n" or
// a lone "\r".
func lineAt(input string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	current := 1
	start := 0
	for x := 0; x < len(input); x = x + 1 {
		c := input[x]
		if c != '\n' && c != '\r' {
			continue
		}
		if current == n {
			return input[start:x], true
		}
		if c == '\r' && x+1 < len(input) && input[x+1] == '\n' {
			x = x + 1
		}
		current = current + 1
		start = x + 1
	}
	if current == n {
		return input[start:], true
	}
	return "", false
}
