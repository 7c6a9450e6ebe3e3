package ui

import (
	"fmt"
	"io"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Success.Render("✔ "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render("✖ "+msg))
}

// Info prints a muted hint line.
func Info(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}
