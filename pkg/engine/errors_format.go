package engine

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders err for terminal output, with the error code when one
// is known. Color follows fatih/color's NoColor detection.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	errorColor := color.New(color.FgRed, color.Bold)
	errorColor.Fprintf(&b, "Error")

	if code := ErrorCode(err); code != "UNKNOWN_ERROR" {
		codeColor := color.New(color.FgCyan)
		codeColor.Fprintf(&b, " [%s]", code)
	}
	fmt.Fprintf(&b, ": %s\n", err.Error())

	if hint := suggestionFor(err); hint != "" {
		helpColor := color.New(color.FgYellow, color.Bold)
		helpColor.Fprintf(&b, "  Help: ")
		fmt.Fprintf(&b, "%s\n", hint)
	}

	return b.String()
}

func suggestionFor(err error) string {
	switch {
	case IsNotFound(err):
		return "check that the record exists"
	case ErrorCode(err) == "INVALID_INPUT":
		return "supply at least one field to change"
	case ErrorCode(err) == "FOREIGN_KEY_VIOLATION":
		return "the referenced record must exist"
	}
	return ""
}
