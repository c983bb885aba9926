package uds

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	yellow = color.New(color.FgHiBlue).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
)

// Dump renders a transport payload for logs: direction marker, length,
// hex view and printable view.
func Dump(dir string, payload []byte) string {
	var out strings.Builder
	out.WriteString("<" + dir + "> || ")
	out.WriteString(fmt.Sprintf("%2d", len(payload)) + " || ")
	out.WriteString(fmt.Sprintf("%-47s", hexView(payload)))
	out.WriteString(" || ")
	out.WriteString(onlyPrintable(payload))
	return out.String()
}

// ColorDump is Dump with the views colorized for terminal monitors.
func ColorDump(dir string, payload []byte) string {
	var out strings.Builder
	out.WriteString("<" + dir + "> || ")
	out.WriteString(fmt.Sprintf("%2d", len(payload)) + " || ")
	if len(payload) >= 2 && payload[1] == NegativeResponseMarker {
		out.WriteString(red("%-47s", hexView(payload)))
	} else {
		out.WriteString(green("%-47s", hexView(payload)))
	}
	out.WriteString(" || ")
	out.WriteString(yellow(onlyPrintable(payload)))
	return out.String()
}

func hexView(data []byte) string {
	var out strings.Builder
	for i, b := range data {
		out.WriteString(fmt.Sprintf("%02X", b))
		if i != len(data)-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func onlyPrintable(data []byte) string {
	var out strings.Builder
	for _, b := range data {
		if b < 32 || b > 127 {
			out.WriteString(".")
		} else {
			out.WriteByte(b)
		}
	}
	return out.String()
}
