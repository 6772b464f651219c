package ui

import (
	"fmt"

	"github.com/pterm/pterm"
)

func PrintL1Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf(" %s   ", text)

	style.Println(paddedText)
}

func PrintL2Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf("# %s   ", text)

	style.Println(paddedText)
}

// Separator prints a green separator line between output blocks.
func Separator() {
	pterm.Println(pterm.Green("----------------------------------------"))
}

// FieldErrors prints one warning per failed form field.
func FieldErrors(errs map[string]string) {
	for field, msg := range errs {
		pterm.Warning.Printf("%s: %s\n", field, msg)
	}
}
