package errhandler

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/banktech/internal/validation"
	"github.com/pterm/pterm"
)

// IsAbort reports whether err comes from the user leaving a prompt.
func IsAbort(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}

func HandleError(err error) {
	if IsAbort(err) {
		pterm.Warning.Println("Operation Cancelled")
		os.Exit(0)
	}

	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		for field, msg := range fe {
			pterm.Error.Printf("%s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
