package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/benreynwar/veifa/pkg/errors"
)

// ErrorMessage formats a command error for the terminal. Structured errors
// show their message and cause with the code appended.
func ErrorMessage(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return styleIconError.Render(iconError) + " " + err.Error()
	}
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return fmt.Sprintf("%s %s %s", styleIconError.Render(iconError), msg, StyleDim.Render("("+string(e.Code)+")"))
}
