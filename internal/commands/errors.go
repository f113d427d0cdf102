package commands

import (
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/api"
	"taskdeck/internal/exitcode"
)

// fail prints a server or transport error and picks the exit code.
// 4xx responses are the user's fault (bad ID, validation); everything else
// is a backend problem.
func fail(errOut io.Writer, err error) int {
	if errors.Is(err, api.ErrUnauthenticated) {
		fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
		return exitcode.AuthError
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		fmt.Fprintf(errOut, "error: %s\n", reqErr.Message)
		if reqErr.ClientError() {
			return exitcode.UserError
		}
		return exitcode.BackendError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
