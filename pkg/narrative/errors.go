package narrative

import "fmt"

// RemoteCommandError carries the error text a host put in a command-response.
type RemoteCommandError struct {
	Op      string
	Message string
}

func (e *RemoteCommandError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
