package prophet

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrConfig marks invalid weights, clustering parameters or column references.
	ErrConfig = errors.New("invalid configuration")
	// ErrInput marks an input table that could not be opened or parsed.
	ErrInput = errors.New("invalid input")
	// ErrBusy is returned when a run is requested while another one is active.
	ErrBusy = errors.New("a run is already in progress")

	errMissingInput  = fmt.Errorf("%w: missing input file", ErrConfig)
	errInvalidNumber = fmt.Errorf("%w: invalid number", ErrConfig)
)

// StageError reports a failure inside one pipeline stage.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// UserMessage converts an error returned by this package into a single line
// suitable for a dialog or a terminal.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var stageErr *StageError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "The file could not be found."
	case errors.Is(err, errMissingInput):
		return "Please select all files!"
	case errors.Is(err, errInvalidNumber):
		return "Please enter valid weighting values and DBSCAN parameters!"
	case errors.Is(err, ErrBusy):
		return "A run is already in progress."
	case errors.As(err, &stageErr):
		return capitalize(stageErr.Error())
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
