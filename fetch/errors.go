package fetch

import "fmt"

// Stage identifies where a fetch attempt failed.
type Stage string

const (
	StageRequest Stage = "request"
	StageStatus  Stage = "status"
	StageDecode  Stage = "decode"
	StageEmpty   Stage = "empty"
)

// Error describes a failed remote fetch. Widgets treat all stages uniformly as
// "fetch failed"; the stage exists for logging and tests.
type Error struct {
	Op    string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s fetch failed (%s): %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s fetch failed (%s)", e.Op, e.Stage)
}

func (e *Error) Unwrap() error {
	return e.Err
}
