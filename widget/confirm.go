// Package widget holds the small contracts shared by all widget cores.
package widget

// ConfirmationRequired is returned by destructive operations invoked without
// confirmation. The surrounding UI layer decides how to collect it and calls
// the operation again with confirmed=true, so no operation ever blocks on a
// dialog.
type ConfirmationRequired struct {
	Prompt string
}

func (e *ConfirmationRequired) Error() string {
	return "confirmation required: " + e.Prompt
}
