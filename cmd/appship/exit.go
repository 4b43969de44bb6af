package main

import "appship/internal/domain"

type exitError struct {
	code    int
	message string
}

func (e exitError) Error() string {
	return e.message
}

// exitWithError carries the human message of err, formatted in the indented CLI style.
func exitWithError(err error) error {
	return exitError{code: 1, message: "\n  Error: " + domain.MessageFrom(err) + "\n"}
}
