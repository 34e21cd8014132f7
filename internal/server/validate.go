package server

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	minTitleLen    = 5
)

// requestError is a client error with the status and message returned to the caller.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) *requestError {
	return &requestError{status: http.StatusBadRequest, message: message}
}

func required(field string, v *string) *requestError {
	if v == nil || *v == "" {
		return badRequest(field + " is required.")
	}
	return nil
}

func validateUsername(v *string) *requestError {
	if err := required("username", v); err != nil {
		return err
	}
	if utf8.RuneCountInString(*v) < minUsernameLen {
		return badRequest("Username must be at least 3 characters long.")
	}
	return nil
}

func validateEmail(v *string) *requestError {
	if err := required("email", v); err != nil {
		return err
	}
	if !strings.Contains(*v, "@") {
		return badRequest("Invalid email format.")
	}
	return nil
}

func validateTitle(v *string) *requestError {
	if err := required("title", v); err != nil {
		return err
	}
	if utf8.RuneCountInString(*v) < minTitleLen {
		return badRequest("Title must be at least 5 characters long.")
	}
	return nil
}

// firstError returns the first non-nil error in order.
func firstError(errs ...*requestError) *requestError {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
