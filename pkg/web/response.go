// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Message wraps a given message into json friendly struct.
func Message(msg string) JSONError {
	return JSONError{Error: msg}
}

// GetErrorMsg returns the tail of a validation message for a failed field.
// The caller prefixes it with the field name.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "max":
		return " must be at most " + fe.Param() + " characters long"
	case "accountid":
		return " is not a valid account id"
	}

	return " is invalid"
}
