package response

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// FieldError reports a validation failure tied to a single input field.
func FieldError(field, msg string) Response {
	return Response{
		Status: StatusError,
		Error:  "invalid request",
		Fields: map[string]string{field: msg},
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			fields[err.Field()] = fmt.Sprintf("field %s is a required field", err.Field())
		case "min":
			fields[err.Field()] = fmt.Sprintf("field %s is too short", err.Field())
		default:
			fields[err.Field()] = fmt.Sprintf("field %s is not valid", err.Field())
		}
	}
	return Response{
		Status: StatusError,
		Error:  "invalid request",
		Fields: fields,
	}
}
