package model

import (
	"errors"
	"strings"
)

// FieldError describes one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failing field of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "" if that field passed.
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type fieldErrors []FieldError

func (f *fieldErrors) require(field, value, message string) {
	if value == "" {
		*f = append(*f, FieldError{Field: field, Message: message})
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// CheckOperation reports the fields a stored operation is missing. Decoding
// accepts presets written before validation existed, so anything about to run
// goes through here first.
func CheckOperation(op Operation) error {
	p := ParamsOf(op)
	var errs fieldErrors
	errs.require("from", p.From, "Source path is required")
	errs.require("to", p.To, "Target path is required")
	if _, ok := op.(ModifyJSONOp); ok {
		errs.require("jsonPath", p.JSONPath, "JSON path is required")
	}
	return errs.err()
}

// VariableInput is an unvalidated variable submission.
type VariableInput struct {
	Name  string
	Value string
}

// Validate requires both name and value.
func (in VariableInput) Validate() error {
	var errs fieldErrors
	errs.require("name", in.Name, "Name is required")
	errs.require("value", in.Value, "Value is required")
	if strings.ContainsAny(in.Name, "{}") {
		errs = append(errs, FieldError{Field: "name", Message: "Name must not contain braces"})
	}
	return errs.err()
}

// Variable returns the validated variable.
func (in VariableInput) Variable() (Variable, error) {
	if err := in.Validate(); err != nil {
		return Variable{}, err
	}
	return Variable{Name: in.Name, Value: in.Value}, nil
}

// ParamSetInput is an unvalidated parameter set submission.
type ParamSetInput struct {
	Name      string
	Command   Command
	From      string
	To        string
	SkipExist bool
	JSONPath  string
}

// Validate checks every field and reports all failures at once.
func (in ParamSetInput) Validate() error {
	var errs fieldErrors
	errs.require("name", in.Name, "Name is required")
	switch in.Command {
	case CommandCopy, CommandModifyJSON:
	case "":
		errs = append(errs, FieldError{Field: "command", Message: "Command is required"})
	default:
		errs = append(errs, FieldError{Field: "command", Message: "Unknown command " + string(in.Command)})
	}
	errs.require("from", in.From, "Source path is required")
	errs.require("to", in.To, "Target path is required")
	if in.Command == CommandModifyJSON {
		errs.require("jsonPath", in.JSONPath, "JSON path is required")
	}
	return errs.err()
}

// Operation validates the input and builds its operation variant.
func (in ParamSetInput) Operation() (Operation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return NewOperation(in.Command, Params{
		From:      in.From,
		To:        in.To,
		SkipExist: in.SkipExist,
		JSONPath:  in.JSONPath,
	})
}

// InputOf returns the editable input form of an existing preset.
func InputOf(ps ParamSet) ParamSetInput {
	p := ParamsOf(ps.Op)
	return ParamSetInput{
		Name:      ps.Name,
		Command:   ps.Command(),
		From:      p.From,
		To:        p.To,
		SkipExist: p.SkipExist,
		JSONPath:  p.JSONPath,
	}
}
