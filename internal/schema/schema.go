// Package schema validates task request bodies against embedded JSON Schemas
// before they are decoded into model types.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

var ErrInvalidInput = errors.New("invalid input")

// MaxBodyBytes caps a request body. It leaves room for a description at its
// full code-point limit in four-byte runes.
const MaxBodyBytes = 64 << 10

// isoDateTimeFormat names the due_date format in the embedded schemas.
const isoDateTimeFormat = "iso-datetime"

var (
	//go:embed task_create.json
	createSchemaJSON string
	//go:embed task_update.json
	updateSchemaJSON string

	createSchema = mustCompile("task_create.json", createSchemaJSON)
	updateSchema = mustCompile("task_update.json", updateSchemaJSON)
)

// FieldError describes one rejected field. Field is empty when the problem
// concerns the body as a whole.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func mustCompile(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	compiler.Formats[isoDateTimeFormat] = isISODateTime
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// DecodeCreate reads a creation body, checks it against the schema and
// decodes it. A missing status is left empty; defaulting is the caller's job.
func DecodeCreate(r io.Reader) (model.TaskCreate, error) {
	var in model.TaskCreate
	err := decode(r, createSchema, &in)
	return in, err
}

// DecodeUpdate reads an update body. Null fields decode to nil and are
// treated as not supplied.
func DecodeUpdate(r io.Reader) (model.TaskUpdate, error) {
	var in model.TaskUpdate
	err := decode(r, updateSchema, &in)
	return in, err
}

func decode(r io.Reader, sch *jsonschema.Schema, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(raw) > MaxBodyBytes {
		return bodyError("request body is too large")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return bodyError("request body is empty")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return bodyError(fmt.Sprintf("invalid json: %v", err))
	}

	if err := sch.Validate(doc); err != nil {
		return fromSchemaError(err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		if errors.Is(err, model.ErrInvalidTimestamp) {
			return &ValidationError{Errors: []FieldError{{Field: "due_date", Message: model.ErrInvalidTimestamp.Error()}}}
		}
		return bodyError("invalid body")
	}
	return nil
}

// isISODateTime reports whether a string due_date is one model.ParseTimestamp
// accepts. Non-strings are left to the type keyword.
func isISODateTime(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	_, err := model.ParseTimestamp(s)
	return err == nil
}

func bodyError(msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Message: msg}}}
}

func fromSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return bodyError(err.Error())
	}

	out := &ValidationError{}
	collectLeaves(ve, out)
	if len(out.Errors) == 0 {
		return bodyError(ve.Message)
	}
	return out
}

func collectLeaves(ve *jsonschema.ValidationError, out *ValidationError) {
	if len(ve.Causes) == 0 {
		out.Errors = append(out.Errors, FieldError{
			Field:   pointerToField(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

// pointerToField turns a JSON pointer such as "/due_date" into "due_date".
func pointerToField(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
