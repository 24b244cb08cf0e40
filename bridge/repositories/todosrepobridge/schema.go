package todosrepobridge

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "mem://todos/"

var (
	createTodoSchema = mustCompile("create_todo.json")
	updateTodoSchema = mustCompile("update_todo.json")
	setStatusSchema  = mustCompile("set_status.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(path.Join("schemas", name))
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}

	sch, err := c.Compile(schemaBase + name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return sch
}

// violation is one failed schema keyword.
type violation struct {
	keyword  string
	instance string
}

// inputError is a payload that is valid JSON but breaks the schema. message
// is what the client sees.
type inputError struct {
	message string
	cause   error
}

func (e *inputError) Error() string {
	return e.message
}

func (e *inputError) Unwrap() error {
	return e.cause
}

// validate checks data against sch. It returns a syntax error for malformed
// JSON, or the leaf violations when the document breaks the schema.
func validate(sch *jsonschema.Schema, data []byte) ([]violation, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	err := sch.Validate(doc)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var out []violation
	collectLeaves(ve, &out)
	return out, nil
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, violation{
			keyword:  path.Base(ve.KeywordLocation),
			instance: ve.InstanceLocation,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

// onlyUnder reports whether every violation is at or below the given
// instance location.
func onlyUnder(vs []violation, location string) bool {
	for _, v := range vs {
		if v.instance != location && !strings.HasPrefix(v.instance, location+"/") {
			return false
		}
	}
	return true
}

func anyUnder(vs []violation, location string) bool {
	for _, v := range vs {
		if v.instance == location || strings.HasPrefix(v.instance, location+"/") {
			return true
		}
	}
	return false
}
