package todosrepobridge

import (
	"encoding/json"
	"fmt"
)

// Client-facing validation messages.
const (
	msgInvalidBody        = "Invalid request body"
	msgTitleRequired      = "Title is required and must be a string"
	msgTitleString        = "Title must be a string"
	msgDescriptionString  = "Description must be a string or null"
	msgStatusRequired     = "Status is required and must be a string"
	msgStatusInvalid      = `Status must be either "pending" or "completed"`
	msgNotFound           = "Todo not found"
	msgDeleted            = "Todo deleted successfully"
	msgFetchFailed        = "Failed to fetch todos"
	msgCreateFailed       = "Failed to create todo"
	msgUpdateFailed       = "Failed to update todo"
	msgDeleteFailed       = "Failed to delete todo"
	msgUpdateStatusFailed = "Failed to update todo status"
	msgUnavailable        = "Database unavailable"
)

// Todo is the wire representation of a todo.
type Todo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateTodoInput is the body of POST /todos.
type CreateTodoInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Decode implements web.Decoder.
func (in *CreateTodoInput) Decode(data []byte) error {
	vs, err := validate(createTodoSchema, data)
	if err != nil {
		return err
	}
	if len(vs) > 0 {
		msg := msgTitleRequired
		if onlyUnder(vs, "/description") {
			msg = msgDescriptionString
		}
		return &inputError{message: msg}
	}

	return json.Unmarshal(data, in)
}

// UpdateTodoInput is the body of PUT /todos/{id}. DescriptionSet records
// whether the description key was present at all.
type UpdateTodoInput struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	DescriptionSet bool    `json:"-"`
}

// Decode implements web.Decoder.
func (in *UpdateTodoInput) Decode(data []byte) error {
	vs, err := validate(updateTodoSchema, data)
	if err != nil {
		return err
	}
	if len(vs) > 0 {
		switch {
		case anyUnder(vs, "/title"):
			return &inputError{message: msgTitleString}
		case anyUnder(vs, "/description"):
			return &inputError{message: msgDescriptionString}
		default:
			return &inputError{message: msgInvalidBody}
		}
	}

	if err := json.Unmarshal(data, in); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("read keys: %w", err)
	}
	_, in.DescriptionSet = keys["description"]

	return nil
}

// SetStatusInput is the body of PUT /todos/{id}/status.
type SetStatusInput struct {
	Status string `json:"status"`
}

// Decode implements web.Decoder. A missing, empty or non-string status and an
// unknown status are reported with different messages.
func (in *SetStatusInput) Decode(data []byte) error {
	vs, err := validate(setStatusSchema, data)
	if err != nil {
		return err
	}
	for _, v := range vs {
		if v.keyword != "enum" {
			return &inputError{message: msgStatusRequired}
		}
	}
	if len(vs) > 0 {
		return &inputError{message: msgStatusInvalid}
	}

	return json.Unmarshal(data, in)
}
