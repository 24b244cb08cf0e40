// Package fopbridge holds the response shapes shared by the bridges.
package fopbridge

import (
	"encoding/json"
	"net/http"
)

// RecordID is the data model used when returning an affected record id.
type RecordID struct {
	ID string `json:"id"`
}

// MessageResponse reports the outcome of an operation on a single record.
type MessageResponse struct {
	Message string `json:"message"`
	RecordID
}

func NewMessageResponse(message, id string) MessageResponse {
	return MessageResponse{Message: message, RecordID: RecordID{ID: id}}
}

func (m MessageResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(m)
	return data, "application/json", err
}

// StatusResponse is returned by health endpoints.
type StatusResponse struct {
	Status string `json:"status"`
	code   int
}

func NewStatusResponse(status string, code int) StatusResponse {
	return StatusResponse{Status: status, code: code}
}

func (s StatusResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func (s StatusResponse) HTTPStatus() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}
