// Package api defines the wire-level types shared by every HTTP response of the service.
package api

import "net/http"

// ErrorBody is the JSON body of every error response. Code mirrors the HTTP status.
type ErrorBody struct {
	Code    int    `json:"code"    doc:"HTTP status code"                example:"404"`
	Path    string `json:"path"    doc:"Request path that failed"        example:"/octocat"`
	Message string `json:"message" doc:"Human readable error description" example:"GitHub API request failed, check username parameter"`
}

// NewErrorBody builds an ErrorBody, falling back to the status text when msg is empty.
func NewErrorBody(status int, path, msg string) *ErrorBody {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ErrorBody{Code: status, Path: path, Message: msg}
}

// Error implements error.
func (e *ErrorBody) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorBody) GetStatus() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	return e.Code
}
