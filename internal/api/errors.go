package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrCode classifies API failures.
type ErrCode string

const (
	ErrCodeTransport    ErrCode = "TRANSPORT_ERROR"
	ErrCodeNotFound     ErrCode = "NOT_FOUND"
	ErrCodeValidation   ErrCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized ErrCode = "UNAUTHORIZED"
	ErrCodeServer       ErrCode = "SERVER_ERROR"
	ErrCodeDecode       ErrCode = "DECODE_ERROR"
)

// Error is a failed API call.
type Error struct {
	Code   ErrCode
	Status int
	// Detail is the server's own explanation, shown to users verbatim.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %d %s", e.Code, e.Status, http.StatusText(e.Status))
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserDetail returns the server-provided message, if any.
func (e *Error) UserDetail() string {
	return e.Detail
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == ErrCodeNotFound
}

// Code returns the ErrCode of err, or ErrCodeTransport for foreign errors.
func Code(err error) ErrCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrCodeTransport
}

func codeForStatus(status int) ErrCode {
	switch {
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeUnauthorized
	case status >= 400 && status < 500:
		return ErrCodeValidation
	default:
		return ErrCodeServer
	}
}

// parseDetail extracts "detail" from an error body. FastAPI sends either a
// string or, for request validation, a list of {loc, msg} objects.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if len(item.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(envelope.Detail))
}
