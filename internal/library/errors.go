package library

import (
	"errors"
	"fmt"
)

// ErrNoSelection is returned when a move is attempted with no documents
// selected.
var ErrNoSelection = errors.New("no documents selected")

// ErrBusy is returned when an orchestrator is asked to start an operation
// while a previous one is still in flight.
var ErrBusy = errors.New("operation already in progress")

// ValidationError reports a local, pre-flight failure. The operation was
// never attempted and no state changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// GatewayError reports a non-2xx response or transport failure from the
// document service.
type GatewayError struct {
	StatusCode int    // 0 when the request never reached the service
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: %d %s", e.StatusCode, e.Message)
}

// UploadError reports the failure that stopped an upload batch. FileName
// names the file whose upload failed; documents created before it remain
// on the server.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
