package domain

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"syscall"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Type tags produced by FailureFromError and understood by the built-in
// catalog. gRPC failures carry their code name (Unavailable, NotFound, ...)
// instead.
const (
	TypeConnectionRefused = "ConnectionRefusedError"
	TypeTimeout           = "TimeoutError"
	TypeDeadlineExceeded  = "DeadlineExceeded"
	TypeFileNotFound      = "FileNotFoundError"
	TypePermission        = "PermissionError"
)

// Failure is the classification input: raw failure text plus an optional
// type tag matched exactly against pattern error_types.
type Failure struct {
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// FailureFromError derives a Failure from a Go error, mapping well-known
// error kinds to catalog type tags. Unrecognized errors carry text only.
func FailureFromError(err error) Failure {
	if err == nil {
		return Failure{}
	}
	f := Failure{Text: err.Error()}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		f.Type = st.Code().String()
		return f
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		f.Type = TypeDeadlineExceeded
	case errors.Is(err, fs.ErrNotExist):
		f.Type = TypeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		f.Type = TypePermission
	case errors.Is(err, syscall.ECONNREFUSED):
		f.Type = TypeConnectionRefused
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			f.Type = TypeTimeout
		}
	}
	return f
}
