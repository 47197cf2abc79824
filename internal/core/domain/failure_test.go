package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// =============================================================================
// Test Helpers
// =============================================================================

// fakeTimeoutErr implements net.Error with Timeout() == true.
type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string   { return "read tcp 10.0.0.1:443: i/o timeout" }
func (fakeTimeoutErr) Timeout() bool   { return true }
func (fakeTimeoutErr) Temporary() bool { return true }

// =============================================================================
// Tests
// =============================================================================

func TestFailureFromError_TypeTags(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{
			name:     "grpc unavailable",
			err:      status.Error(codes.Unavailable, "connection refused"),
			wantType: "Unavailable",
		},
		{
			name:     "grpc resource exhausted",
			err:      status.Error(codes.ResourceExhausted, "quota exceeded"),
			wantType: "ResourceExhausted",
		},
		{
			name:     "grpc unauthenticated",
			err:      status.Error(codes.Unauthenticated, "invalid token"),
			wantType: "Unauthenticated",
		},
		{
			name:     "context deadline",
			err:      fmt.Errorf("fetch failed: %w", context.DeadlineExceeded),
			wantType: TypeDeadlineExceeded,
		},
		{
			name:     "wrapped not exist",
			err:      fmt.Errorf("open config: %w", fs.ErrNotExist),
			wantType: TypeFileNotFound,
		},
		{
			name:     "wrapped permission",
			err:      fmt.Errorf("write log: %w", fs.ErrPermission),
			wantType: TypePermission,
		},
		{
			name:     "connection refused syscall",
			err:      fmt.Errorf("dial tcp 127.0.0.1:5432: %w", syscall.ECONNREFUSED),
			wantType: TypeConnectionRefused,
		},
		{
			name:     "net timeout",
			err:      fmt.Errorf("rpc call: %w", fakeTimeoutErr{}),
			wantType: TypeTimeout,
		},
		{
			name:     "plain error has no tag",
			err:      errors.New("something odd happened"),
			wantType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FailureFromError(tt.err)
			if f.Type != tt.wantType {
				t.Errorf("type = %q, want %q", f.Type, tt.wantType)
			}
			if f.Text != tt.err.Error() {
				t.Errorf("text = %q, want %q", f.Text, tt.err.Error())
			}
		})
	}
}

func TestFailureFromError_Nil(t *testing.T) {
	f := FailureFromError(nil)
	if f.Text != "" || f.Type != "" {
		t.Errorf("expected zero failure, got %+v", f)
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should rank above %s", order[i], order[i-1])
		}
	}
	if Severity("bogus").Rank() != -1 {
		t.Errorf("unknown severity should rank -1")
	}
}

func TestParseSeverity(t *testing.T) {
	if _, err := ParseSeverity("critical"); err != nil {
		t.Errorf("critical should parse: %v", err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("fatal should not parse")
	}
}

func TestParseStrategy(t *testing.T) {
	valid := []string{"retry", "retry_modified", "fallback", "skip", "escalate", "abort"}
	for _, s := range valid {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("%s should parse: %v", s, err)
		}
	}
	if _, err := ParseStrategy("panic"); err == nil {
		t.Error("panic should not parse")
	}
}
