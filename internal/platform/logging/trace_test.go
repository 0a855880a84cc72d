package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sampleTraceparent = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"

func TestParseTraceparent(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		ok      bool
		sampled bool
	}{
		{"sampled", sampleTraceparent, true, true},
		{"not sampled", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-00", true, false},
		{"empty", "", false, false},
		{"legacy cloud trace header", "105445aa7843bc8bf206b12000100000/1;o=1", false, false},
		{"short trace id", "00-3d23d071-08f067aa0ba902b7-01", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, ok := parseTraceparent(tt.header)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && tc.sampled != tt.sampled {
				t.Fatalf("expected sampled=%v, got %v", tt.sampled, tc.sampled)
			}
		})
	}
}

func TestTraceFields(t *testing.T) {
	fields := traceFields(sampleTraceparent, "test-project")
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].String != "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
	if fields[1].String != "08f067aa0ba902b7" {
		t.Fatalf("unexpected span field: %+v", fields[1])
	}
	if fields[2].Type != zapcore.BoolType || fields[2].Integer != 1 {
		t.Fatalf("unexpected sampled field: %+v", fields[2])
	}

	if traceFields(sampleTraceparent, "") != nil {
		t.Fatal("expected no fields without project ID")
	}
	if traceFields("invalid", "test-project") != nil {
		t.Fatal("expected no fields for invalid header")
	}
}

func TestLoggerWithTrace(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	loggerWithTrace(base, sampleTraceparent, "test-project", "req-123").Info("hello")

	fields := recorded.All()[0].ContextMap()
	if fields["requestId"] != "req-123" {
		t.Fatalf("expected requestId field, got %v", fields)
	}
	if fields["logging.googleapis.com/spanId"] != "08f067aa0ba902b7" {
		t.Fatalf("expected span field, got %v", fields)
	}

	if loggerWithTrace(base, "", "", "") != base {
		t.Fatal("expected base logger when no fields apply")
	}
	if loggerWithTrace(nil, "", "", "") == nil {
		t.Fatal("expected nop logger for nil base")
	}
}
