package tracing

import (
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesTruncatesLongStrings(t *testing.T) {
	long := strings.Repeat("x", maxAttributeLength+10)
	attrs := SafeAttributes(attribute.String("path", long), attribute.Int("status", 200))
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if got := len(attrs[0].Value.AsString()); got != maxAttributeLength {
		t.Fatalf("expected truncated length %d, got %d", maxAttributeLength, got)
	}
	if attrs[1].Value.AsInt64() != 200 {
		t.Fatalf("expected int attribute untouched")
	}
}

func TestSafeErrorFlattensMessage(t *testing.T) {
	err := SafeError(errors.New("line one\n  line two"))
	if err.Error() != "line one line two" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if SafeError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
