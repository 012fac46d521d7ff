package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestSchemaFor(t *testing.T) {
	tests := []struct {
		year int
		want SchemaVersion
	}{
		{1993, SchemaOld},
		{2000, SchemaOld},
		{2006, SchemaOld},
		{2007, SchemaNew},
		{2024, SchemaNew},
	}
	for _, tt := range tests {
		if got := SchemaFor(tt.year); got != tt.want {
			t.Errorf("SchemaFor(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestTransferErrorMessage(t *testing.T) {
	err := &TransferError{URL: "http://example.com/a.zip", StatusCode: 503, Status: "503 Service Unavailable"}
	if !strings.Contains(err.Error(), "503 Service Unavailable") {
		t.Errorf("status missing from message: %s", err.Error())
	}

	wrapped := &TransferError{URL: "http://example.com/a.zip", Err: errors.New("connection refused")}
	if !strings.Contains(wrapped.Error(), "connection refused") {
		t.Errorf("cause missing from message: %s", wrapped.Error())
	}
	if errors.Unwrap(wrapped) == nil {
		t.Error("expected wrapped cause")
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryPrimary.String() != "primary" || CategoryAlternate.String() != "alternate" {
		t.Error("unexpected category names")
	}
}
