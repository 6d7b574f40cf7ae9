package observability

import (
	"context"
	"testing"
)

func TestWithFieldsAccumulates(t *testing.T) {
	ctx := context.Background()
	ctx = WithFields(ctx, Field{"request_id", "req-1"})
	ctx = WithFields(ctx, Field{"lead_id", "lead-1"}, Field{"campaign_id", "camp-1"})

	fields := getObservabilityFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "request_id" || fields[0].Value != "req-1" {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	if fields[2].Key != "campaign_id" {
		t.Errorf("unexpected last field: %+v", fields[2])
	}
}

func TestGetObservabilityFieldsEmptyContext(t *testing.T) {
	fields := getObservabilityFields(context.Background())
	if fields != nil {
		t.Errorf("expected nil fields for empty context, got %+v", fields)
	}
}

func TestMergeFieldsDeduplicates(t *testing.T) {
	ctx := WithFields(context.Background(),
		Field{"path", "/api/leads"},
		Field{"method", "GET"},
	)

	merged := mergeFields(ctx, []MetricField{
		{"path", "/api/leads"},
		{"status", 200},
	})

	if len(merged) != 3 {
		t.Fatalf("expected 3 merged fields, got %d", len(merged))
	}
}
