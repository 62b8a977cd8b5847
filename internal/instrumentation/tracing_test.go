package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// withRecorder installs an in-memory tracer provider for the test.
func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func attrsToMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[a.Key] = a.Value
	}
	return out
}

func TestSpanAttributeBuilder(t *testing.T) {
	if attrs := NewSpanAttributeBuilder().Build(); len(attrs) != 0 {
		t.Errorf("empty builder should return 0 attributes, got %d", len(attrs))
	}

	attrs := NewSpanAttributeBuilder().
		WithTool("replicaset_pods").
		WithInvocationID("abc").
		WithNamespace("default").
		WithResource("replicasets", "web").
		WithOperation(OperationResolve).
		WithOwnerKind("ReplicaSet").
		Build()

	m := attrsToMap(attrs)
	want := map[string]string{
		SpanAttrTool:         "replicaset_pods",
		SpanAttrInvocationID: "abc",
		SpanAttrNamespace:    "default",
		SpanAttrResourceType: "replicasets",
		SpanAttrResourceName: "web",
		SpanAttrOperation:    OperationResolve,
		SpanAttrOwnerKind:    "ReplicaSet",
	}
	for k, v := range want {
		if got := m[attribute.Key(k)].AsString(); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestSpanAttributeBuilder_SkipsEmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithInvocationID("").
		WithNamespace("").
		WithResource("", "").
		WithOwnerKind("").
		Build()
	if len(attrs) != 0 {
		t.Errorf("expected no attributes, got %v", attrs)
	}
}

func TestStartToolSpan(t *testing.T) {
	exporter := withRecorder(t)

	_, span := StartToolSpan(context.Background(), "pod_get", attribute.String("extra", "attr"))
	SetSpanSuccess(span)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "tool.pod_get" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	if spans[0].SpanKind != trace.SpanKindServer {
		t.Errorf("expected server span, got %v", spans[0].SpanKind)
	}
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("expected OK status, got %v", spans[0].Status.Code)
	}
	m := attrsToMap(spans[0].Attributes)
	if m[SpanAttrTool].AsString() != "pod_get" || m["extra"].AsString() != "attr" {
		t.Errorf("unexpected attributes %v", spans[0].Attributes)
	}
}

func TestStartK8sSpan(t *testing.T) {
	exporter := withRecorder(t)

	ctx, parent := StartToolSpan(context.Background(), "service_pods")
	_, child := StartK8sSpan(ctx, OperationList, "pods", "")
	SetSpanError(child, errors.New("forbidden"))
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	k8sSpan := spans[0]
	if k8sSpan.Name != "k8s.list" {
		t.Errorf("unexpected span name %q", k8sSpan.Name)
	}
	if k8sSpan.Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("k8s span should be a child of the tool span")
	}
	if k8sSpan.Status.Code != codes.Error || k8sSpan.Status.Description != "forbidden" {
		t.Errorf("unexpected status %+v", k8sSpan.Status)
	}
	if _, ok := attrsToMap(k8sSpan.Attributes)[SpanAttrNamespace]; ok {
		t.Error("empty namespace should not be recorded")
	}
	if len(k8sSpan.Events) != 1 {
		t.Errorf("expected recorded error event, got %d events", len(k8sSpan.Events))
	}
}

func TestStartResolverSpan(t *testing.T) {
	exporter := withRecorder(t)

	_, span := StartResolverSpan(context.Background(), "Service", "default")
	AddSpanEvent(span, "resolved", attribute.Int(SpanAttrMemberCount, 2))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "selector.resolve" || spans[0].SpanKind != trace.SpanKindInternal {
		t.Errorf("unexpected span %q kind %v", spans[0].Name, spans[0].SpanKind)
	}
	if len(spans[0].Events) != 1 || spans[0].Events[0].Name != "resolved" {
		t.Errorf("unexpected events %+v", spans[0].Events)
	}
}

func TestSetSpanError_NilIsNoop(t *testing.T) {
	exporter := withRecorder(t)
	_, span := StartToolSpan(context.Background(), "pod_list")
	SetSpanError(span, nil)
	span.End()

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Unset {
		t.Errorf("expected unset status, got %v", got)
	}
}

func TestTraceAndSpanIDs(t *testing.T) {
	if GetTraceID(context.Background()) != "" || GetSpanID(context.Background()) != "" {
		t.Error("expected empty IDs without a span")
	}

	withRecorder(t)
	ctx, span := StartToolSpan(context.Background(), "pod_list")
	defer span.End()

	if got := GetTraceID(ctx); got != span.SpanContext().TraceID().String() {
		t.Errorf("GetTraceID = %q", got)
	}
	if got := GetSpanID(ctx); got != span.SpanContext().SpanID().String() {
		t.Errorf("GetSpanID = %q", got)
	}
}
