package ctxutil

import "context"

// TraceData carries per-request correlation identifiers for logging.
type TraceData struct {
	TraceID   string
	RequestID string
}

type traceDataKeyType struct{}

var traceDataKey = traceDataKeyType{}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey).(*TraceData); ok {
		return td
	}
	return nil
}
