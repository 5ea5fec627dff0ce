package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys attached to ingest and request spans.
const (
	// Construction phase
	AttrGraphNodes      = "graph.nodes"
	AttrGraphLines      = "graph.lines_total"
	AttrGraphConsumerID = "graph.consumer_id"

	// Request / BFS
	AttrRequestID   = "request.id"
	AttrSourceCode  = "request.source_code"
	AttrSinkCode    = "request.sink_code"
	AttrPathLength  = "request.path_length"
	AttrPathFound   = "request.path_found"
	AttrCacheHit    = "request.cache_hit"
	AttrCPUDuration = "request.cpu_duration_seconds"
)

// GraphAttributes returns attributes describing the constructed graph.
func GraphAttributes(nodes, lines int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphLines, lines),
	}
}

// ConsumerAttributes returns attributes identifying an ingest consumer.
func ConsumerAttributes(consumerID int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphConsumerID, consumerID),
	}
}

// RequestAttributes returns attributes describing one BFS request.
func RequestAttributes(requestID string, sourceCode, sinkCode int32) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
		attribute.Int64(AttrSourceCode, int64(sourceCode)),
		attribute.Int64(AttrSinkCode, int64(sinkCode)),
	}
}

// OutcomeAttributes returns attributes describing the result of a BFS request.
func OutcomeAttributes(found bool, pathLength int, cacheHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(AttrPathFound, found),
		attribute.Int(AttrPathLength, pathLength),
		attribute.Bool(AttrCacheHit, cacheHit),
	}
}
