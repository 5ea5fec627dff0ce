// Package audit provides components for capturing, storing, and querying audit logs.
// It defines the structure of an audit entry, actions, outcomes, and interfaces
// for different logging backends.
package audit

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"time"
)

// Action represents the type of action performed in an audit event. There is
// only one kind of action in cammini-server: answering a shortest-path request.
type Action string

const (
	// ActionSolve indicates a source/sink shortest-path query was answered.
	ActionSolve Action = "SOLVE"
)

// Outcome represents the result of an audit action.
type Outcome string

const (
	// OutcomeFound indicates a path between source and sink was found.
	OutcomeFound Outcome = "FOUND"
	// OutcomeNoPath indicates the graph has no path between source and sink.
	OutcomeNoPath Outcome = "NO_PATH"
	// OutcomeInvalidEndpoint indicates the source or sink code does not exist.
	OutcomeInvalidEndpoint Outcome = "INVALID_ENDPOINT"
	// OutcomeOutputError indicates the result could not be written to the output file.
	OutcomeOutputError Outcome = "OUTPUT_ERROR"
)

// Entry represents a single audit log record for one served request.
type Entry struct {
	ID          string         `json:"id"`                    // Unique identifier for the audit entry.
	Timestamp   time.Time      `json:"timestamp"`              // Time when the event occurred.
	Action      Action         `json:"action"`                 // Type of action performed.
	Outcome     Outcome        `json:"outcome"`                // Result of the request.
	RequestID   string         `json:"request_id,omitempty"`   // Correlation ID assigned to the pipe request.
	SourceCode  int32          `json:"source_code"`             // Requested source actor/movie code.
	SinkCode    int32          `json:"sink_code"`               // Requested sink actor/movie code.
	PathLength  int            `json:"path_length,omitempty"`  // Number of hops in the found path, if any.
	CacheHit    bool           `json:"cache_hit"`               // Whether the result was served from the path cache.
	DurationMs  int64          `json:"duration_ms"`             // CPU time of the operation in milliseconds.
	ErrorCode   string         `json:"error_code,omitempty"`    // Application error code if the outcome is a failure.
	ErrorMessage string        `json:"error_message,omitempty"` // Human-readable error message, if any.
	Metadata    map[string]any `json:"metadata,omitempty"`      // Additional arbitrary key-value metadata.
}

// Logger is the interface that audit loggers must implement.
type Logger interface {
	// Log records an audit event.
	Log(ctx context.Context, entry *Entry) error

	// Query retrieves audit logs based on a filter.
	// Not all loggers may support querying.
	Query(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// Close shuts down the logger and releases any resources.
	Close() error
}

// QueryFilter defines criteria for querying audit log entries.
type QueryFilter struct {
	StartTime *time.Time // Start time for the query range (inclusive).
	EndTime   *time.Time // End time for the query range (exclusive).
	Outcome   Outcome    // Filter by action outcome.
	Limit     int        // Maximum number of results to return.
	Offset    int        // Number of results to skip.
}

// Config holds configuration parameters for the audit logger.
type Config struct {
	Enabled     bool          `koanf:"enabled"`      // If true, auditing is active.
	Backend     string        `koanf:"backend"`      // The logging backend to use ("stdout", "file", or "discard").
	FilePath    string        `koanf:"file_path"`    // Path to the log file, if backend is "file".
	BufferSize  int           `koanf:"buffer_size"`  // Size of the internal buffer for asynchronous logging.
	FlushPeriod time.Duration `koanf:"flush_period"` // Period to flush buffered entries to the backend.
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Backend:     "stdout",
		BufferSize:  1000,
		FlushPeriod: 5 * time.Second,
	}
}

// Builder provides a fluent API for constructing an Entry object.
type Builder struct {
	entry *Entry
}

// NewEntry creates and returns a new Builder initialized with a timestamp and an empty metadata map.
func NewEntry() *Builder {
	return &Builder{
		entry: &Entry{
			Timestamp: time.Now(),
			Metadata:  make(map[string]any),
		},
	}
}

// Action sets the action type for the audit entry.
func (b *Builder) Action(a Action) *Builder {
	b.entry.Action = a
	return b
}

// Outcome sets the outcome for the audit entry.
func (b *Builder) Outcome(o Outcome) *Builder {
	b.entry.Outcome = o
	return b
}

// RequestID sets the request ID for the audit entry.
func (b *Builder) RequestID(id string) *Builder {
	b.entry.RequestID = id
	return b
}

// Endpoints sets the requested source and sink codes for the audit entry.
func (b *Builder) Endpoints(sourceCode, sinkCode int32) *Builder {
	b.entry.SourceCode = sourceCode
	b.entry.SinkCode = sinkCode
	return b
}

// PathLength sets the number of hops in the found path.
func (b *Builder) PathLength(n int) *Builder {
	b.entry.PathLength = n
	return b
}

// CacheHit marks whether the result was served from the path cache.
func (b *Builder) CacheHit(hit bool) *Builder {
	b.entry.CacheHit = hit
	return b
}

// Duration sets the duration of the operation in milliseconds for the audit entry.
func (b *Builder) Duration(d time.Duration) *Builder {
	b.entry.DurationMs = d.Milliseconds()
	return b
}

// Error sets the error code and message if the outcome was a failure.
func (b *Builder) Error(code, message string) *Builder {
	b.entry.ErrorCode = code
	b.entry.ErrorMessage = message
	return b
}

// Meta adds a key-value pair to the metadata map of the audit entry.
func (b *Builder) Meta(key string, value any) *Builder {
	b.entry.Metadata[key] = value
	return b
}

// Build finalizes the Entry construction and returns the Entry object.
// It generates a unique ID if one is not already set.
func (b *Builder) Build() *Entry {
	if b.entry.ID == "" {
		b.entry.ID = generateID()
	}
	return b.entry
}

// MarshalJSON customizes the JSON serialization of an Entry.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal((*Alias)(e))
}

// generateID creates a unique ID for an audit entry, combining a timestamp and a random string.
func generateID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random alphanumeric string of a given length.
func randomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}
