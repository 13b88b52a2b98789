package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DivijChawla/DivijEncrypt/internal/redact"
)

type EventType string

const (
	EventOperationExecuted EventType = "operation_executed"
	EventOperationRejected EventType = "operation_rejected"
	EventPipelineExecuted  EventType = "pipeline_executed"
	EventRecipeSaved       EventType = "recipe_saved"
	EventRecipeDeleted     EventType = "recipe_deleted"
	EventServerLifecycle   EventType = "server_lifecycle"
)

type Decision string

const (
	DecisionInfo  Decision = "info"
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// AuditEvent is one line of the audit trail. Input and output text never
// appear in an event, only names, sizes and reasons.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	EventType EventType      `json:"event_type"`
	Operation string         `json:"operation,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Decision  Decision       `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

type Option func(*config) error

type config struct {
	writers          []io.Writer
	closers          []io.Closer
	useDefaultWriter bool
	level            zerolog.Level
}

func defaultConfig() *config {
	return &config{writers: []io.Writer{os.Stdout}, useDefaultWriter: true, level: zerolog.InfoLevel}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.writers = append(cfg.writers, w)
		return nil
	}
}

func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, f)
		cfg.closers = append(cfg.closers, f)
		return nil
	}
}

// WithSQLite appends every event to the logs table of the SQLite database
// at path, creating it when missing.
func WithSQLite(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("database path cannot be empty")
		}
		w, err := newSQLiteWriter(path)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, w)
		cfg.closers = append(cfg.closers, w)
		return nil
	}
}

func WithoutStdout() Option {
	return func(cfg *config) error {
		cfg.useDefaultWriter = false
		filtered := cfg.writers[:0]
		for _, w := range cfg.writers {
			if w == os.Stdout {
				continue
			}
			filtered = append(filtered, w)
		}
		cfg.writers = filtered
		return nil
	}
}

// WithLevel drops events below level. Rejections are written at warn.
func WithLevel(level string) Option {
	return func(cfg *config) error {
		parsed, err := ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.level = parsed
		return nil
	}
}

type auditCore struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	closers  []io.Closer
	writeErr error
}

// sinkWriter records the first failure of a sink during an Emit so the
// error reaches the caller instead of zerolog's stderr fallback.
type sinkWriter struct {
	w    io.Writer
	core *auditCore
}

func (s sinkWriter) Write(p []byte) (int, error) {
	if _, err := s.w.Write(p); err != nil && s.core.writeErr == nil {
		s.core.writeErr = err
	}
	return len(p), nil
}

type AuditLogger struct {
	component   string
	core        *auditCore
	ownsClosers bool
}

func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, closer := range cfg.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	if !cfg.useDefaultWriter && len(cfg.writers) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}
	core := &auditCore{closers: cfg.closers}
	sinks := make([]io.Writer, len(cfg.writers))
	for i, w := range cfg.writers {
		sinks[i] = sinkWriter{w: w, core: core}
	}
	core.logger = zerolog.New(zerolog.MultiLevelWriter(sinks...)).Level(cfg.level)
	return &AuditLogger{
		component:   component,
		core:        core,
		ownsClosers: true,
	}, nil
}

func MustNewAuditLogger(component string, opts ...Option) *AuditLogger {
	logger, err := NewAuditLogger(component, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// Nop returns a logger that discards every event.
func Nop() *AuditLogger {
	return &AuditLogger{core: &auditCore{logger: zerolog.Nop()}}
}

func (l *AuditLogger) Close() error {
	if l == nil || !l.ownsClosers || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var firstErr error
	for _, closer := range l.core.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.core.closers = nil
	return firstErr
}

func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil {
		return errors.New("nil audit logger")
	}
	if l.core == nil {
		return errors.New("nil audit logger core")
	}
	if event.EventType == "" {
		return errors.New("audit event type is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	event.Reason = redact.String(event.Reason)
	if len(event.Metadata) > 0 {
		event.Metadata = redact.Params(event.Metadata)
	}

	l.core.mu.Lock()
	defer l.core.mu.Unlock()

	var e *zerolog.Event
	if event.Decision == DecisionDeny {
		e = l.core.logger.Warn()
	} else {
		e = l.core.logger.Info()
	}
	e = e.Time("timestamp", event.Timestamp).
		Str("component", event.Component).
		Str("event_type", string(event.EventType))
	if event.Operation != "" {
		e = e.Str("operation", event.Operation)
	}
	if len(event.Metadata) > 0 {
		e = e.Interface("metadata", event.Metadata)
	}
	if event.Decision != "" {
		e = e.Str("decision", string(event.Decision))
	}
	if event.Reason != "" {
		e = e.Str("reason", event.Reason)
	}
	l.core.writeErr = nil
	e.Send()
	if err := l.core.writeErr; err != nil {
		l.core.writeErr = nil
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.core == nil {
		return nil
	}
	return &AuditLogger{
		component:   component,
		core:        l.core,
		ownsClosers: false,
	}
}
