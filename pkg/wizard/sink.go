package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Submission is the record handed to a Sink.
type Submission struct {
	Identity    string            `json:"identity"`
	FormID      string            `json:"formId,omitempty"`
	FormTitle   string            `json:"formTitle"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Values      *model.ValueStore `json:"values"`
}

// Sink receives completed submissions.
type Sink interface {
	Submit(ctx context.Context, sub Submission) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, sub Submission) error

// Submit calls the underlying function.
func (fn SinkFunc) Submit(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// LogSink writes each submission as one structured log line.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Submit(ctx context.Context, sub Submission) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "form submitted",
		"identity", sub.Identity,
		"form", sub.FormTitle,
		"fields", sub.Values.Len(),
		"values", sub.Values.Map(),
	)
	return nil
}

// WriterSink encodes each submission as a JSON line on W.
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w}
}

func (s *WriterSink) Submit(_ context.Context, sub Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("wizard: encode submission: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.W.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("wizard: write submission: %w", err)
	}
	return nil
}

// MultiSink fans a submission out to several sinks, stopping at the first
// error.
type MultiSink []Sink

func (m MultiSink) Submit(ctx context.Context, sub Submission) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Submit(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}
