package mocks

import (
	"context"
	"sync"

	"smashroom/infras/otel"
)

// Recorder is an otel.Otel whose scopes keep every error they trace.
type Recorder struct {
	mu     sync.Mutex
	errors []error
	scopes []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, _, name string) (context.Context, otel.Scope) {
	r.mu.Lock()
	r.scopes = append(r.scopes, name)
	r.mu.Unlock()

	return ctx, &recordingScope{recorder: r}
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Errors returns the traced errors in order.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

// Scopes returns the names of the opened scopes in order.
func (r *Recorder) Scopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.scopes...)
}

type recordingScope struct {
	scopeImpl
	recorder *Recorder
}

func (s *recordingScope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	s.recorder.errors = append(s.recorder.errors, err)
	s.recorder.mu.Unlock()
}

func (s *recordingScope) TraceIfError(err error) {
	s.TraceError(err)
}
