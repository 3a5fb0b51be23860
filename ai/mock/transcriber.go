package mock

import "context"

// MockTranscriber is a test double for ai.Transcriber.
// It allows custom behavior injection via function fields.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, returns Transcript verbatim.
	TranscribeFunc func(ctx context.Context, audioPath string) (string, error)

	// Transcript is returned by the default Transcribe when TranscribeFunc is nil.
	Transcript string

	callCount int
	lastPath  string
}

// NewMockTranscriber creates a mock transcriber that returns the given transcript.
// Note: Returns concrete type to allow test assertions.
func NewMockTranscriber(transcript string) *MockTranscriber {
	return &MockTranscriber{Transcript: transcript}
}

// Transcribe records the path and returns the configured transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.callCount++
	m.lastPath = audioPath

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath)
	}
	return m.Transcript, nil
}

// CallCount returns the number of times Transcribe was called.
func (m *MockTranscriber) CallCount() int {
	return m.callCount
}

// LastPath returns the audio path of the most recent call.
func (m *MockTranscriber) LastPath() string {
	return m.lastPath
}
