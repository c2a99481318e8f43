package database

import (
	"context"
	"fmt"
	"sync"
)

// mockLogEntry represents a log entry with its message and fields
type mockLogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// mockStore collects entries across derived loggers so that WithFields
// children write into the same history the test inspects
type mockStore struct {
	mu            sync.RWMutex
	infoMessages  []mockLogEntry
	errorMessages []mockLogEntry
	warnMessages  []mockLogEntry
	debugMessages []mockLogEntry
	fatalMessages []mockLogEntry
}

// mockLogger provides a logger implementation for testing
type mockLogger struct {
	store  *mockStore
	fields map[string]interface{}
}

// newMockLogger creates a new mock logger instance
func newMockLogger() *mockLogger {
	return &mockLogger{
		store:  &mockStore{},
		fields: make(map[string]interface{}),
	}
}

// LogInfo implements Logger interface
func (m *mockLogger) LogInfo(msg string, fields map[string]interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.infoMessages = append(m.store.infoMessages, mockLogEntry{Message: msg, Fields: m.mergeFields(fields)})
}

// LogError implements Logger interface
func (m *mockLogger) LogError(err error, msg string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.store.errorMessages = append(m.store.errorMessages, mockLogEntry{Message: msg, Fields: m.mergeFields(fields)})
	return err
}

// LogErrorf implements Logger interface
func (m *mockLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return m.LogError(err, fmt.Sprintf(format, args...))
}

// LogWarn implements Logger interface
func (m *mockLogger) LogWarn(message string, fields map[string]interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.warnMessages = append(m.store.warnMessages, mockLogEntry{Message: message, Fields: m.mergeFields(fields)})
}

// LogDebug implements Logger interface
func (m *mockLogger) LogDebug(message string, fields map[string]interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.debugMessages = append(m.store.debugMessages, mockLogEntry{Message: message, Fields: m.mergeFields(fields)})
}

// LogFatal implements Logger interface
func (m *mockLogger) LogFatal(err error, context string) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	fields := map[string]interface{}{
		"context": context,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.store.fatalMessages = append(m.store.fatalMessages, mockLogEntry{Message: "FATAL: " + context, Fields: m.mergeFields(fields)})
}

// WithContext implements Logger interface
func (m *mockLogger) WithContext(ctx context.Context) Logger {
	return m.WithFields(nil)
}

// WithFields creates a new logger with the given fields, sharing the
// underlying message history
func (m *mockLogger) WithFields(fields map[string]interface{}) Logger {
	return &mockLogger{
		store:  m.store,
		fields: m.mergeFields(fields),
	}
}

// WithRequestID implements Logger interface
func (m *mockLogger) WithRequestID(requestID string) Logger {
	return m.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}

// GetInfoMessages returns all info level messages
func (m *mockLogger) GetInfoMessages() []mockLogEntry {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.infoMessages
}

// GetErrorMessages returns all error level messages
func (m *mockLogger) GetErrorMessages() []mockLogEntry {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.errorMessages
}

// GetWarnMessages returns all warning level messages
func (m *mockLogger) GetWarnMessages() []mockLogEntry {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.warnMessages
}

// GetDebugMessages returns all debug level messages
func (m *mockLogger) GetDebugMessages() []mockLogEntry {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.debugMessages
}

// ClearMessages clears all logged messages
func (m *mockLogger) ClearMessages() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.infoMessages = nil
	m.store.errorMessages = nil
	m.store.warnMessages = nil
	m.store.debugMessages = nil
	m.store.fatalMessages = nil
}

// mergeFields merges the logger's base fields with the provided fields
func (m *mockLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}
