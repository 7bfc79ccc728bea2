// Package worker holds the audit log the event worker appends consumed
// expense events to, one JSON document per line.
package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chitieu/internal/amqp"
)

type AuditLog struct {
	mu   sync.Mutex
	file *os.File
}

func NewAuditLog(path string) (*AuditLog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &AuditLog{file: file}, nil
}

// Record appends one event line. Safe for concurrent use.
func (a *AuditLog) Record(msg *amqp.ExpenseEventMessage) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
