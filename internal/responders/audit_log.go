package responders

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/svcerrors"
)

// AuditAlert is the subset of an alert worth keeping in the audit trail.
type AuditAlert struct {
	Method  string              `json:"method"`
	Region  string              `json:"region"`
	ASN     int                 `json:"asn"`
	Metrics models.AlertMetrics `json:"metrics"`
	Z       models.AlertZScores `json:"z"`
}

// AuditEntry is one line of the response audit trail. Every classification
// that cleared the confidence floor is recorded, acted upon or not.
type AuditEntry struct {
	Timestamp      int64                  `json:"timestamp"`
	Classification *models.Classification `json:"classification"`
	Alert          AuditAlert             `json:"alert"`
	AutoBlock      bool                   `json:"auto_block"`
	DryRun         bool                   `json:"dry_run"`
}

//go:generate mockgen -source=audit_log.go -destination=./mocks/audit_log_mock.go -package=mocks

// AuditLog appends response decisions to durable storage.
type AuditLog interface {
	Append(ctx context.Context, entry *AuditEntry) *svcerrors.ServiceError
}

type fileAuditLog struct {
	path string

	mu sync.Mutex
}

// NewFileAuditLog appends JSONL entries to path, creating parent directories
// on first use.
func NewFileAuditLog(path string) AuditLog {
	return &fileAuditLog{path: path}
}

func (l *fileAuditLog) Append(_ context.Context, entry *AuditEntry) *svcerrors.ServiceError {
	line, err := json.Marshal(entry)
	if err != nil {
		return errAuditAppendFailed(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errAuditAppendFailed(err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errAuditAppendFailed(err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return errAuditAppendFailed(err)
	}
	return nil
}
