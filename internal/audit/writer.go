// internal/audit/writer.go
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	commonErrors "talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/common/logger"
)

// Writer appends audit records as JSON lines, one file per UTC day. Append
// never fails the caller: persistence errors are logged and swallowed so the
// audit path can never affect a returned score.
type Writer struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	logger  logger.Logger
}

// NewWriter creates an audit writer rooted at dir. A disabled writer drops
// records silently.
func NewWriter(dir string, enabled bool, log logger.Logger) *Writer {
	return &Writer{dir: dir, enabled: enabled, logger: log}
}

// Append writes one record to the current day's log file.
func (w *Writer) Append(record Record) {
	if !w.enabled {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.append(record); err != nil {
		stdErr := commonErrors.NewAuditPersistenceFailedError(err)
		w.logger.Error("audit record dropped", map[string]interface{}{
			"recordId": record.ID,
			"code":     string(stdErr.Code),
			"error":    stdErr.Details,
		})
	}
}

func (w *Writer) append(record Record) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(w.dir, w.fileName(record.Timestamp))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return err
}

func (w *Writer) fileName(ts time.Time) string {
	return "audit-" + ts.UTC().Format("2006-01-02") + ".jsonl"
}
