// internal/store/history.go
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/commentwatch/internal/types"
)

// ReportLog is a JSONL append-only log of scan reports, one line per run.
type ReportLog struct {
	path string
	mu   sync.Mutex
}

// NewReportLog creates a file-backed report log at the given file path.
func NewReportLog(path string) *ReportLog {
	return &ReportLog{path: path}
}

// Append adds one report to the log.
func (l *ReportLog) Append(report *types.ScanReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open reports file: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Tail returns the last limit reports, oldest first.
func (l *ReportLog) Tail(limit int) ([]*types.ScanReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tail(limit)
}

// Last returns the most recent report, or nil when no scan has run yet.
func (l *ReportLog) Last() (*types.ScanReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reports, err := l.tail(1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return reports[0], nil
}

func (l *ReportLog) tail(limit int) ([]*types.ScanReport, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open reports file: %w", err)
	}
	defer f.Close()

	var reports []*types.ScanReport
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var report types.ScanReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan reports file: %w", err)
	}

	if limit > 0 && len(reports) > limit {
		reports = reports[len(reports)-limit:]
	}
	return reports, nil
}
