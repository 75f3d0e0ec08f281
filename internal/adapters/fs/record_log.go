package fs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bft-labs/swimset/internal/domain"
)

// RecordLog implements ports.RecordSink by appending one JSON object per line.
type RecordLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenRecordLog opens (or creates) the log at path for appending.
func OpenRecordLog(path string) (*RecordLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open record log: %w", err)
	}
	return &RecordLog{path: path, file: f}, nil
}

// Append writes the record as a single line.
func (l *RecordLog) Append(r domain.Record) error {
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("write record log: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *RecordLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ReadRecordLog reads every record from a log written by RecordLog.
// A missing file yields no records.
func ReadRecordLog(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []domain.Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r domain.Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return records, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		records = append(records, r)
	}
	return records, sc.Err()
}
