// Package audit keeps an append-only JSONL history of CLI scan runs.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redactyl/drcscan/internal/report"
	"github.com/redactyl/drcscan/internal/types"
)

const topN = 10

type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	Units          int              `json:"units"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	EntryCounts    map[string]int   `json:"entry_counts"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	CatalogVersion string           `json:"catalog_version"`
	CatalogDigest  string           `json:"catalog_digest"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Location string `json:"location"`
	Report   string `json:"report"`
	Line     int    `json:"line"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".drcscan_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "drcscan_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// maxRecordBytes bounds a single JSONL line.
const maxRecordBytes = 4 << 20

// LoadHistory returns all readable records, newest first. Lines that do not
// decode are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var record ScanRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = uuid.NewString()
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// Catalog identifies the catalog a scan ran with.
type Catalog struct {
	Version string
	Digest  string
}

func CreateScanRecord(
	root string,
	all []types.UnitResult,
	fresh []types.UnitResult,
	filesScanned int,
	duration time.Duration,
	cat Catalog,
	baselineFile string,
) ScanRecord {
	entryCounts := make(map[string]int)
	for _, it := range report.Flatten(all) {
		entry := it.Finding.Entry
		if entry == "" {
			entry = it.Finding.Name
		}
		entryCounts[entry]++
	}

	freshItems := report.Flatten(fresh)
	topFindings := make([]FindingSummary, 0, topN)
	for i, it := range freshItems {
		if i >= topN {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Location: it.Location,
			Report:   it.Finding.Name,
			Line:     it.Line,
		})
	}

	total := report.Count(all)
	return ScanRecord{
		Timestamp:      time.Now(),
		ScanID:         uuid.NewString(),
		Root:           root,
		Units:          len(all),
		TotalFindings:  total,
		NewFindings:    len(freshItems),
		BaselinedCount: total - len(freshItems),
		EntryCounts:    entryCounts,
		FilesScanned:   filesScanned,
		Duration:       duration.String(),
		CatalogVersion: cat.Version,
		CatalogDigest:  cat.Digest,
		BaselineFile:   baselineFile,
		TopFindings:    topFindings,
	}
}
