// Package activity records what each tally command did to a project's
// workbooks in logs/activity-log.csv.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions written by the commands.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionSave   = "save"
	ActionImport = "import"
	ActionReport = "report"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp  time.Time
	Session    string
	Action     string
	Workbook   string
	Details    string
	CommitHash string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,session,action,workbook,details,commit_hash"

const (
	numFields     = 6
	logDir        = "logs"
	logFile       = "logs/activity-log.csv"
	colTimestamp  = 0
	colSession    = 1
	colAction     = 2
	colWorkbook   = 3
	colDetails    = 4
	colCommitHash = 5
)

// NewSession returns an identifier shared by the entries of one command run.
func NewSession() string {
	return uuid.NewString()
}

// Recorder stamps entries with a session and clock.
type Recorder struct {
	Session string
	Now     func() time.Time
}

// NewRecorder returns a Recorder for a fresh session.
func NewRecorder() *Recorder {
	return &Recorder{Session: NewSession(), Now: time.Now}
}

// Entry builds an entry for action on workbook.
func (r *Recorder) Entry(action, workbook, details string) Entry {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Entry{
		Timestamp: now().UTC().Truncate(time.Second),
		Session:   r.Session,
		Action:    action,
		Workbook:  workbook,
		Details:   details,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.Session
	row[colAction] = e.Action
	row[colWorkbook] = e.Workbook
	row[colDetails] = e.Details
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:  ts,
		Session:    record[colSession],
		Action:     record[colAction],
		Workbook:   record[colWorkbook],
		Details:    record[colDetails],
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to <repoRoot>/logs/activity-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/activity-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
