package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single journal entry
type Entry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Index summarizes the current day's journal
type Index struct {
	Date     string         `json:"date"`
	Entries  int            `json:"entries"`
	Errors   int            `json:"errors"`
	ByAction map[string]int `json:"by_action"`
}

// Logger is an append-only journal logger. Each day is one file of
// JSON lines named YYYY-MM-DD.log.
type Logger struct {
	journalDir string
	mu         sync.Mutex
	now        func() time.Time
}

// NewLogger creates a new journal logger
func NewLogger(journalDir string) (*Logger, error) {
	// Create directory if not exists
	if err := os.MkdirAll(journalDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	return &Logger{
		journalDir: journalDir,
		now:        time.Now,
	}, nil
}

// Log appends an entry to the journal
func (l *Logger) Log(action, status string, details map[string]interface{}, err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		Action:    action,
		Status:    status,
		Details:   details,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	line, jerr := json.Marshal(&entry)
	if jerr != nil {
		return fmt.Errorf("failed to encode entry: %w", jerr)
	}

	f, ferr := os.OpenFile(l.logFile(entry.Timestamp), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		return fmt.Errorf("failed to open log file: %w", ferr)
	}
	defer f.Close()

	if _, werr := f.Write(append(line, '\n')); werr != nil {
		return fmt.Errorf("failed to write to log: %w", werr)
	}

	if ierr := l.updateIndex(&entry); ierr != nil {
		// the entry itself is written; a stale index is rebuilt on the next day
		fmt.Fprintf(os.Stderr, "warning: failed to update index: %v\n", ierr)
	}

	return nil
}

// logFile returns the path to the log file for t's day
func (l *Logger) logFile(t time.Time) string {
	return filepath.Join(l.journalDir, t.Format("2006-01-02")+".log")
}

func (l *Logger) indexFile() string {
	return filepath.Join(l.journalDir, "index.json")
}

// updateIndex updates the daily index
func (l *Logger) updateIndex(e *Entry) error {
	index, err := l.readIndex()
	if err != nil {
		return err
	}

	today := e.Timestamp.Format("2006-01-02")
	if index.Date != today {
		index = &Index{Date: today, ByAction: map[string]int{}}
	}

	index.Entries++
	index.ByAction[e.Action]++
	if e.Status == "error" {
		index.Errors++
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.indexFile(), data, 0644)
}

func (l *Logger) readIndex() (*Index, error) {
	index := &Index{ByAction: map[string]int{}}

	data, err := os.ReadFile(l.indexFile())
	if errors.Is(err, os.ErrNotExist) {
		return index, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, index); err != nil {
		return nil, fmt.Errorf("corrupt journal index: %w", err)
	}
	if index.ByAction == nil {
		index.ByAction = map[string]int{}
	}
	return index, nil
}

// Index returns today's summary. An index left over from an earlier day
// counts nothing for today.
func (l *Logger) Index() (*Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.readIndex()
	if err != nil {
		return nil, err
	}

	today := l.now().Format("2006-01-02")
	if index.Date != today {
		return &Index{Date: today, ByAction: map[string]int{}}, nil
	}
	return index, nil
}

// Last returns the last n entries across all days, oldest first
func (l *Logger) Last(n int) ([]*Entry, error) {
	if n <= 0 {
		return []*Entry{}, nil
	}

	files, err := l.logFiles()
	if err != nil {
		return nil, err
	}

	var result []*Entry
	for i := len(files) - 1; i >= 0 && len(result) < n; i-- {
		entries, err := readEntries(files[i])
		if err != nil {
			return nil, err
		}
		need := n - len(result)
		if len(entries) > need {
			entries = entries[len(entries)-need:]
		}
		result = append(entries, result...)
	}

	if result == nil {
		result = []*Entry{}
	}
	return result, nil
}

// Errors returns all error entries from today
func (l *Logger) Errors() ([]*Entry, error) {
	entries, err := readEntries(l.logFile(l.now().UTC()))
	if err != nil {
		return nil, err
	}

	errs := []*Entry{}
	for _, e := range entries {
		if e.Status == "error" {
			errs = append(errs, e)
		}
	}
	return errs, nil
}

// logFiles lists the daily files in date order
func (l *Logger) logFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(l.journalDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".log") {
			continue
		}
		files = append(files, filepath.Join(l.journalDir, de.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func readEntries(path string) ([]*Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []*Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := []*Entry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		entries = append(entries, &e)
	}
	return entries, scanner.Err()
}
