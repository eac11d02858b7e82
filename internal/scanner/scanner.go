// Package scanner lists backup archives from tier directories and
// reconstructs per-backup metadata from filenames and file attributes.
package scanner

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tbrooke/backup-monitor/internal/domain"
)

const (
	// ArchiveExt is the only file extension considered a backup archive.
	ArchiveExt = ".tar.gz"

	// timestampLayout parses the YYYYMMDD_HHMMSS filename substring.
	timestampLayout = "20060102_150405"
)

// timestampPattern locates an 8-digit-date underscore 6-digit-time
// substring anywhere in a filename, e.g. "alfresco_20250902_235538.tar.gz".
var timestampPattern = regexp.MustCompile(`(\d{8}_\d{6})`)

// Scanner builds BackupRecord collections from tier directories.
type Scanner struct {
	minSizeMB   float64
	maxAgeHours float64
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// New creates a Scanner. minSizeMB and maxAgeHours are the per-record
// health thresholds.
func New(minSizeMB, maxAgeHours float64, opts ...Option) *Scanner {
	s := &Scanner{
		minSizeMB:   minSizeMB,
		maxAgeHours: maxAgeHours,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan lists the archives of one tier directory, most recent first.
//
// A missing or unreadable directory yields an empty slice, never an
// error: a tier may legitimately have no backups yet, and a transient
// read failure must not abort the whole run. Files whose names carry
// no parseable timestamp still participate, but sort strictly after
// every record that did parse, keyed by mtime, so a corrupted filename
// can never masquerade as the freshest backup.
//
// evalTime is the single evaluation instant of the run; all ages are
// computed against it.
func (s *Scanner) Scan(dir string, typ domain.BackupType, evalTime time.Time) []domain.BackupRecord {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("backup directory does not exist", "dir", dir, "type", typ)
		} else {
			s.logger.Warn("backup directory unreadable", "dir", dir, "type", typ, "error", err)
		}
		return nil
	}

	records := make([]domain.BackupRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArchiveExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable backup file",
				"file", entry.Name(), "type", typ, "error", err)
			continue
		}

		rec := domain.BackupRecord{
			Filename:        entry.Name(),
			Path:            filepath.Join(dir, entry.Name()),
			Type:            typ,
			SizeBytes:       info.Size(),
			LastModified:    info.ModTime(),
			ParsedTimestamp: s.parseTimestamp(entry.Name()),
		}

		rec.AgeHours = evalTime.Sub(rec.EffectiveTime()).Hours()
		rec.Healthy = rec.SizeMB() > s.minSizeMB && rec.AgeHours < s.maxAgeHours

		records = append(records, rec)
	}

	sortRecords(records)
	return records
}

// parseTimestamp extracts the filename timestamp, interpreted in the
// local system time zone. A missing or malformed substring is a
// per-file condition, not a scan failure.
func (s *Scanner) parseTimestamp(name string) *time.Time {
	match := timestampPattern.FindString(name)
	if match == "" {
		s.logger.Debug("backup filename carries no timestamp", "file", name)
		return nil
	}

	ts, err := time.ParseInLocation(timestampLayout, match, time.Local)
	if err != nil {
		s.logger.Debug("backup filename timestamp unparseable",
			"file", name, "match", match, "error", err)
		return nil
	}

	return &ts
}

// sortRecords orders records most recent first. Records with a parsed
// timestamp always precede records without one.
func sortRecords(records []domain.BackupRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.ParsedTimestamp != nil && b.ParsedTimestamp != nil:
			return a.ParsedTimestamp.After(*b.ParsedTimestamp)
		case a.ParsedTimestamp != nil:
			return true
		case b.ParsedTimestamp != nil:
			return false
		default:
			return a.LastModified.After(b.LastModified)
		}
	})
}
