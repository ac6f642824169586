// Package csvstore persists account snapshots as a CSV file, one row per
// account. It is the default backend: a flat file next to the binary, loaded
// at startup and rewritten on every checkpoint.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/domain/account"
)

const dateLayout = "2006-01-02"

var header = []string{
	"Account Number",
	"Account Holder Name",
	"Balance",
	"Account Type",
	"Is Active",
	"Opening Date",
	"Closing Date",
}

// Store reads and writes the account CSV file. Holder names containing commas
// round-trip correctly because rows go through a real CSV codec with quoting.
type Store struct {
	path   string
	logger *slog.Logger
}

func New(logger *slog.Logger, path string) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads every account row from the file. A missing file is not an error;
// it yields an empty result, matching the first run of a fresh install. Rows
// with an empty or literal "null" account number are skipped, and rows with an
// unrecognized type string are dropped with a warning.
func (s *Store) Load(ctx context.Context) ([]account.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Account file does not exist, starting empty", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open account file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	snapshots := make([]account.Snapshot, 0, len(records)-1)
	for i, rec := range records[1:] {
		snap, err := s.parseRow(rec)
		if err != nil {
			s.logger.Warn("Dropping unreadable account row", "line", i+2, "error", err)
			continue
		}
		if snap == nil {
			continue
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, nil
}

// parseRow converts one CSV record to a snapshot. A nil, nil return means the
// row is skipped silently (empty or "null" account number).
func (s *Store) parseRow(rec []string) (*account.Snapshot, error) {
	number := rec[0]
	if number == "" || number == "null" {
		return nil, nil
	}

	typ, err := account.ParseType(rec[3])
	if err != nil {
		return nil, err
	}

	balance, err := decimal.NewFromString(rec[2])
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", rec[2], err)
	}

	active, err := parseBool(rec[4])
	if err != nil {
		return nil, err
	}

	opening, err := parseDate(rec[5])
	if err != nil {
		return nil, fmt.Errorf("invalid opening date: %w", err)
	}

	snap := &account.Snapshot{
		Number:      number,
		HolderName:  rec[1],
		Balance:     balance,
		Type:        typ,
		Active:      active,
		OpeningDate: opening,
	}
	if rec[6] != "" {
		closing, err := parseDate(rec[6])
		if err != nil {
			return nil, fmt.Errorf("invalid closing date: %w", err)
		}
		snap.ClosingDate = &closing
	}
	return snap, nil
}

// Save rewrites the whole file from the given snapshots. The write goes to a
// temporary file in the same directory first, then renames over the target,
// so a crash mid-write never leaves a truncated account file.
func (s *Store) Save(ctx context.Context, snapshots []account.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary account file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write account file header: %w", err)
	}
	for _, snap := range snapshots {
		if err := w.Write(formatRow(snap)); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write account row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush account file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary account file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace account file: %w", err)
	}
	return nil
}

func formatRow(snap account.Snapshot) []string {
	closing := ""
	if snap.ClosingDate != nil {
		closing = snap.ClosingDate.Format(dateLayout)
	}
	return []string{
		snap.Number,
		snap.HolderName,
		snap.Balance.StringFixed(2),
		string(snap.Type),
		fmt.Sprintf("%t", snap.Active),
		snap.OpeningDate.Format(dateLayout),
		closing,
	}
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid active flag %q", s)
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
