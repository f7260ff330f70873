package finance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"
)

// DefaultBackupPrefix names exported backup files.
const DefaultBackupPrefix = "백조_백업"

// ErrMalformedBackup is returned by Restore when the payload is not JSON or
// one of its collections does not parse.
var ErrMalformedBackup = errors.New("malformed backup")

// restoreKeys maps backup file keys to collections, in the order they are
// applied. Settings travel under "settings" in backup files.
var restoreKeys = []struct{ field, key string }{
	{"transactions", KeyTransactions},
	{"cards", KeyCards},
	{"categories", KeyCategories},
	{"settings", KeyUserSettings},
}

// Backup returns a snapshot of every collection. User settings are not part
// of the backup file.
func (s *Store) Backup() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Snapshot{
		Transactions: append([]core.Transaction{}, s.transactions...),
		Cards:        append([]core.Card{}, s.cards...),
		Categories:   append([]core.Category{}, s.categories...),
		BackupDate:   s.now(),
	}
}

// BackupFilename returns "<prefix>_yyyy-MM-dd.json" for the current day.
func (s *Store) BackupFilename(prefix string) string {
	return BackupFilename(prefix, s.now().In(s.loc))
}

func BackupFilename(prefix string, day time.Time) string {
	if prefix == "" {
		prefix = DefaultBackupPrefix
	}
	return prefix + "_" + day.Format("2006-01-02") + ".json"
}

// EncodeSnapshot renders a snapshot as indented JSON.
func EncodeSnapshot(snap core.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// Restore replaces each collection present in data. A payload that is
// valid JSON but not an object restores nothing, and keys that are missing
// or hold an empty value (null, false, 0, "") leave their collection alone.
// Collections are applied in order and each is persisted as soon as it is
// applied, so a failure part way through keeps the earlier ones.
func (s *Store) Restore(ctx context.Context, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformedBackup)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		s.logger.InfoContext(ctx, "Backup has no collections, nothing restored")
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}

	var applied []string
	var err error
	s.mu.Lock()
	for _, rk := range restoreKeys {
		key := rk.key
		msg, ok := raw[rk.field]
		if !ok || isEmptyValue(msg) {
			continue
		}
		var derr error
		if key == KeyTransactions {
			derr = s.restoreTransactionsLocked(msg)
		} else {
			derr = s.decodeLocked(key, msg)
		}
		if derr != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMalformedBackup, key, derr)
			break
		}
		applied = append(applied, key)
		if perr := s.persistLocked(ctx, key); perr != nil {
			err = perr
			break
		}
	}
	s.mu.Unlock()

	for _, key := range applied {
		s.publish(ctx, core.OpRestore, key, "")
	}
	if len(applied) > 0 {
		s.logger.InfoContext(ctx, "Backup restored", "collections", applied)
	}
	return err
}

// backupTransaction reads a transaction whose date may be RFC 3339 or a bare
// YYYY-MM-DD, as hand-edited backup files often carry.
type backupTransaction struct {
	core.Transaction
	Date string `json:"date"`
}

func (s *Store) restoreTransactionsLocked(msg json.RawMessage) error {
	var in []backupTransaction
	if err := json.Unmarshal(msg, &in); err != nil {
		return err
	}
	out := make([]core.Transaction, 0, len(in))
	for i, bt := range in {
		date, err := time.Parse(time.RFC3339Nano, bt.Date)
		if err != nil {
			date, err = time.ParseInLocation("2006-01-02", bt.Date, s.loc)
			if err != nil {
				return fmt.Errorf("transaction %d: invalid date %q", i, bt.Date)
			}
		}
		tx := bt.Transaction
		tx.Date = date
		out = append(out, tx)
	}
	s.transactions = out
	return nil
}

// isEmptyValue reports whether a backup value should be treated as absent.
func isEmptyValue(msg json.RawMessage) bool {
	switch string(bytes.TrimSpace(msg)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}
