package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kitchenbook/kitchenbook/internal/id"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

const (
	recordsDir  = "records"
	recordsFile = "records.csv"

	// maxParallelReads bounds concurrent month-file reads.
	maxParallelReads = 8
)

// FileStore keeps one CSV per month under <root>/records/YYYY/MM/records.csv.
type FileStore struct {
	root   string
	logger *log.Logger
	mu     sync.Mutex
}

// NewFileStore creates a FileStore rooted at a project directory.
func NewFileStore(root string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Discard()
	}
	return &FileStore{root: root, logger: logger.WithComponent(log.ComponentStorage)}
}

// Load reads every month file overlapping rng concurrently and returns the
// records dated within it.
func (s *FileStore) Load(ctx context.Context, rng ledger.DateRange) ([]model.Record, error) {
	if !rng.Valid() {
		return nil, nil
	}

	months, err := s.months()
	if err != nil {
		return nil, err
	}

	var wanted [][2]int
	for _, ym := range months {
		if rng.OverlapsMonth(ym[0], ym[1]) {
			wanted = append(wanted, ym)
		}
	}

	results := make([][]model.Record, len(wanted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, ym := range wanted {
		i, ym := i, ym
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := s.readMonth(ym[0], ym[1])
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Record
	for _, recs := range results {
		for _, rec := range recs {
			if rng.Contains(rec.Date) {
				out = append(out, rec)
			}
		}
	}
	sortByID(out)

	s.logger.DebugContext(ctx, "loaded records",
		log.FieldOperation, log.OpLoad,
		log.FieldRange, rng.String(),
		log.FieldCount, len(out),
		"months", len(wanted))
	return out, nil
}

// LoadMonth returns every record filed under year/month.
func (s *FileStore) LoadMonth(_ context.Context, year, month int) ([]model.Record, error) {
	recs, err := s.readMonth(year, month)
	if err != nil {
		return nil, err
	}
	sortByID(recs)
	return recs, nil
}

// Append writes records to their month files, creating files and headers as
// needed.
func (s *FileStore) Append(ctx context.Context, recs ...model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byMonth := make(map[string][]model.Record)
	var order []string
	for _, rec := range recs {
		path, err := s.pathFor(rec.ID)
		if err != nil {
			return err
		}
		if _, ok := byMonth[path]; !ok {
			order = append(order, path)
		}
		byMonth[path] = append(byMonth[path], rec)
	}

	for _, path := range order {
		if err := appendFile(path, byMonth[path]); err != nil {
			return err
		}
		s.logger.DebugContext(ctx, "appended records",
			log.FieldOperation, log.OpAppend,
			log.FieldPath, path,
			log.FieldCount, len(byMonth[path]))
	}
	return nil
}

// Delete rewrites the record's month file without it.
func (s *FileStore) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	year, month, _, err := id.ParseRecordID(recordID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	recs, err := s.readMonth(year, month)
	if err != nil {
		return err
	}

	kept := recs[:0]
	found := false
	for _, rec := range recs {
		if rec.ID == recordID {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}

	path := s.monthPath(year, month)
	if err := rewriteFile(path, kept); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "deleted record",
		log.FieldOperation, log.OpDelete,
		log.FieldRecordID, recordID,
		log.FieldPath, path)
	return nil
}

func (s *FileStore) readMonth(year, month int) ([]model.Record, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening records %s: %w", path, err)
	}
	defer f.Close()

	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading records %s: %w", path, err)
	}
	return recs, nil
}

// months lists the year/month directories that exist on disk.
func (s *FileStore) months() ([][2]int, error) {
	base := filepath.Join(s.root, recordsDir)
	years, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading records dir: %w", err)
	}

	var out [][2]int
	for _, y := range years {
		year, err := strconv.Atoi(y.Name())
		if !y.IsDir() || err != nil {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(base, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading records dir %s: %w", y.Name(), err)
		}
		for _, m := range monthDirs {
			month, err := strconv.Atoi(m.Name())
			if !m.IsDir() || err != nil || month < 1 || month > 12 {
				continue
			}
			out = append(out, [2]int{year, month})
		}
	}
	return out, nil
}

func (s *FileStore) pathFor(recordID string) (string, error) {
	year, month, _, err := id.ParseRecordID(recordID)
	if err != nil {
		return "", err
	}
	return s.monthPath(year, month), nil
}

func (s *FileStore) monthPath(year, month int) string {
	return filepath.Join(s.root, recordsDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), recordsFile)
}

func appendFile(path string, recs []model.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating records dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening records: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendRecords(f, recs); err != nil {
		return fmt.Errorf("appending records: %w", err)
	}
	return nil
}

// rewriteFile replaces path via a temp file and rename.
func rewriteFile(path string, recs []model.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".records-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRecords(tmp, recs); err != nil {
		tmp.Close()
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func sortByID(recs []model.Record) {
	slices.SortStableFunc(recs, func(a, b model.Record) int { return id.CompareRecordIDs(a.ID, b.ID) })
}
