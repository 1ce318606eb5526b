package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

var (
	ErrNotFound = errors.New("batch not found")
	ErrBadName  = errors.New("malformed batch name")
)

const (
	namePrefix = "cds_scorecards_"
	nameStamp  = "20060102T150405Z"
	nameSuffix = ".json"
)

// batchNameRe is the only shape Get will open. Anything else (traversal
// attempts included) is rejected before touching the filesystem.
var batchNameRe = regexp.MustCompile(`^cds_scorecards_\d{8}T\d{6}Z\.json$`)

// BatchName derives the canonical file name for a batch generated at t.
// Lexicographic order of names equals chronological order, which makes
// "latest" a pure string-max over directory entries.
func BatchName(t time.Time) string {
	return namePrefix + t.UTC().Format(nameStamp) + nameSuffix
}

// ValidBatchName reports whether name matches the canonical pattern.
func ValidBatchName(name string) bool {
	return batchNameRe.MatchString(name)
}

// FileStore persists batches as JSON files in a single directory, one file
// per batch, named by BatchName. History is append-only.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Publish writes the batch under its canonical name and returns that name.
// The write goes to a temp file in the same directory and is renamed into
// place, so a concurrent reader never observes a partial batch. Publishing
// a second batch with the same generated_at second is refused.
func (s *FileStore) Publish(batch *models.Batch) (string, error) {
	name := BatchName(batch.GeneratedAt)
	final := filepath.Join(s.dir, name)

	if _, err := os.Stat(final); err == nil {
		return "", fmt.Errorf("batch %s already published", name)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat batch file: %w", err)
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp batch file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp batch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp batch file: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize batch file: %w", err)
	}

	s.logger.Info("Batch published",
		zap.String("name", name),
		zap.Int("patients", len(batch.Items)))
	return name, nil
}

// names returns all well-formed batch names, newest first. Stray files in
// the directory are ignored.
func (s *FileStore) names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && ValidBatchName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Latest returns the most recent readable batch and its name. A batch file
// that fails to read or parse is skipped with a warning and the next-most-
// recent one is tried. ErrNotFound means no readable batch exists, which
// on a fresh deployment is the normal state, not a fault.
func (s *FileStore) Latest() (*models.Batch, string, error) {
	names, err := s.names()
	if err != nil {
		return nil, "", err
	}
	for _, name := range names {
		batch, err := s.read(name)
		if err != nil {
			s.logger.Warn("Skipping unreadable batch file",
				zap.String("name", name),
				zap.Error(err))
			continue
		}
		return batch, name, nil
	}
	return nil, "", ErrNotFound
}

// Get returns the batch published under exactly name. Names that do not
// match the canonical pattern are refused with ErrBadName before any
// filesystem access.
func (s *FileStore) Get(name string) (*models.Batch, error) {
	if !ValidBatchName(name) {
		return nil, ErrBadName
	}
	return s.read(name)
}

// FindPatient looks the patient up in the latest batch only; historical
// batches are not searched.
func (s *FileStore) FindPatient(patientID string) (*models.Scorecard, error) {
	batch, _, err := s.Latest()
	if err != nil {
		return nil, err
	}
	for i := range batch.Items {
		if batch.Items[i].PatientID == patientID {
			return &batch.Items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) read(name string) (*models.Batch, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read batch file %s: %w", name, err)
	}
	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", name, err)
	}
	return &batch, nil
}
