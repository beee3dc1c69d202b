package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	directoryFileMode = 0o600
	directoryDirMode  = 0o700
	tempFilePattern   = ".directory-*.toml.tmp"
)

// Repository stores the requester directory as one TOML document, replaced
// atomically on every save.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.DirectoryStore = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("directory path is empty")
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Load(ctx context.Context) (domain.DirectorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.DirectorySnapshot{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.DirectorySnapshot{}, err
	}

	return fromSchema(file), nil
}

func (r *Repository) Save(ctx context.Context, snapshot domain.DirectorySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(snapshot))
}

// Apply reads the stored document, folds change into it and writes it back
// under the path lock.
func (r *Repository) Apply(ctx context.Context, change domain.DirectoryChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	snapshot := fromSchema(file)
	if err := snapshot.Apply(change); err != nil {
		return fmt.Errorf("apply directory change: %w", err)
	}

	return r.writeSchema(toSchema(snapshot))
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read directory file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode directory file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve directory path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), directoryDirMode); err != nil {
		return fmt.Errorf("create directory folder: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode directory file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp directory file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp directory file: %w", err)
	}

	if err := tempFile.Chmod(directoryFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp directory file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp directory file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp directory file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace directory file: %w", err)
	}

	cleanup = false

	return nil
}

func toSchema(snapshot domain.DirectorySnapshot) fileSchema {
	file := fileSchema{
		Version:    currentSchemaVersion,
		Requesters: make([]requesterSchema, 0, len(snapshot.Requesters)),
		Banned:     make([]string, 0, len(snapshot.Banned)),
	}

	for id, requester := range snapshot.Requesters {
		file.Requesters = append(file.Requesters, requesterSchema{
			ID:          string(id),
			DisplayName: requester.DisplayName,
			Handle:      requester.Handle,
			JoinedAt:    formatTime(requester.JoinedAt),
		})
	}
	sort.Slice(file.Requesters, func(i, j int) bool { return file.Requesters[i].ID < file.Requesters[j].ID })

	for _, id := range snapshot.Banned {
		file.Banned = append(file.Banned, string(id))
	}
	sort.Strings(file.Banned)

	return file
}

func fromSchema(file fileSchema) domain.DirectorySnapshot {
	snapshot := domain.DirectorySnapshot{
		Requesters: make(map[domain.RequesterID]domain.Requester, len(file.Requesters)),
		Banned:     make([]domain.RequesterID, 0, len(file.Banned)),
	}

	for _, entry := range file.Requesters {
		if entry.ID == "" {
			continue
		}
		id := domain.RequesterID(entry.ID)
		snapshot.Requesters[id] = domain.Requester{
			ID:          id,
			DisplayName: entry.DisplayName,
			Handle:      entry.Handle,
			JoinedAt:    parseTime(entry.JoinedAt),
		}
	}

	for _, id := range file.Banned {
		if id != "" {
			snapshot.Banned = append(snapshot.Banned, domain.RequesterID(id))
		}
	}

	return snapshot
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
