package levels

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/errors"
	"github.com/blockdude2/level-maker/src/internal/hashing"
	"github.com/blockdude2/level-maker/src/internal/utils"
)

const (
	levelFileExt  = ".json"
	levelFileMode = 0644
	levelDirMode  = 0755

	// MessageNotFound is the message of the error returned for missing levels.
	MessageNotFound = "Level not found"
)

// CorruptHandler is called for level files that could not be read or parsed
// while listing. Listing itself never fails because of such files.
type CorruptHandler func(filename string, err error)

// Option configures a Store.
type Option func(*Store)

// WithCorruptHandler installs a diagnostic hook for unreadable level files.
func WithCorruptHandler(h CorruptHandler) Option {
	return func(s *Store) {
		s.onCorrupt = h
	}
}

// WithNamer overrides the level file naming scheme.
func WithNamer(n *Namer) Option {
	return func(s *Store) {
		s.namer = n
	}
}

// Store is a flat directory of JSON level files. It keeps no state besides
// the filesystem; every call reads the directory anew.
type Store struct {
	dir       string
	namer     *Namer
	onCorrupt CorruptHandler
}

// Level is the raw content of a stored level file.
type Level struct {
	Filename string
	Path     string
	Data     []byte
	Checksum string
}

// SaveResult describes a written level file.
type SaveResult struct {
	ID       int
	Filename string
	Path     string
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:   filepath.Clean(dir),
		namer: NewDefaultNamer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromConfig creates a store for the configured levels directory and
// filename template.
func NewStoreFromConfig(cfg *config.Config, opts ...Option) (*Store, error) {
	namer, err := NewNamer(cfg.Storage.FilenameTemplate, cfg.Storage.IDWidth)
	if err != nil {
		return nil, err
	}
	return NewStore(cfg.GetAbsLevelsDir(), append([]Option{WithNamer(namer)}, opts...)...), nil
}

// Dir returns the levels directory.
func (s *Store) Dir() string {
	return s.dir
}

// Filename returns the file name of the level with the given id.
func (s *Store) Filename(id int) string {
	return s.namer.Filename(id)
}

// Path returns the full path of the level with the given id.
func (s *Store) Path(id int) string {
	return filepath.Join(s.dir, s.Filename(id))
}

// IsLevelFile reports whether name looks like a level file.
func IsLevelFile(name string) bool {
	return strings.HasSuffix(name, levelFileExt)
}

// Filenames returns the names of all level files sorted lexicographically.
// A missing directory yields an empty list.
func (s *Store) Filenames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, errors.NewStorageError("failed to read levels directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if IsLevelFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// List returns summaries of all level files sorted by file name. A missing
// directory yields an empty list. Unreadable files are skipped and reported
// to the corrupt handler.
func (s *Store) List() ([]Summary, error) {
	names, err := s.Filenames()
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		summary, err := s.Inspect(name)
		if err != nil {
			s.reportCorrupt(name, err)
			continue
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Inspect reads and summarizes a single level file by name.
func (s *Store) Inspect(filename string) (Summary, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return Summary{}, errors.NewStorageError("failed to read level file", err)
	}
	return ParseSummary(data, filename)
}

// Get returns the raw content of the level with the given id.
func (s *Store) Get(id int) (*Level, error) {
	filename := s.Filename(id)
	path := filepath.Join(s.dir, filename)

	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(MessageNotFound)
		}
		return nil, errors.NewStorageError("failed to open level file", err)
	}
	defer utils.CloseOrWarn(f)

	data, checksum, err := hashing.ReadAllWithChecksum(f)
	if err != nil {
		return nil, errors.NewStorageError("failed to read level file", err)
	}

	return &Level{
		Filename: filename,
		Path:     path,
		Data:     data,
		Checksum: checksum,
	}, nil
}

// Save parses body as a level document and writes it, indented, to the file
// matching its id. An existing file is replaced atomically; the last write
// wins.
func (s *Store) Save(body []byte) (*SaveResult, error) {
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}

	data, err := doc.Indented()
	if err != nil {
		return nil, errors.NewBadRequestError("failed to format level JSON", err)
	}

	if err := os.MkdirAll(s.dir, levelDirMode); err != nil {
		return nil, errors.NewStorageError("failed to create levels directory", err)
	}

	filename := s.Filename(doc.ID)
	path := filepath.Join(s.dir, filename)
	if err := utils.WriteFileAtomic(path, data, levelFileMode); err != nil {
		return nil, errors.NewStorageError("failed to write level file", err)
	}

	return &SaveResult{ID: doc.ID, Filename: filename, Path: path}, nil
}

// Delete removes the level with the given id and returns the removed path.
func (s *Store) Delete(id int) (string, error) {
	path := s.Path(id)

	if !utils.FileExists(path) {
		return "", errors.NewNotFoundError(MessageNotFound)
	}
	if err := os.Remove(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NewNotFoundError(MessageNotFound)
		}
		return "", errors.NewStorageError("failed to delete level file", err)
	}

	return path, nil
}

func (s *Store) reportCorrupt(filename string, err error) {
	if s.onCorrupt != nil {
		s.onCorrupt(filename, err)
	}
}
