package snapfile

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/chainmap-go/pkg/chainmap"
	"github.com/yndnr/chainmap-go/pkg/seal"
)

const (
	filePrefix    = "table-"
	fileExtension = ".snap"
	checksumSize  = 32

	DefaultRetentionCount = 5
	DefaultRetentionDays  = 7
)

var (
	ErrInvalidMagic     = errors.New("snapfile: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapfile: checksum mismatch")
	ErrNoSnapshots      = errors.New("snapfile: no snapshots available")
	ErrSealerRequired   = errors.New("snapfile: snapshot is sealed and no sealer is configured")
	ErrVersion          = errors.New("snapfile: unsupported snapshot version")
)

// Config configures a Manager.
type Config struct {
	// Dir is the snapshot directory; it is created if missing.
	Dir string

	// RetentionCount and RetentionDays bound Prune. Zero values take
	// the defaults; the newest snapshot always survives.
	RetentionCount int
	RetentionDays  int

	// Sealer, when set, seals the body of every written snapshot and
	// opens sealed bodies on load.
	Sealer seal.Sealer
}

// DefaultConfig returns a Config with the default retention policy.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
		RetentionDays:  DefaultRetentionDays,
	}
}

// Manager writes, loads, lists and prunes snapshot files for one table
// type.
type Manager[K, V any] struct {
	cfg     Config
	entropy io.Reader
}

// NewManager creates a manager over cfg.Dir.
func NewManager[K, V any](cfg Config) (*Manager[K, V], error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapfile: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("snapfile: create dir: %w", err)
	}
	if cfg.RetentionCount == 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	return &Manager[K, V]{
		cfg: cfg,
		// Monotonic entropy keeps IDs minted in the same millisecond
		// in write order.
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Info is snapshot file metadata.
type Info struct {
	ID          string `json:"id"`
	BucketCount int    `json:"bucket_count"`
	EntryCount  int    `json:"entry_count"`
	CreatedAt   int64  `json:"created_at"`
	Encrypted   bool   `json:"encrypted"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
	Checksum    string `json:"checksum"`
}

// Write persists a snapshot to a new file and returns its metadata.
// The file is written to a temp path, synced, then renamed into place,
// so a crash mid-write never leaves a half snapshot under the final
// name.
func (m *Manager[K, V]) Write(s chainmap.Snapshot[K, V]) (*Info, error) {
	now := time.Now()
	id := m.newID(now)

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("snapfile: create temp file: %w", err)
	}
	defer os.Remove(tempPath)

	sum := sha256.New()
	w := io.MultiWriter(file, sum)

	if _, err := w.Write(magicBytes); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapfile: write magic: %w", err)
	}

	hdr := header{
		Version:     wireVersion,
		CreatedAt:   now.UnixMilli(),
		BucketCount: len(s.Buckets),
		EntryCount:  s.Len,
		Encrypted:   m.cfg.Sealer != nil,
	}
	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapfile: marshal header: %w", err)
	}
	if err := writeBlock(w, hdrJSON); err != nil {
		file.Close()
		return nil, err
	}

	body, err := encodeBuckets(s)
	if err != nil {
		file.Close()
		return nil, err
	}
	if m.cfg.Sealer != nil {
		// The header is bound as additional data so a sealed body
		// cannot be replayed under a doctored header.
		body, err = m.cfg.Sealer.Seal(body, hdrJSON)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("snapfile: seal body: %w", err)
		}
	}
	if err := writeBlock(w, body); err != nil {
		file.Close()
		return nil, err
	}

	// Checksum trailer, not part of the hashed range.
	digest := sum.Sum(nil)
	if _, err := file.Write(digest); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapfile: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapfile: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapfile: close: %w", err)
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		return nil, err
	}
	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("snapfile: rename: %w", err)
	}

	return &Info{
		ID:          id,
		BucketCount: hdr.BucketCount,
		EntryCount:  hdr.EntryCount,
		CreatedAt:   hdr.CreatedAt,
		Encrypted:   hdr.Encrypted,
		Size:        stat.Size(),
		Path:        finalPath,
		Checksum:    hex.EncodeToString(digest),
	}, nil
}

func writeBlock(w io.Writer, block []byte) error {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(block)))
	if _, err := w.Write(n[:]); err != nil {
		return fmt.Errorf("snapfile: write block length: %w", err)
	}
	if _, err := w.Write(block); err != nil {
		return fmt.Errorf("snapfile: write block: %w", err)
	}
	return nil
}

// Load returns the snapshot from the newest valid file, falling back
// past files with bad magic or checksums to older ones.
func (m *Manager[K, V]) Load() (chainmap.Snapshot[K, V], *Info, error) {
	infos, err := m.List()
	if err != nil {
		return chainmap.Snapshot[K, V]{}, nil, err
	}
	for i := len(infos) - 1; i >= 0; i-- {
		s, info, err := m.loadFile(infos[i].Path, true)
		if err == nil {
			return s, info, nil
		}
		if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidMagic) {
			continue
		}
		return chainmap.Snapshot[K, V]{}, nil, err
	}
	return chainmap.Snapshot[K, V]{}, nil, ErrNoSnapshots
}

// Inspect verifies a snapshot file and returns its metadata without
// decoding the body, so sealed snapshots can be examined without the
// key.
func (m *Manager[K, V]) Inspect(path string) (*Info, error) {
	_, info, err := m.loadFile(path, false)
	return info, err
}

func (m *Manager[K, V]) loadFile(path string, decodeBody bool) (chainmap.Snapshot[K, V], *Info, error) {
	var zero chainmap.Snapshot[K, V]

	f, err := os.Open(path)
	if err != nil {
		return zero, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return zero, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+checksumSize {
		return zero, nil, ErrChecksumMismatch
	}

	// Verify the trailer before trusting anything else.
	hashedLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, hashedLen, checksumSize), expected); err != nil {
		return zero, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, hashedLen), hashedLen); err != nil {
		return zero, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return zero, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, hashedLen))

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(br, magic); err != nil {
		return zero, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return zero, nil, ErrInvalidMagic
	}

	hdrJSON, err := readBlock(br)
	if err != nil {
		return zero, nil, err
	}
	var hdr header
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return zero, nil, fmt.Errorf("snapfile: unmarshal header: %w", err)
	}
	if hdr.Version != wireVersion {
		return zero, nil, fmt.Errorf("%w: %d", ErrVersion, hdr.Version)
	}

	info := &Info{
		ID:          strings.TrimSuffix(filepath.Base(path), fileExtension),
		BucketCount: hdr.BucketCount,
		EntryCount:  hdr.EntryCount,
		CreatedAt:   hdr.CreatedAt,
		Encrypted:   hdr.Encrypted,
		Size:        stat.Size(),
		Path:        path,
		Checksum:    hex.EncodeToString(expected),
	}
	if !decodeBody {
		return zero, info, nil
	}

	body, err := readBlock(br)
	if err != nil {
		return zero, nil, err
	}
	switch {
	case hdr.Encrypted && m.cfg.Sealer == nil:
		return zero, nil, ErrSealerRequired
	case hdr.Encrypted:
		body, err = m.cfg.Sealer.Open(body, hdrJSON)
		if err != nil {
			return zero, nil, fmt.Errorf("snapfile: open body: %w", err)
		}
	case m.cfg.Sealer != nil:
		return zero, nil, fmt.Errorf("snapfile: expected sealed snapshot: %s", path)
	}

	s, err := decodeBuckets[K, V](body, hdr.EntryCount)
	if err != nil {
		return zero, nil, err
	}
	return s, info, nil
}

func readBlock(r io.Reader) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("snapfile: read block length: %w", err)
	}
	block := make([]byte, binary.BigEndian.Uint32(n[:]))
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("snapfile: read block: %w", err)
	}
	return block, nil
}

// List returns snapshot files oldest first, metadata from the
// filesystem only.
func (m *Manager[K, V]) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)

	var infos []*Info
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			ID:   strings.TrimSuffix(filepath.Base(p), fileExtension),
			Path: p,
			Size: stat.Size(),
		})
	}
	return infos, nil
}

// Prune deletes snapshots outside the retention policy: the newest
// RetentionCount files and anything modified within RetentionDays are
// kept, and the newest file survives unconditionally.
func (m *Manager[K, V]) Prune() (int, error) {
	infos, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(infos) <= 1 {
		return 0, nil
	}

	keep := make(map[string]struct{}, len(infos))
	if m.cfg.RetentionCount > 0 {
		start := len(infos) - m.cfg.RetentionCount
		if start < 0 {
			start = 0
		}
		for _, info := range infos[start:] {
			keep[info.Path] = struct{}{}
		}
	}
	if m.cfg.RetentionDays > 0 {
		cutoff := time.Now().Add(-time.Duration(m.cfg.RetentionDays) * 24 * time.Hour)
		for _, info := range infos {
			st, err := os.Stat(info.Path)
			if err != nil {
				continue
			}
			if st.ModTime().After(cutoff) {
				keep[info.Path] = struct{}{}
			}
		}
	}
	keep[infos[len(infos)-1].Path] = struct{}{}

	removed := 0
	for _, info := range infos {
		if _, ok := keep[info.Path]; ok {
			continue
		}
		if err := os.Remove(info.Path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// newID builds a ULID-based file ID; ULIDs embed the timestamp, so
// lexical order is creation order.
func (m *Manager[K, V]) newID(t time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(t), m.entropy)
	return filePrefix + strings.ToLower(id.String())
}
