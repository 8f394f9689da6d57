package index

import (
	"bytes"
	stdbinary "encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"boolsearch/pkg/utils/binary"
	"boolsearch/pkg/utils/sys"
)

// Artifact file names under the output directory.
const (
	IndexArtifact  = "index"
	BigramArtifact = "bigrams"
)

const (
	KindIndex  uint32 = 1
	KindBigram uint32 = 2
)

// An artifact is a single file: a fixed header, the entries section,
// a gob dict mapping keys to entry offsets, an optional gob stats
// section, and an xxhash64 footer over dict and stats.
//
//	[0:64]    header
//	[64:...]  entries (length-prefixed key + tagged values each)
//	[...]     dict, stats
//	[last 8]  checksum
const (
	artifactMagic   uint32 = 0x31585342 // "BSX1"
	artifactVersion uint32 = 1
	headerSize             = 64
	footerSize             = 8
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrCorruptArtifact  = errors.New("corrupt artifact")
	ErrWrongArtifact    = errors.New("wrong artifact kind")
)

// ArtifactWriter builds an artifact in a temp file and renames it over
// the final path on Finish, so readers only ever see complete files.
type ArtifactWriter struct {
	kind    uint32
	f       *os.File
	bufw    *binary.BufferedWriteCloser
	bw      *binary.ByteWriter
	dict    map[string]int64
	entries int
	path    string
	done    bool
}

func NewArtifactWriter(dir, name string, kind uint32) (*ArtifactWriter, error) {
	if err := sys.EnsureDir(dir); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, name+".tmp-")
	if err != nil {
		return nil, err
	}

	w := &ArtifactWriter{
		kind: kind,
		f:    f,
		bufw: binary.NewBufferedWriteCloser(f),
		dict: map[string]int64{},
		path: filepath.Join(dir, name),
	}
	w.bw = binary.NewByteWriter(w.bufw)

	// Reserve the header; it is patched in on Finish.
	if _, err := w.bufw.Write(make([]byte, headerSize)); err != nil {
		w.Abort()
		return nil, err
	}

	return w, nil
}

func (w *ArtifactWriter) append(key string, write func() error) error {
	if _, ok := w.dict[key]; ok {
		return fmt.Errorf("duplicate entry %q", key)
	}
	w.dict[key] = int64(w.bufw.Total() - headerSize)
	w.entries++
	return write()
}

func (w *ArtifactWriter) AppendPostings(tp TermPostings) error {
	return w.append(tp.Term, func() error { return WriteTermPostings(w.bw, tp) })
}

func (w *ArtifactWriter) AppendTermList(tl TermList) error {
	return w.append(tl.Key, func() error { return WriteTermList(w.bw, tl) })
}

// Finish writes dict, stats and footer, patches the header and moves
// the artifact to its final path. stats may be nil.
func (w *ArtifactWriter) Finish(stats *BuildStats) error {
	entriesSize := int64(w.bufw.Total() - headerSize)

	var dictBuf bytes.Buffer
	if err := gob.NewEncoder(&dictBuf).Encode(w.dict); err != nil {
		return err
	}
	var statsBuf bytes.Buffer
	if stats != nil {
		if err := gob.NewEncoder(&statsBuf).Encode(stats); err != nil {
			return err
		}
	}

	digest := xxhash.New()
	digest.Write(dictBuf.Bytes())
	digest.Write(statsBuf.Bytes())

	if _, err := w.bufw.Write(dictBuf.Bytes()); err != nil {
		return err
	}
	if _, err := w.bufw.Write(statsBuf.Bytes()); err != nil {
		return err
	}
	var footer [footerSize]byte
	stdbinary.LittleEndian.PutUint64(footer[:], digest.Sum64())
	if _, err := w.bufw.Write(footer[:]); err != nil {
		return err
	}
	if err := w.bufw.Flush(); err != nil {
		return err
	}

	dictOff := headerSize + entriesSize
	statsOff := dictOff + int64(dictBuf.Len())

	hdr := make([]byte, headerSize)
	stdbinary.LittleEndian.PutUint32(hdr[0:4], artifactMagic)
	stdbinary.LittleEndian.PutUint32(hdr[4:8], artifactVersion)
	stdbinary.LittleEndian.PutUint32(hdr[8:12], w.kind)
	stdbinary.LittleEndian.PutUint32(hdr[12:16], uint32(w.entries))
	stdbinary.LittleEndian.PutUint64(hdr[16:24], uint64(entriesSize))
	stdbinary.LittleEndian.PutUint64(hdr[24:32], uint64(dictOff))
	stdbinary.LittleEndian.PutUint64(hdr[32:40], uint64(dictBuf.Len()))
	stdbinary.LittleEndian.PutUint64(hdr[40:48], uint64(statsOff))
	stdbinary.LittleEndian.PutUint64(hdr[48:56], uint64(statsBuf.Len()))

	if _, err := w.f.WriteAt(hdr, 0); err != nil {
		return err
	}
	if err := w.f.Sync(); err != nil {
		return err
	}
	if err := w.f.Close(); err != nil {
		return err
	}

	w.done = true
	return os.Rename(w.f.Name(), w.path)
}

// Abort drops the temp file. Safe to call after Finish.
func (w *ArtifactWriter) Abort() {
	if w.done {
		return
	}
	w.f.Close()
	os.Remove(w.f.Name())
}

// Artifact is the read-side view: header fields plus the decoded dict
// and stats. Entry lookups read from a caller-owned file handle so
// concurrent readers do not share a seek offset.
type Artifact struct {
	Path    string
	Kind    uint32
	Entries int
	Dict    map[string]int64
	Stats   *BuildStats

	entriesOff int64
}

func OpenArtifact(path string, kind uint32) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run the indexer first)", ErrArtifactNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return nil, fmt.Errorf("%w: %s: short header", ErrCorruptArtifact, path)
	}

	magic := stdbinary.LittleEndian.Uint32(hdr[0:4])
	version := stdbinary.LittleEndian.Uint32(hdr[4:8])
	fileKind := stdbinary.LittleEndian.Uint32(hdr[8:12])
	entries := stdbinary.LittleEndian.Uint32(hdr[12:16])
	entriesSize := int64(stdbinary.LittleEndian.Uint64(hdr[16:24]))
	dictOff := int64(stdbinary.LittleEndian.Uint64(hdr[24:32]))
	dictSize := int64(stdbinary.LittleEndian.Uint64(hdr[32:40]))
	statsOff := int64(stdbinary.LittleEndian.Uint64(hdr[40:48]))
	statsSize := int64(stdbinary.LittleEndian.Uint64(hdr[48:56]))

	if magic != artifactMagic {
		return nil, fmt.Errorf("%w: %s: bad magic", ErrCorruptArtifact, path)
	}
	if version != artifactVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorruptArtifact, path, version)
	}
	if fileKind != kind {
		return nil, fmt.Errorf("%w: %s: kind %d, want %d", ErrWrongArtifact, path, fileKind, kind)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if dictOff != headerSize+entriesSize || statsOff != dictOff+dictSize ||
		fi.Size() != statsOff+statsSize+footerSize {
		return nil, fmt.Errorf("%w: %s: bad section layout", ErrCorruptArtifact, path)
	}

	tail := make([]byte, dictSize+statsSize+footerSize)
	if _, err := f.ReadAt(tail, dictOff); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArtifact, path, err)
	}
	dictBytes := tail[:dictSize]
	statsBytes := tail[dictSize : dictSize+statsSize]
	sum := stdbinary.LittleEndian.Uint64(tail[dictSize+statsSize:])

	digest := xxhash.New()
	digest.Write(dictBytes)
	digest.Write(statsBytes)
	if digest.Sum64() != sum {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrCorruptArtifact, path)
	}

	a := &Artifact{
		Path:       path,
		Kind:       fileKind,
		Entries:    int(entries),
		entriesOff: headerSize,
	}
	if err := gob.NewDecoder(bytes.NewReader(dictBytes)).Decode(&a.Dict); err != nil {
		return nil, fmt.Errorf("%w: %s: dict: %v", ErrCorruptArtifact, path, err)
	}
	if statsSize > 0 {
		a.Stats = &BuildStats{}
		if err := gob.NewDecoder(bytes.NewReader(statsBytes)).Decode(a.Stats); err != nil {
			return nil, fmt.Errorf("%w: %s: stats: %v", ErrCorruptArtifact, path, err)
		}
	}

	return a, nil
}

// Open returns a fresh handle for entry reads.
func (a *Artifact) Open() (*os.File, error) {
	return os.Open(a.Path)
}

func (a *Artifact) PostingsAt(f *os.File, off int64) (TermPostings, error) {
	if _, err := f.Seek(a.entriesOff+off, io.SeekStart); err != nil {
		return TermPostings{}, err
	}
	return ReadTermPostings(binary.NewBufferedByteReader(f))
}

func (a *Artifact) TermListAt(f *os.File, off int64) (TermList, error) {
	if _, err := f.Seek(a.entriesOff+off, io.SeekStart); err != nil {
		return TermList{}, err
	}
	return ReadTermList(binary.NewBufferedByteReader(f))
}
