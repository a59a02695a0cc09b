// Package metainfo validates a decoded bencode tree against the BEP0003
// torrent metadata schema and projects it into an immutable Torrent
// descriptor. Construction either fully succeeds or fails with one of the
// package's errors; no partial descriptor is ever returned.
package metainfo

import (
	"os"
	"unicode/utf8"

	"github.com/torro-bt/torro/pkg/torrent/bencode"
)

const pieceHashLen = 20

// Torrent is the validated descriptor for one torrent metadata file.
type Torrent struct {
	// Announce is the tracker URL from the top-level announce key.
	Announce string

	// Name is the advisory save name from the info dictionary.
	Name string

	// PieceLength is the byte size of each fixed-size piece.
	PieceLength int64

	// Pieces holds the 20-byte SHA1 hash of each piece in order. If the raw
	// pieces string is not a multiple of 20 bytes long, the final hash is
	// kept short rather than the file rejected.
	Pieces [][]byte

	// FileStructure is either a SingleFile or a MultiFile.
	FileStructure FileStructure
}

// FileStructure is the file layout of a torrent: a SingleFile when the info
// dictionary carries a length key, a MultiFile when it carries files.
type FileStructure interface {
	fileStructure()
}

// SingleFile is a one-file torrent.
type SingleFile struct {
	// Length of the file in bytes.
	Length int64
}

// MultiFile is a torrent whose payload is a directory of files.
type MultiFile struct {
	Files []FileEntry
}

// FileEntry is one file of a MultiFile torrent.
type FileEntry struct {
	// Length of the file in bytes.
	Length int64

	// Path holds the subdirectory names, the last of which is the file name.
	// Never empty.
	Path []string
}

func (SingleFile) fileStructure() {}
func (MultiFile) fileStructure()  {}

// Build validates v against the torrent metadata schema and assembles the
// descriptor. Checks run in a fixed order (top-level shape, announce, info,
// piece length, pieces, name, length/files exclusivity, per-file validation)
// and the first violation is returned.
func Build(v bencode.Value) (*Torrent, error) {
	dict, ok := v.(*bencode.Dict)
	if !ok {
		return nil, ErrNoTopLevelDictionary
	}

	announce, err := textField(dict, "announce", ErrNoAnnounceFound, ErrAnnounceWrongType)
	if err != nil {
		return nil, err
	}

	infoRaw, ok := dict.Get("info")
	if !ok {
		return nil, ErrNoInfoFound
	}

	info, ok := infoRaw.(*bencode.Dict)
	if !ok {
		return nil, ErrInfoWrongType
	}

	pieceLength, err := pieceLengthField(info)
	if err != nil {
		return nil, err
	}

	piecesRaw, err := byteField(info, "pieces", ErrNoPiecesFound, ErrPiecesWrongType)
	if err != nil {
		return nil, err
	}

	name, err := textField(info, "name", ErrNoNameFound, ErrNameWrongType)
	if err != nil {
		return nil, err
	}

	structure, err := fileStructureField(info)
	if err != nil {
		return nil, err
	}

	return &Torrent{
		Announce:      announce,
		Name:          name,
		PieceLength:   pieceLength,
		Pieces:        splitPieces(piecesRaw),
		FileStructure: structure,
	}, nil
}

// pieceLengthField reads the piece length, falling back to the legacy
// `piece` key used by earlier schema drafts before reporting it missing.
func pieceLengthField(info *bencode.Dict) (int64, error) {
	raw, ok := info.Get("piece length")
	if !ok {
		raw, ok = info.Get("piece")
	}

	if !ok {
		return 0, ErrNoPieceLengthFound
	}

	n, ok := raw.(bencode.Integer)
	if !ok {
		return 0, ErrPieceLengthWrongType
	}

	return int64(n), nil
}

func fileStructureField(info *bencode.Dict) (FileStructure, error) {
	var (
		length    bencode.Integer
		filesList bencode.List
	)

	lengthRaw, hasLength := info.Get("length")
	if hasLength {
		n, ok := lengthRaw.(bencode.Integer)
		if !ok {
			return nil, ErrLengthWrongType
		}

		length = n
	}

	filesRaw, hasFiles := info.Get("files")
	if hasFiles {
		l, ok := filesRaw.(bencode.List)
		if !ok {
			return nil, ErrFilesWrongType
		}

		filesList = l
	}

	switch {
	case hasLength && hasFiles:
		return nil, ErrBothLengthFiles
	case !hasLength && !hasFiles:
		return nil, ErrNoLengthFiles
	case hasLength:
		return SingleFile{Length: int64(length)}, nil
	}

	files := make([]FileEntry, 0, len(filesList))

	for _, raw := range filesList {
		entry, err := fileEntry(raw)
		if err != nil {
			return nil, err
		}

		files = append(files, entry)
	}

	return MultiFile{Files: files}, nil
}

func fileEntry(v bencode.Value) (FileEntry, error) {
	dict, ok := v.(*bencode.Dict)
	if !ok {
		return FileEntry{}, ErrFileWrongType
	}

	lengthRaw, ok := dict.Get("length")
	if !ok {
		return FileEntry{}, ErrNoLengthFiles
	}

	length, ok := lengthRaw.(bencode.Integer)
	if !ok {
		return FileEntry{}, ErrLengthWrongType
	}

	pathRaw, ok := dict.Get("path")
	if !ok {
		return FileEntry{}, ErrNoPathFound
	}

	pathList, ok := pathRaw.(bencode.List)
	if !ok {
		return FileEntry{}, ErrPathWrongType
	}

	if len(pathList) == 0 {
		return FileEntry{}, ErrNoPathFound
	}

	path := make([]string, 0, len(pathList))

	for _, segRaw := range pathList {
		seg, ok := segRaw.(bencode.ByteString)
		if !ok {
			return FileEntry{}, ErrSubdirWrongType
		}

		text, err := decodeText(seg)
		if err != nil {
			return FileEntry{}, err
		}

		path = append(path, text)
	}

	return FileEntry{Length: int64(length), Path: path}, nil
}

func byteField(dict *bencode.Dict, key string, missing, wrongType error) (bencode.ByteString, error) {
	raw, ok := dict.Get(key)
	if !ok {
		return nil, missing
	}

	s, ok := raw.(bencode.ByteString)
	if !ok {
		return nil, wrongType
	}

	return s, nil
}

func textField(dict *bencode.Dict, key string, missing, wrongType error) (string, error) {
	raw, err := byteField(dict, key, missing, wrongType)
	if err != nil {
		return "", err
	}

	return decodeText(raw)
}

// decodeText projects a byte string into a text field. Invalid UTF-8 is an
// error carrying the raw bytes, never silently replaced.
func decodeText(raw bencode.ByteString) (string, error) {
	if !utf8.Valid(raw) {
		return "", &UTF8Error{Raw: append([]byte(nil), raw...)}
	}

	return string(raw), nil
}

// splitPieces partitions the raw pieces string into consecutive 20-byte
// hashes. A trailing remainder shorter than 20 bytes is preserved as a short
// final chunk.
func splitPieces(raw bencode.ByteString) [][]byte {
	pieces := make([][]byte, 0, (len(raw)+pieceHashLen-1)/pieceHashLen)

	for len(raw) > 0 {
		n := pieceHashLen
		if len(raw) < n {
			n = len(raw)
		}

		pieces = append(pieces, []byte(raw[:n]))
		raw = raw[n:]
	}

	return pieces
}

// Parse decodes data and builds the descriptor in one step.
func Parse(data []byte) (*Torrent, error) {
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}

	return Build(v)
}

// Open reads the torrent file at path and parses it. Read failures are
// reported as a *FileError carrying the path; decode and schema failures
// keep their own error kinds.
func Open(path string) (*Torrent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	return Parse(data)
}
