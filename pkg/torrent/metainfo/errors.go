package metainfo

import (
	"errors"
	"fmt"
)

// Schema violations found while projecting a decoded value tree into a
// Torrent. The builder fails fast: the first violated check in the fixed
// validation order is the one reported.
var (
	ErrNoTopLevelDictionary = errors.New("metainfo: torrent is not a top-level dictionary")
	ErrNoAnnounceFound      = errors.New("metainfo: no announce key found")
	ErrAnnounceWrongType    = errors.New("metainfo: announce is not a byte string")
	ErrNoInfoFound          = errors.New("metainfo: no info dictionary found")
	ErrInfoWrongType        = errors.New("metainfo: info is not a dictionary")
	ErrNoPieceLengthFound   = errors.New("metainfo: no piece length key found")
	ErrPieceLengthWrongType = errors.New("metainfo: piece length is not an integer")
	ErrNoPiecesFound        = errors.New("metainfo: no pieces key found")
	ErrPiecesWrongType      = errors.New("metainfo: pieces is not a byte string")
	ErrNoNameFound          = errors.New("metainfo: no name key found")
	ErrNameWrongType        = errors.New("metainfo: name is not a byte string")
	ErrLengthWrongType      = errors.New("metainfo: length is not an integer")
	ErrFilesWrongType       = errors.New("metainfo: files is not a list")
	ErrBothLengthFiles      = errors.New("metainfo: both length and files are present")
	ErrNoLengthFiles        = errors.New("metainfo: neither length nor files is present")
	ErrFileWrongType        = errors.New("metainfo: files entry is not a dictionary")
	ErrPathWrongType        = errors.New("metainfo: path is not a list")
	ErrNoPathFound          = errors.New("metainfo: file has no path segments")
	ErrSubdirWrongType      = errors.New("metainfo: path segment is not a byte string")
	ErrBadUTF8String        = errors.New("metainfo: byte string is not valid UTF-8")
)

// UTF8Error reports a text field whose bytes do not form valid UTF-8. Raw
// carries the original bytes untouched; no replacement characters are ever
// substituted.
type UTF8Error struct {
	Raw []byte
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("%v: %q", ErrBadUTF8String, e.Raw)
}

func (e *UTF8Error) Unwrap() error {
	return ErrBadUTF8String
}

// ErrBadFileRead marks a torrent file that could not be read from disk.
var ErrBadFileRead = errors.New("metainfo: bad file read")

// FileError wraps a read failure with the path that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrBadFileRead, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{ErrBadFileRead, e.Err}
}
