package metainfo_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/torro-bt/torro/pkg/torrent/bencode"
	"github.com/torro-bt/torro/pkg/torrent/metainfo"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"top-level-int", "i64e", metainfo.ErrNoTopLevelDictionary},
		{"top-level-list", "ldee", metainfo.ErrNoTopLevelDictionary},

		{
			"announce-wrong-type",
			"d8:announcei0e12:piece lengthi0e6:pieces0:e",
			metainfo.ErrAnnounceWrongType,
		},
		{
			"no-announce",
			"d4:infod6:lengthi0e4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrNoAnnounceFound,
		},
		{"no-info", "d8:announce0:e", metainfo.ErrNoInfoFound},
		{"info-wrong-type", "d8:announce0:4:infoi0ee", metainfo.ErrInfoWrongType},
		{
			"no-piece-length",
			"d8:announce0:4:infod6:lengthi0e4:name4:test6:pieces0:ee",
			metainfo.ErrNoPieceLengthFound,
		},
		{
			"piece-length-wrong-type",
			"d8:announce0:4:infod12:piece length5:wrong6:pieces0:ee",
			metainfo.ErrPieceLengthWrongType,
		},
		{
			"no-pieces",
			"d8:announce0:4:infod6:lengthi0e4:name4:test12:piece lengthi0eee",
			metainfo.ErrNoPiecesFound,
		},
		{
			"pieces-wrong-type",
			"d8:announce0:4:infod12:piece lengthi0e6:piecesi0eee",
			metainfo.ErrPiecesWrongType,
		},
		{
			"no-name",
			"d8:announce0:4:infod6:lengthi0e12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrNoNameFound,
		},
		{
			"name-wrong-type",
			"d8:announce0:4:infod6:lengthi0e4:namei0e12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrNameWrongType,
		},
		{
			"length-wrong-type",
			"d8:announce0:4:infod6:length0:4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrLengthWrongType,
		},
		{
			"files-wrong-type",
			"d8:announce0:4:infod5:filesi0e4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrFilesWrongType,
		},
		{
			"both-length-files",
			"d8:announce0:4:infod5:filesle6:lengthi0e4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrBothLengthFiles,
		},
		{
			"neither-length-files",
			"d8:announce0:4:infod4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrNoLengthFiles,
		},
		{
			"file-entry-wrong-type",
			"d8:announce0:4:infod5:filesli0ee4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrFileWrongType,
		},
		{
			"file-length-wrong-type",
			"d8:announce0:4:infod5:filesld6:length0:4:pathl1:aeee4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrLengthWrongType,
		},
		{
			"file-path-wrong-type",
			"d8:announce0:4:infod5:filesld6:lengthi0e4:pathi0eee4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrPathWrongType,
		},
		{
			"file-path-empty",
			"d8:announce0:4:infod5:filesld6:lengthi0e4:pathleee4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrNoPathFound,
		},
		{
			"file-path-segment-wrong-type",
			"d8:announce0:4:infod5:filesld6:lengthi0e4:pathli0eeee4:name4:test12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrSubdirWrongType,
		},
		{
			"name-bad-utf8",
			"d8:announce0:4:infod6:lengthi0e4:name2:\xff\xfe12:piece lengthi0e6:pieces0:ee",
			metainfo.ErrBadUTF8String,
		},
		{"decode-failure", "d8:announce0:4:info", bencode.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metainfo.Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseMinimalSingleFile(t *testing.T) {
	input := "d8:announce0:4:infod6:lengthi0e4:name4:test12:piece lengthi0e6:pieces0:ee"

	tor, err := metainfo.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tor.Announce != "" {
		t.Errorf("Announce = %q, want empty", tor.Announce)
	}

	if tor.Name != "test" {
		t.Errorf("Name = %q, want %q", tor.Name, "test")
	}

	if tor.PieceLength != 0 {
		t.Errorf("PieceLength = %d, want 0", tor.PieceLength)
	}

	if len(tor.Pieces) != 0 {
		t.Errorf("Pieces = %v, want none", tor.Pieces)
	}

	if tor.FileStructure != (metainfo.SingleFile{Length: 0}) {
		t.Errorf("FileStructure = %#v, want SingleFile{0}", tor.FileStructure)
	}
}

func TestParseSingleFile(t *testing.T) {
	input := "d8:announce29:udp://tracker.example.com:8044:infod6:lengthi1024e4:name8:file.txt12:piece lengthi512e6:pieces20:aaaaaaaaaaaaaaaaaaaaee"

	tor, err := metainfo.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tor.Announce != "udp://tracker.example.com:804" {
		t.Errorf("Announce = %q", tor.Announce)
	}

	if tor.Name != "file.txt" {
		t.Errorf("Name = %q", tor.Name)
	}

	if tor.PieceLength != 512 {
		t.Errorf("PieceLength = %d", tor.PieceLength)
	}

	if len(tor.Pieces) != 1 || !bytes.Equal(tor.Pieces[0], []byte(strings.Repeat("a", 20))) {
		t.Errorf("Pieces = %v", tor.Pieces)
	}

	if tor.FileStructure != (metainfo.SingleFile{Length: 1024}) {
		t.Errorf("FileStructure = %#v", tor.FileStructure)
	}
}

func TestParseMultiFile(t *testing.T) {
	input := "d8:announce0:4:infod5:filesld6:lengthi1024e4:pathl3:dir9:file1.txteed6:lengthi2048e4:pathl9:file2.txteee4:name8:test_dir12:piece lengthi512e6:pieces20:aaaaaaaaaaaaaaaaaaaaee"

	tor, err := metainfo.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := metainfo.MultiFile{Files: []metainfo.FileEntry{
		{Length: 1024, Path: []string{"dir", "file1.txt"}},
		{Length: 2048, Path: []string{"file2.txt"}},
	}}

	if !reflect.DeepEqual(tor.FileStructure, want) {
		t.Errorf("FileStructure = %#v, want %#v", tor.FileStructure, want)
	}
}

// The legacy `piece` key from earlier schema drafts is accepted when
// `piece length` is absent.
func TestParsePieceKeyFallback(t *testing.T) {
	input := "d8:announce0:4:infod6:lengthi0e4:name4:test5:piecei16384e6:pieces0:ee"

	tor, err := metainfo.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tor.PieceLength != 16384 {
		t.Errorf("PieceLength = %d, want 16384", tor.PieceLength)
	}
}

func TestParsePiecesSplitting(t *testing.T) {
	tests := []struct {
		name     string
		rawLen   int
		wantLens []int
	}{
		{"empty", 0, nil},
		{"exact-one", 20, []int{20}},
		{"exact-two", 40, []int{20, 20}},
		{"short-tail", 50, []int{20, 20, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Repeat("h", tt.rawLen)
			input := fmt.Sprintf("d8:announce0:4:infod6:lengthi0e4:name4:test12:piece lengthi1e6:pieces%d:%see", tt.rawLen, raw)

			tor, err := metainfo.Parse([]byte(input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if len(tor.Pieces) != len(tt.wantLens) {
				t.Fatalf("got %d pieces, want %d", len(tor.Pieces), len(tt.wantLens))
			}

			for i, want := range tt.wantLens {
				if len(tor.Pieces[i]) != want {
					t.Errorf("piece %d has length %d, want %d", i, len(tor.Pieces[i]), want)
				}
			}
		})
	}
}

func TestParseBadUTF8Payload(t *testing.T) {
	input := "d8:announce2:\xc3\x284:infod6:lengthi0e4:name4:test12:piece lengthi0e6:pieces0:ee"

	_, err := metainfo.Parse([]byte(input))
	if !errors.Is(err, metainfo.ErrBadUTF8String) {
		t.Fatalf("error = %v, want %v", err, metainfo.ErrBadUTF8String)
	}

	var utf8Err *metainfo.UTF8Error
	if !errors.As(err, &utf8Err) {
		t.Fatalf("error lacks *UTF8Error: %v", err)
	}

	if !bytes.Equal(utf8Err.Raw, []byte{0xc3, 0x28}) {
		t.Errorf("Raw = %v, want the original bytes", utf8Err.Raw)
	}
}

func TestBuildRejectsNonDict(t *testing.T) {
	_, err := metainfo.Build(bencode.Integer(12))
	if !errors.Is(err, metainfo.ErrNoTopLevelDictionary) {
		t.Fatalf("error = %v, want %v", err, metainfo.ErrNoTopLevelDictionary)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.torrent")

	data := []byte("d8:announce0:4:infod6:lengthi42e4:name4:tiny12:piece lengthi16384e6:pieces0:ee")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tor, err := metainfo.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if tor.Name != "tiny" || tor.FileStructure != (metainfo.SingleFile{Length: 42}) {
		t.Errorf("descriptor = %#v", tor)
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.torrent")

	_, err := metainfo.Open(path)
	if !errors.Is(err, metainfo.ErrBadFileRead) {
		t.Fatalf("error = %v, want %v", err, metainfo.ErrBadFileRead)
	}

	var fileErr *metainfo.FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("error lacks *FileError: %v", err)
	}

	if fileErr.Path != path {
		t.Errorf("Path = %q, want %q", fileErr.Path, path)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not wrap the underlying read failure: %v", err)
	}
}
