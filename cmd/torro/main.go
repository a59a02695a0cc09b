package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/torro-bt/torro/internal/config"
	"github.com/torro-bt/torro/internal/logger"
	"github.com/torro-bt/torro/internal/repository"
	"github.com/torro-bt/torro/pkg/torrent/bencode"
	"github.com/torro-bt/torro/pkg/torrent/metainfo"
)

const usage = `usage: torro [flags] <command>

commands:
  inspect <file>  parse a torrent file and print its descriptor
  add <file>      parse a torrent file and store it in the library
  list            print every torrent in the library

flags are described by 'torro -h'.
`

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogging(cfg.Debug, cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logging: %v\n", err)
	}
	defer logger.Close()

	if err := run(cfg); err != nil {
		logger.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)

		// os.Exit skips the deferred Close, so close here
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("no command given")
	}

	switch cmd := args[0]; cmd {
	case "inspect":
		if len(args) != 2 {
			return errors.New("inspect takes exactly one torrent file")
		}

		return inspect(args[1])
	case "add":
		if len(args) != 2 {
			return errors.New("add takes exactly one torrent file")
		}

		return add(cfg, args[1])
	case "list":
		return list(cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func inspect(path string) error {
	tor, err := metainfo.Open(path)
	if err != nil {
		return describeError(err)
	}

	logger.Debugf("parsed %s: %d pieces", path, len(tor.Pieces))
	fmt.Print(renderTorrent(tor))

	return nil
}

func add(cfg *config.Config, path string) error {
	tor, err := metainfo.Open(path)
	if err != nil {
		return describeError(err)
	}

	repo, err := repository.NewBoltDBRepository(cfg.LibraryPath)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer repo.Close()

	rec := repository.NewRecord(path, tor)
	if err := repo.Save(rec); err != nil {
		return fmt.Errorf("save torrent: %w", err)
	}

	logger.Infof("added %s to library as %s", path, rec.ID)
	fmt.Printf("added %q (%s)\n", rec.Name, rec.ID)

	return nil
}

func list(cfg *config.Config) error {
	repo, err := repository.NewBoltDBRepository(cfg.LibraryPath)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer repo.Close()

	records, err := repo.FindAll()
	if err != nil {
		return fmt.Errorf("read library: %w", err)
	}

	fmt.Print(renderRecords(records))

	return nil
}

// describeError turns codec, schema and file-read failures into the messages
// shown to the user. The byte offset is surfaced when one is known.
func describeError(err error) error {
	var fileErr *metainfo.FileError
	if errors.As(err, &fileErr) {
		return fmt.Errorf("could not read torrent file %s: %w", fileErr.Path, fileErr.Err)
	}

	var syntaxErr *bencode.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("torrent file is not valid bencode: %w", syntaxErr)
	}

	switch {
	case errors.Is(err, bencode.ErrEmptyInput):
		return errors.New("torrent file is empty")
	case errors.Is(err, bencode.ErrMultipleValues):
		return errors.New("torrent file has data after the top-level value")
	case errors.Is(err, bencode.ErrUnorderedDictionary):
		return errors.New("torrent file has an out-of-order dictionary")
	default:
		return fmt.Errorf("invalid torrent file: %w", err)
	}
}
