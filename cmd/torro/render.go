package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/torro-bt/torro/internal/repository"
	"github.com/torro-bt/torro/pkg/torrent/metainfo"
)

var (
	gruvboxFg     = lipgloss.Color("#ebdbb2")
	gruvboxYellow = lipgloss.Color("#fabd2f")
	gruvboxAqua   = lipgloss.Color("#8ec07c")
	gruvboxGray   = lipgloss.Color("#928374")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(gruvboxYellow)

	labelStyle = lipgloss.NewStyle().
			Foreground(gruvboxAqua).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(gruvboxFg)

	dimStyle = lipgloss.NewStyle().
			Foreground(gruvboxGray)
)

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func renderTorrent(tor *metainfo.Torrent) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(tor.Name) + "\n")
	b.WriteString(row("announce", tor.Announce))
	b.WriteString(row("piece length", fmt.Sprintf("%d bytes", tor.PieceLength)))
	b.WriteString(row("pieces", fmt.Sprintf("%d", len(tor.Pieces))))

	switch fs := tor.FileStructure.(type) {
	case metainfo.SingleFile:
		b.WriteString(row("file size", fmt.Sprintf("%d bytes", fs.Length)))
	case metainfo.MultiFile:
		b.WriteString(row("files", fmt.Sprintf("%d", len(fs.Files))))

		for _, f := range fs.Files {
			entry := fmt.Sprintf("%s (%d bytes)", strings.Join(f.Path, "/"), f.Length)
			b.WriteString("  " + dimStyle.Render(entry) + "\n")
		}
	}

	return b.String()
}

func renderRecords(records []*repository.Record) string {
	if len(records) == 0 {
		return dimStyle.Render("library is empty") + "\n"
	}

	var b strings.Builder

	for _, rec := range records {
		summary := fmt.Sprintf("%d files, %d bytes, added %s",
			rec.FileCount, rec.TotalSize, rec.AddedAt.Format("2006-01-02"))

		b.WriteString(titleStyle.Render(rec.Name) + "\n")
		b.WriteString(row("id", rec.ID.String()))
		b.WriteString(row("source", rec.Source))
		b.WriteString(row("summary", summary))
	}

	return b.String()
}
