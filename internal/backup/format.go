package backup

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"strconv"
	"strings"
	"time"
)

type Format string

const (
	FormatNative Format = "native"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatXML    Format = "xml"
)

var Formats = []Format{FormatNative, FormatJSON, FormatCSV, FormatXML}

func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "db" || s == "sqlite" {
		return FormatNative, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", &domain.ValidationError{Field: "format", Reason: "unknown backup format " + s}
}

func (f Format) Extension() string {
	if f == FormatNative {
		return "db"
	}
	return string(f)
}

// FileName builds starcraft_backup_YYYYMMDD_HHMMSS.<ext> in local time.
func FileName(f Format, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", constants.BackupFilePrefix, at.Local().Format(constants.BackupTimestamp), f.Extension())
}

func writeJSON(w io.Writer, ds *domain.Dataset, exportedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(ds, exportedAt)); err != nil {
		return fmt.Errorf("failed to encode JSON backup: %w", err)
	}
	return nil
}

// quote always wraps s in double quotes and doubles embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeCSV(w io.Writer, ds *domain.Dataset) error {
	aliases := make(map[int64]string, len(ds.Players))
	for _, p := range ds.Players {
		aliases[p.ID] = p.Alias
	}
	mapNames := make(map[int64]string, len(ds.Maps))
	for _, m := range ds.Maps {
		mapNames[m.ID] = m.Name
	}

	bw := bufio.NewWriter(w)
	line := func(fields ...string) {
		bw.WriteString(strings.Join(fields, ","))
		bw.WriteString("\n")
	}
	id := func(v int64) string { return strconv.FormatInt(v, 10) }

	line("=== PLAYERS ===")
	line("ID", "Alias", "Country", "PrimaryRace")
	for _, p := range ds.Players {
		line(id(p.ID), quote(p.Alias), quote(domain.Deref(p.Country)), quote(domain.Deref(p.PrimaryRace)))
	}
	line()

	line("=== MAPS ===")
	line("ID", "Name")
	for _, m := range ds.Maps {
		line(id(m.ID), quote(m.Name))
	}
	line()

	line("=== SERIES ===")
	line("ID", "Modality", "Date", "PlayerA", "PlayerB")
	for _, s := range ds.Series {
		line(id(s.ID), quote(s.Modality), s.Date.Local().Format("2006-01-02"), quote(aliases[s.PlayerAID]), quote(aliases[s.PlayerBID]))
	}
	line()

	line("=== GAMES ===")
	line("ID", "Series", "Map", "RaceA", "RaceB", "Winner", "Date")
	for _, g := range ds.Games {
		line(
			id(g.ID),
			id(g.SeriesID),
			quote(mapNames[g.MapID]),
			quote(domain.Deref(g.RaceA)),
			quote(domain.Deref(g.RaceB)),
			quote(aliases[g.WinnerID]),
			g.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write CSV backup: %w", err)
	}
	return nil
}

type xmlBackup struct {
	XMLName    xml.Name   `xml:"StarcraftBackup"`
	ExportedAt string     `xml:"exportedAt,attr"`
	Version    string     `xml:"version,attr"`
	Players    xmlPlayers `xml:"Players"`
	Maps       xmlMaps    `xml:"Maps"`
	Series     xmlSeries  `xml:"Series"`
	Games      xmlGames   `xml:"Games"`
}

type xmlPlayers struct {
	Items []xmlPlayer `xml:"Player"`
}

type xmlPlayer struct {
	ID           int64  `xml:"id,attr"`
	Alias        string `xml:"Alias"`
	Country      string `xml:"Country"`
	PrimaryRace  string `xml:"PrimaryRace"`
	RegisteredAt string `xml:"RegisteredAt"`
}

type xmlMaps struct {
	Items []xmlMap `xml:"Map"`
}

type xmlMap struct {
	ID   int64  `xml:"id,attr"`
	Name string `xml:"Name"`
}

type xmlSeries struct {
	Items []xmlSerie `xml:"Serie"`
}

type xmlSerie struct {
	ID        int64  `xml:"id,attr"`
	Modality  string `xml:"Modality"`
	Date      string `xml:"Date"`
	PlayerAID int64  `xml:"PlayerAId"`
	PlayerBID int64  `xml:"PlayerBId"`
}

type xmlGames struct {
	Items []xmlGame `xml:"Game"`
}

type xmlGame struct {
	ID        int64  `xml:"id,attr"`
	SeriesID  int64  `xml:"SeriesId"`
	MapID     int64  `xml:"MapId"`
	RaceA     string `xml:"RaceA"`
	RaceB     string `xml:"RaceB"`
	WinnerID  int64  `xml:"WinnerId"`
	CreatedAt string `xml:"CreatedAt"`
}

func writeXML(w io.Writer, ds *domain.Dataset, exportedAt time.Time) error {
	doc := xmlBackup{
		ExportedAt: exportedAt.Format(time.RFC3339),
		Version:    constants.BackupFormatVersion,
	}
	for _, p := range ds.Players {
		doc.Players.Items = append(doc.Players.Items, xmlPlayer{
			ID:           p.ID,
			Alias:        p.Alias,
			Country:      domain.Deref(p.Country),
			PrimaryRace:  domain.Deref(p.PrimaryRace),
			RegisteredAt: p.RegisteredAt.Format(time.RFC3339),
		})
	}
	for _, m := range ds.Maps {
		doc.Maps.Items = append(doc.Maps.Items, xmlMap{ID: m.ID, Name: m.Name})
	}
	for _, s := range ds.Series {
		doc.Series.Items = append(doc.Series.Items, xmlSerie{
			ID:        s.ID,
			Modality:  s.Modality,
			Date:      s.Date.Format(time.RFC3339),
			PlayerAID: s.PlayerAID,
			PlayerBID: s.PlayerBID,
		})
	}
	for _, g := range ds.Games {
		doc.Games.Items = append(doc.Games.Items, xmlGame{
			ID:        g.ID,
			SeriesID:  g.SeriesID,
			MapID:     g.MapID,
			RaceA:     domain.Deref(g.RaceA),
			RaceB:     domain.Deref(g.RaceB),
			WinnerID:  g.WinnerID,
			CreatedAt: g.CreatedAt.Format(time.RFC3339),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
