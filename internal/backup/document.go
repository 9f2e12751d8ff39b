package backup

import (
	"fmt"
	"starcraft-tracker/internal/constants"
	"starcraft-tracker/internal/domain"
	"strings"
	"time"
)

// Document is the JSON interchange format. Relations are carried as ids.
type Document struct {
	ExportedAt time.Time      `json:"exportedAt"`
	Version    string         `json:"version"`
	Players    []PlayerRecord `json:"players"`
	Maps       []MapRecord    `json:"maps"`
	Series     []SeriesRecord `json:"series"`
	Games      []GameRecord   `json:"games"`
}

type PlayerRecord struct {
	ID           int64     `json:"id"`
	Alias        string    `json:"alias"`
	Country      *string   `json:"country"`
	PrimaryRace  *string   `json:"primaryRace"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type MapRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SeriesRecord struct {
	ID        int64     `json:"id"`
	PlayerAID int64     `json:"playerAId"`
	PlayerBID int64     `json:"playerBId"`
	Date      time.Time `json:"date"`
	Modality  string    `json:"modality"`
}

type GameRecord struct {
	ID        int64     `json:"id"`
	SeriesID  int64     `json:"seriesId"`
	MapID     int64     `json:"mapId"`
	RaceA     *string   `json:"raceA"`
	RaceB     *string   `json:"raceB"`
	WinnerID  int64     `json:"winnerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func newDocument(ds *domain.Dataset, exportedAt time.Time) *Document {
	doc := &Document{
		ExportedAt: exportedAt,
		Version:    constants.BackupFormatVersion,
		Players:    make([]PlayerRecord, len(ds.Players)),
		Maps:       make([]MapRecord, len(ds.Maps)),
		Series:     make([]SeriesRecord, len(ds.Series)),
		Games:      make([]GameRecord, len(ds.Games)),
	}
	for i, p := range ds.Players {
		doc.Players[i] = PlayerRecord{
			ID:           p.ID,
			Alias:        p.Alias,
			Country:      p.Country,
			PrimaryRace:  racePtr(p.PrimaryRace),
			RegisteredAt: p.RegisteredAt,
		}
	}
	for i, m := range ds.Maps {
		doc.Maps[i] = MapRecord{ID: m.ID, Name: m.Name}
	}
	for i, s := range ds.Series {
		doc.Series[i] = SeriesRecord{
			ID:        s.ID,
			PlayerAID: s.PlayerAID,
			PlayerBID: s.PlayerBID,
			Date:      s.Date,
			Modality:  s.Modality,
		}
	}
	for i, g := range ds.Games {
		doc.Games[i] = GameRecord{
			ID:        g.ID,
			SeriesID:  g.SeriesID,
			MapID:     g.MapID,
			RaceA:     racePtr(g.RaceA),
			RaceB:     racePtr(g.RaceB),
			WinnerID:  g.WinnerID,
			CreatedAt: g.CreatedAt,
		}
	}
	return doc
}

func racePtr(r *domain.Race) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func formatErr(format string, args ...any) error {
	return &domain.FormatError{Reason: fmt.Sprintf(format, args...)}
}

// Dataset checks every invariant the database would enforce and converts
// the document. Nothing is written when it fails.
func (doc *Document) Dataset() (*domain.Dataset, error) {
	if doc.Version != "" && doc.Version != constants.BackupFormatVersion {
		return nil, formatErr("unsupported version %q", doc.Version)
	}

	ds := &domain.Dataset{
		Players: make([]domain.Player, 0, len(doc.Players)),
		Maps:    make([]domain.Map, 0, len(doc.Maps)),
		Series:  make([]domain.Series, 0, len(doc.Series)),
		Games:   make([]domain.Game, 0, len(doc.Games)),
	}

	players := make(map[int64]struct{}, len(doc.Players))
	aliases := make(map[string]struct{}, len(doc.Players))
	for _, p := range doc.Players {
		if _, dup := players[p.ID]; dup {
			return nil, formatErr("duplicate player id %d", p.ID)
		}
		alias := strings.TrimSpace(p.Alias)
		if alias == "" {
			return nil, formatErr("player %d has an empty alias", p.ID)
		}
		key := domain.FoldKey(alias)
		if _, dup := aliases[key]; dup {
			return nil, formatErr("duplicate player alias %q", alias)
		}
		race, err := parseRace(p.PrimaryRace)
		if err != nil {
			return nil, formatErr("player %d: %v", p.ID, err)
		}
		players[p.ID] = struct{}{}
		aliases[key] = struct{}{}
		ds.Players = append(ds.Players, domain.Player{
			ID:           p.ID,
			Alias:        alias,
			Country:      trimmed(p.Country),
			PrimaryRace:  race,
			RegisteredAt: p.RegisteredAt,
		})
	}

	maps := make(map[int64]struct{}, len(doc.Maps))
	names := make(map[string]struct{}, len(doc.Maps))
	for _, m := range doc.Maps {
		if _, dup := maps[m.ID]; dup {
			return nil, formatErr("duplicate map id %d", m.ID)
		}
		name := strings.TrimSpace(m.Name)
		if len([]rune(name)) < constants.MinMapNameLength {
			return nil, formatErr("map %d name %q is too short", m.ID, name)
		}
		key := domain.FoldKey(name)
		if _, dup := names[key]; dup {
			return nil, formatErr("duplicate map name %q", name)
		}
		maps[m.ID] = struct{}{}
		names[key] = struct{}{}
		ds.Maps = append(ds.Maps, domain.Map{ID: m.ID, Name: name})
	}

	series := make(map[int64]domain.Series, len(doc.Series))
	for _, s := range doc.Series {
		if _, dup := series[s.ID]; dup {
			return nil, formatErr("duplicate series id %d", s.ID)
		}
		if s.PlayerAID == s.PlayerBID {
			return nil, formatErr("series %d has the same player on both sides", s.ID)
		}
		for _, id := range []int64{s.PlayerAID, s.PlayerBID} {
			if _, ok := players[id]; !ok {
				return nil, formatErr("series %d references unknown player %d", s.ID, id)
			}
		}
		modality := strings.TrimSpace(s.Modality)
		if modality == "" {
			return nil, formatErr("series %d has an empty modality", s.ID)
		}
		item := domain.Series{
			ID:        s.ID,
			PlayerAID: s.PlayerAID,
			PlayerBID: s.PlayerBID,
			Date:      s.Date,
			Modality:  modality,
		}
		series[s.ID] = item
		ds.Series = append(ds.Series, item)
	}

	games := make(map[int64]struct{}, len(doc.Games))
	for _, g := range doc.Games {
		if _, dup := games[g.ID]; dup {
			return nil, formatErr("duplicate game id %d", g.ID)
		}
		parent, ok := series[g.SeriesID]
		if !ok {
			return nil, formatErr("game %d references unknown series %d", g.ID, g.SeriesID)
		}
		if _, ok := maps[g.MapID]; !ok {
			return nil, formatErr("game %d references unknown map %d", g.ID, g.MapID)
		}
		if !parent.HasPlayer(g.WinnerID) {
			return nil, formatErr("game %d winner %d is not in series %d", g.ID, g.WinnerID, g.SeriesID)
		}
		raceA, err := parseRace(g.RaceA)
		if err != nil {
			return nil, formatErr("game %d: %v", g.ID, err)
		}
		raceB, err := parseRace(g.RaceB)
		if err != nil {
			return nil, formatErr("game %d: %v", g.ID, err)
		}
		games[g.ID] = struct{}{}
		ds.Games = append(ds.Games, domain.Game{
			ID:        g.ID,
			SeriesID:  g.SeriesID,
			MapID:     g.MapID,
			RaceA:     raceA,
			RaceB:     raceB,
			WinnerID:  g.WinnerID,
			CreatedAt: g.CreatedAt,
		})
	}

	return ds, nil
}

func parseRace(s *string) (*domain.Race, error) {
	if s == nil {
		return nil, nil
	}
	return domain.ParseRace(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.StringPtr(*s)
}
