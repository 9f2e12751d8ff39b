package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type Race string

const (
	RaceTerran  Race = "Terran"
	RaceZerg    Race = "Zerg"
	RaceProtoss Race = "Protoss"
)

var Races = []Race{RaceTerran, RaceZerg, RaceProtoss}

// ParseRace accepts any casing. Empty input means the race is unset.
func ParseRace(s string) (*Race, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, r := range Races {
		if strings.EqualFold(string(r), s) {
			race := r
			return &race, nil
		}
	}
	return nil, &ValidationError{Field: "race", Reason: "unknown race " + s}
}

// FoldKey is the comparison key for aliases and map names. It folds full
// Unicode case, so "Éclair" and "éclair" collide.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

type Player struct {
	ID           int64
	Alias        string
	Country      *string
	PrimaryRace  *Race
	RegisteredAt time.Time
}

type Map struct {
	ID   int64
	Name string
}

type Series struct {
	ID        int64
	PlayerAID int64
	PlayerBID int64
	Date      time.Time
	Modality  string
}

// HasPlayer reports whether id is one of the two sides of the series.
func (s Series) HasPlayer(id int64) bool {
	return id == s.PlayerAID || id == s.PlayerBID
}

type Game struct {
	ID        int64
	SeriesID  int64
	MapID     int64
	RaceA     *Race
	RaceB     *Race
	WinnerID  int64
	CreatedAt time.Time
}

type Counts struct {
	Players int
	Maps    int
	Series  int
	Games   int
}

// Percent returns wins/total*100, or 0 when total is 0.
func Percent(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) * 100 / float64(total)
}

func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Deref[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

// Dataset is the full content of the database, as exported and imported.
type Dataset struct {
	Players []Player
	Maps    []Map
	Series  []Series
	Games   []Game
}

func (d *Dataset) Counts() Counts {
	return Counts{
		Players: len(d.Players),
		Maps:    len(d.Maps),
		Series:  len(d.Series),
		Games:   len(d.Games),
	}
}
