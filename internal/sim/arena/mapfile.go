package arena

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/geom"
	"github.com/andrewgopher/battlecode23-scaffold/internal/bot/host"
)

var (
	ErrOutOfBounds = errors.New("arena: out of bounds")
	ErrBadMap      = errors.New("arena: bad map")
)

// MaxSide is the largest map side the channel codec can address.
const MaxSide = 64

// MapFile is the YAML form of a map. Rows are listed north first:
//
//	'.' open  '#' wall  '~' cloud
//	'A' adamantium well  'M' mana well  'E' elixir well
//	'0'-'9' island cells  'a'/'b' headquarters of team A/B
type MapFile struct {
	Name     string        `yaml:"name"`
	Rows     []string      `yaml:"rows"`
	Currents []CurrentSpec `yaml:"currents,omitempty"`
}

type CurrentSpec struct {
	X   int    `yaml:"x"`
	Y   int    `yaml:"y"`
	Dir string `yaml:"dir"`
}

// Map is a parsed, immutable map.
type Map struct {
	Name   string
	Width  int
	Height int

	walls    map[geom.Cell]bool
	clouds   map[geom.Cell]bool
	currents map[geom.Cell]geom.Direction
	wells    map[geom.Cell]host.Resource
	islands  map[int][]geom.Cell
	islandAt map[geom.Cell]int
	hqs      map[host.Team][]geom.Cell
}

func LoadMap(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMap(raw)
}

func ParseMap(raw []byte) (*Map, error) {
	var f MapFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("map yaml: %w", err)
	}
	return f.Build()
}

func (f MapFile) Build() (*Map, error) {
	h := len(f.Rows)
	if h == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadMap)
	}
	w := len(f.Rows[0])
	if w == 0 || w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("%w: size %dx%d must be within 1..%d", ErrBadMap, w, h, MaxSide)
	}
	m := &Map{
		Name:     f.Name,
		Width:    w,
		Height:   h,
		walls:    map[geom.Cell]bool{},
		clouds:   map[geom.Cell]bool{},
		currents: map[geom.Cell]geom.Direction{},
		wells:    map[geom.Cell]host.Resource{},
		islands:  map[int][]geom.Cell{},
		islandAt: map[geom.Cell]int{},
		hqs:      map[host.Team][]geom.Cell{},
	}
	for row, line := range f.Rows {
		if len(line) != w {
			return nil, fmt.Errorf("%w: row %d has width %d want %d", ErrBadMap, row, len(line), w)
		}
		y := h - 1 - row
		for x, ch := range line {
			c := geom.Cell{X: x, Y: y}
			switch {
			case ch == '.':
			case ch == '#':
				m.walls[c] = true
			case ch == '~':
				m.clouds[c] = true
			case ch == 'A':
				m.wells[c] = host.Adamantium
			case ch == 'M':
				m.wells[c] = host.Mana
			case ch == 'E':
				m.wells[c] = host.Elixir
			case ch >= '0' && ch <= '9':
				id := int(ch-'0') + 1
				m.islands[id] = append(m.islands[id], c)
				m.islandAt[c] = id
			case ch == 'a':
				m.hqs[host.TeamA] = append(m.hqs[host.TeamA], c)
			case ch == 'b':
				m.hqs[host.TeamB] = append(m.hqs[host.TeamB], c)
			default:
				return nil, fmt.Errorf("%w: unknown cell %q at row %d col %d", ErrBadMap, ch, row, x)
			}
		}
	}
	for i, cs := range f.Currents {
		c := geom.Cell{X: cs.X, Y: cs.Y}
		if !c.InBounds(w, h) {
			return nil, fmt.Errorf("%w: currents[%d] %v: %w", ErrBadMap, i, c, ErrOutOfBounds)
		}
		d, ok := parseDirection(cs.Dir)
		if !ok {
			return nil, fmt.Errorf("%w: currents[%d] direction %q", ErrBadMap, i, cs.Dir)
		}
		if m.walls[c] {
			return nil, fmt.Errorf("%w: currents[%d] on a wall", ErrBadMap, i)
		}
		m.currents[c] = d
	}
	if len(m.hqs[host.TeamA]) == 0 || len(m.hqs[host.TeamB]) == 0 {
		return nil, fmt.Errorf("%w: both teams need a headquarters", ErrBadMap)
	}
	if len(m.hqs[host.TeamA]) > 8 || len(m.hqs[host.TeamB]) > 8 {
		return nil, fmt.Errorf("%w: at most 8 headquarters per team", ErrBadMap)
	}
	return m, nil
}

func parseDirection(s string) (geom.Direction, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, d := range geom.Directions {
		if d.String() == s {
			return d, true
		}
	}
	return geom.Center, false
}

func (m *Map) InBounds(c geom.Cell) bool { return c.InBounds(m.Width, m.Height) }

func (m *Map) Passable(c geom.Cell) bool { return m.InBounds(c) && !m.walls[c] }

func (m *Map) Info(c geom.Cell) host.MapInfo {
	d, ok := m.currents[c]
	if !ok {
		d = geom.Center
	}
	return host.MapInfo{Cell: c, Passable: m.Passable(c), Cloud: m.clouds[c], Current: d}
}

func (m *Map) Well(c geom.Cell) (host.Resource, bool) {
	r, ok := m.wells[c]
	return r, ok
}

func (m *Map) IslandAt(c geom.Cell) (int, bool) {
	id, ok := m.islandAt[c]
	return id, ok
}

// IslandIDs returns island ids in ascending order.
func (m *Map) IslandIDs() []int {
	ids := make([]int, 0, len(m.islands))
	for id := range m.islands {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (m *Map) IslandCells(id int) []geom.Cell { return m.islands[id] }

func (m *Map) Headquarters(t host.Team) []geom.Cell { return m.hqs[t] }
