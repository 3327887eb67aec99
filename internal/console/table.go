package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Layout is how a table is drawn at a given terminal width.
type Layout int

const (
	LayoutTable Layout = iota
	LayoutCards
)

const (
	// CardBreakpoint is the narrowest width drawn as a table.
	CardBreakpoint = 100
	MinWidth       = 6
	defaultWidth   = 16
)

// LayoutFor picks cards below CardBreakpoint columns.
func LayoutFor(width int) Layout {
	if width < CardBreakpoint {
		return LayoutCards
	}
	return LayoutTable
}

type Column struct {
	Key       string
	Title     string
	Width     int
	Resizable bool
}

// Row is one decoded JSON object.
type Row = map[string]any

// Table is a client-side list: all rows are held, sorted and paged in
// memory.
type Table struct {
	ID      string
	Columns []Column
	Rows    []Row

	// Now is the clock used by the status sort.
	Now    func() time.Time
	Widths WidthStore
}

// NewTable applies widths saved for id, if any.
func NewTable(id string, cols []Column, rows []Row, store WidthStore) *Table {
	t := &Table{ID: id, Columns: append([]Column(nil), cols...), Rows: rows, Now: time.Now, Widths: store}
	for i := range t.Columns {
		if t.Columns[i].Width < MinWidth {
			t.Columns[i].Width = defaultWidth
		}
	}
	if store != nil {
		if saved, err := store.Load(id); err == nil {
			for i, c := range t.Columns {
				if w, ok := saved[c.Key]; ok && w >= MinWidth {
					t.Columns[i].Width = w
				}
			}
		}
	}
	return t
}

// SortBy orders the rows by key.  The sort is stable; missing values go
// last in both directions.
func (t *Table) SortBy(key string, desc bool) {
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i][key], t.Rows[j][key]
		if key == "status" {
			a, b = statusRank(t.Rows[i], now), statusRank(t.Rows[j], now)
		}
		if a == nil || b == nil {
			return a != nil
		}
		c := compare(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func statusRank(r Row, now time.Time) any {
	f := model.StatusFlags{}
	f.Status, _ = r["status"].(string)
	if n, ok := number(r["tripStatusId"]); ok {
		id := int(n)
		f.TripStatusID = &id
	}
	start, ok1 := parseTime(r["startDate"])
	end, ok2 := parseTime(r["endDate"])
	f.StartDate, f.EndDate = start, end
	s := model.ComputeTripStatus(f, now)
	if !ok1 || !ok2 {
		// Without both dates only an explicit flag can place the row.
		switch s {
		case model.TripStatusDraft, model.TripStatusPreview, model.TripStatusArchived:
		default:
			return nil
		}
	}
	return float64(model.TripStatusRank(s))
}

func compare(a, b any) int {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := parseTime(a); ok {
		if y, ok := parseTime(b); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if p, err := time.Parse(layout, t); err == nil {
				return p, true
			}
		}
	}
	return time.Time{}, false
}

// Resize moves delta columns of width from the next resizable column to
// col.  Both stay at least MinWidth; the total does not change.  The new
// widths are saved when a store is set.
func (t *Table) Resize(col string, delta int) error {
	i := t.columnIndex(col)
	if i < 0 || !t.Columns[i].Resizable {
		return fmt.Errorf("console: column %q is not resizable", col)
	}
	j := -1
	for k := i + 1; k < len(t.Columns); k++ {
		if t.Columns[k].Resizable {
			j = k
			break
		}
	}
	if j < 0 {
		return fmt.Errorf("console: column %q has no resizable neighbour", col)
	}
	lo := MinWidth - t.Columns[i].Width
	hi := t.Columns[j].Width - MinWidth
	delta = max(lo, min(delta, hi))
	t.Columns[i].Width += delta
	t.Columns[j].Width -= delta
	if t.Widths == nil {
		return nil
	}
	return t.Widths.Save(t.ID, t.widthMap())
}

func (t *Table) columnIndex(key string) int {
	for i, c := range t.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func (t *Table) widthMap() map[string]int {
	m := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Key] = c.Width
	}
	return m
}

// Page returns page n (from 1) of size rows.
func (t *Table) Page(n, size int) []Row {
	if n < 1 || size < 1 {
		return nil
	}
	start := (n - 1) * size
	if start >= len(t.Rows) {
		return nil
	}
	return t.Rows[start:min(start+size, len(t.Rows))]
}

// Pages is the page count for size.
func (t *Table) Pages(size int) int {
	if size < 1 || len(t.Rows) == 0 {
		return 0
	}
	return (len(t.Rows) + size - 1) / size
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render draws rows in the layout chosen for width.
func (t *Table) Render(rows []Row, width int) string {
	if LayoutFor(width) == LayoutCards {
		return t.renderCards(rows, width)
	}
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Title
	}
	body := make([][]string, len(rows))
	for r, row := range rows {
		body[r] = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			body[r][i] = truncate(Cell(row[c.Key]), t.Columns[i].Width-2)
		}
	}
	tb := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cellStyle.Width(t.Columns[col].Width)
			if row == table.HeaderRow {
				return s.Inherit(headerStyle)
			}
			return s
		})
	return tb.String()
}

func (t *Table) renderCards(rows []Row, width int) string {
	cards := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(labelStyle.Render(c.Title+": ") + Cell(row[c.Key]))
		}
		cards = append(cards, cardStyle.Width(max(width-4, 20)).Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Cell formats a decoded JSON value for display.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if ts, ok := parseTime(x); ok && len(x) >= 10 {
			return ts.UTC().Format("2006-01-02")
		}
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if w < 1 || len(r) <= w {
		return s
	}
	if w == 1 {
		return string(r[:1])
	}
	return string(r[:w-1]) + "…"
}

// WidthStore persists column widths per table id.
type WidthStore interface {
	Load(tableID string) (map[string]int, error)
	Save(tableID string, widths map[string]int) error
}

// MemoryWidthStore keeps widths for the life of the process.
type MemoryWidthStore struct {
	mu sync.Mutex
	m  map[string]map[string]int
}

func NewMemoryWidthStore() *MemoryWidthStore {
	return &MemoryWidthStore{m: map[string]map[string]int{}}
}

func (s *MemoryWidthStore) Load(id string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyWidths(s.m[id]), nil
}

func (s *MemoryWidthStore) Save(id string, w map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = copyWidths(w)
	return nil
}

func copyWidths(w map[string]int) map[string]int {
	out := make(map[string]int, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// FileWidthStore keeps every table's widths in one JSON file.
type FileWidthStore struct {
	Path string
	mu   sync.Mutex
}

// DefaultWidthStore stores widths under the user config dir.
func DefaultWidthStore() (*FileWidthStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileWidthStore{Path: filepath.Join(dir, "tripguides", "column-widths.json")}, nil
}

func (s *FileWidthStore) readAll() (map[string]map[string]int, error) {
	all := map[string]map[string]int{}
	bs, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return all, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bs, &all); err != nil {
		return nil, fmt.Errorf("console: %s: %w", s.Path, err)
	}
	return all, nil
}

func (s *FileWidthStore) Load(id string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return copyWidths(all[id]), nil
}

func (s *FileWidthStore) Save(id string, w map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAll()
	if err != nil {
		return err
	}
	all[id] = copyWidths(w)
	bs, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path, bs, 0o644)
}
