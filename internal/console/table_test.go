package console

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripCols = []Column{
	{Key: "name", Title: "Name", Width: 30, Resizable: true},
	{Key: "startDate", Title: "Starts", Width: 14, Resizable: true},
	{Key: "status", Title: "Status", Width: 12},
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["name"].(string)
	}
	return out
}

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, LayoutCards, LayoutFor(80))
	assert.Equal(t, LayoutCards, LayoutFor(CardBreakpoint-1))
	assert.Equal(t, LayoutTable, LayoutFor(CardBreakpoint))
}

func TestSortByStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{"name": "past", "status": "published", "startDate": "2025-01-01T00:00:00Z", "endDate": "2025-01-08T00:00:00Z"},
		{"name": "archived", "status": "archived", "startDate": "2024-01-01T00:00:00Z", "endDate": "2024-01-08T00:00:00Z"},
		{"name": "upcoming", "status": "published", "startDate": "2026-06-01T00:00:00Z", "endDate": "2026-06-08T00:00:00Z"},
		{"name": "draft", "status": "draft", "startDate": "2026-06-01T00:00:00Z", "endDate": "2026-06-08T00:00:00Z"},
		{"name": "ongoing", "status": "published", "startDate": "2026-03-08T00:00:00Z", "endDate": "2026-03-15T00:00:00Z"},
		{"name": "preview", "status": "published", "tripStatusId": float64(5), "startDate": "2026-06-01T00:00:00Z", "endDate": "2026-06-08T00:00:00Z"},
	}
	tb := NewTable("trips", tripCols, rows, nil)
	tb.Now = func() time.Time { return now }

	tb.SortBy("status", false)
	assert.Equal(t, []string{"draft", "preview", "ongoing", "upcoming", "past", "archived"}, names(tb.Rows))

	tb.SortBy("status", true)
	assert.Equal(t, []string{"archived", "past", "upcoming", "ongoing", "preview", "draft"}, names(tb.Rows))
}

func TestSortByStatusUndatedRowsLast(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{"name": "undated", "status": "published"},
		{"name": "half", "status": "published", "startDate": "2026-06-01T00:00:00Z"},
		{"name": "past", "status": "published", "startDate": "2025-01-01T00:00:00Z", "endDate": "2025-01-08T00:00:00Z"},
		{"name": "draft", "status": "draft"},
		{"name": "preview", "tripStatusId": float64(5)},
	}
	tb := NewTable("trips", tripCols, rows, nil)
	tb.Now = func() time.Time { return now }

	tb.SortBy("status", false)
	assert.Equal(t, []string{"draft", "preview", "past", "undated", "half"}, names(tb.Rows))

	tb.SortBy("status", true)
	assert.Equal(t, []string{"past", "preview", "draft", "undated", "half"}, names(tb.Rows))
}

func TestNewTableLeavesColumnsUntouched(t *testing.T) {
	cols := []Column{
		{Key: "name", Title: "Name", Width: 0, Resizable: true},
		{Key: "startDate", Title: "Starts", Width: 14, Resizable: true},
	}
	store := NewMemoryWidthStore()
	require.NoError(t, store.Save("trips", map[string]int{"startDate": 40}))

	tb := NewTable("trips", cols, nil, store)
	assert.Equal(t, 40, tb.Columns[1].Width)
	assert.GreaterOrEqual(t, tb.Columns[0].Width, MinWidth)

	assert.Equal(t, 0, cols[0].Width)
	assert.Equal(t, 14, cols[1].Width)
}

func TestSortByIsStableAndNatural(t *testing.T) {
	rows := []Row{
		{"name": "b", "capacity": float64(10)},
		{"name": "a", "capacity": float64(200)},
		{"name": "c", "capacity": nil},
		{"name": "d", "capacity": float64(10)},
	}
	tb := NewTable("ships", tripCols, rows, nil)

	tb.SortBy("capacity", false)
	assert.Equal(t, []string{"b", "d", "a", "c"}, names(tb.Rows))

	tb.SortBy("capacity", true)
	assert.Equal(t, []string{"a", "b", "d", "c"}, names(tb.Rows))

	tb.SortBy("name", false)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(tb.Rows))
}

func TestResizeConservesWidth(t *testing.T) {
	store := NewMemoryWidthStore()
	tb := NewTable("trips", append([]Column(nil), tripCols...), nil, store)

	require.NoError(t, tb.Resize("name", 5))
	assert.Equal(t, 35, tb.Columns[0].Width)
	assert.Equal(t, 9, tb.Columns[1].Width)

	require.NoError(t, tb.Resize("name", 100))
	assert.Equal(t, 44-MinWidth, tb.Columns[0].Width)
	assert.Equal(t, MinWidth, tb.Columns[1].Width)

	require.NoError(t, tb.Resize("name", -100))
	assert.Equal(t, MinWidth, tb.Columns[0].Width)
	assert.Equal(t, 44-MinWidth, tb.Columns[1].Width)

	assert.Error(t, tb.Resize("startDate", 1), "no resizable neighbour")
	assert.Error(t, tb.Resize("status", 1))

	saved, err := store.Load("trips")
	require.NoError(t, err)
	assert.Equal(t, MinWidth, saved["name"])

	again := NewTable("trips", append([]Column(nil), tripCols...), nil, store)
	assert.Equal(t, MinWidth, again.Columns[0].Width)
	assert.Equal(t, 12, again.Columns[2].Width)
}

func TestFileWidthStore(t *testing.T) {
	s := &FileWidthStore{Path: filepath.Join(t.TempDir(), "cfg", "widths.json")}
	w, err := s.Load("trips")
	require.NoError(t, err)
	assert.Empty(t, w)

	require.NoError(t, s.Save("trips", map[string]int{"name": 20}))
	require.NoError(t, s.Save("ships", map[string]int{"name": 9}))

	w, err = s.Load("trips")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"name": 20}, w)
}

func TestPage(t *testing.T) {
	rows := make([]Row, 7)
	for i := range rows {
		rows[i] = Row{"name": string(rune('a' + i))}
	}
	tb := NewTable("x", tripCols, rows, nil)
	assert.Equal(t, 3, tb.Pages(3))
	assert.Equal(t, []string{"a", "b", "c"}, names(tb.Page(1, 3)))
	assert.Equal(t, []string{"g"}, names(tb.Page(3, 3)))
	assert.Nil(t, tb.Page(4, 3))
	assert.Nil(t, tb.Page(0, 3))
}

func TestRender(t *testing.T) {
	rows := []Row{{"name": "Atlantis Caribbean", "startDate": "2026-06-01T00:00:00Z", "status": "published"}}
	tb := NewTable("trips", tripCols, rows, nil)

	wide := tb.Render(rows, 120)
	assert.Contains(t, wide, "Name")
	assert.Contains(t, wide, "Atlantis Caribbean")
	assert.Contains(t, wide, "2026-06-01")

	narrow := tb.Render(rows, 60)
	assert.Contains(t, narrow, "Name: ")
	assert.True(t, strings.Contains(narrow, "Status: ") && strings.Contains(narrow, "published"))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "-", Cell(nil))
	assert.Equal(t, "12", Cell(float64(12)))
	assert.Equal(t, "4.5", Cell(4.5))
	assert.Equal(t, "yes", Cell(true))
	assert.Equal(t, "2026-06-01", Cell("2026-06-01T10:00:00Z"))
	assert.Equal(t, "Spa", Cell("Spa"))
}
