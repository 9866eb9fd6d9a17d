package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestTable_AppendAndColumn(t *testing.T) {
	table := NewTable("Open", "Close")
	table.Append(d(2020, 1, 2), map[string]float64{"Open": 1, "Close": 2})
	table.Append(d(2020, 1, 3), map[string]float64{"Close": 3})

	require.Equal(t, 2, table.Len())
	assert.True(t, math.IsNaN(table.Values["Open"][1]))

	s, err := table.Column("Close")
	require.NoError(t, err)
	assert.Equal(t, "Close", s.Name)
	assert.Equal(t, []float64{2, 3}, s.Values())
	assert.Equal(t, d(2020, 1, 2), s.First())
	assert.Equal(t, d(2020, 1, 3), s.Last())

	_, err = table.Column("Volume")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestTable_DropNA(t *testing.T) {
	table := NewTable("a", "b")
	table.Append(d(2020, 1, 1), map[string]float64{"a": 1, "b": 2})
	table.Append(d(2020, 1, 2), map[string]float64{"a": 1})
	table.Append(d(2020, 1, 3), map[string]float64{"a": math.NaN(), "b": 2})
	table.Append(d(2020, 1, 4), map[string]float64{"a": 4, "b": 5})

	out := table.DropNA()
	assert.Equal(t, []time.Time{d(2020, 1, 1), d(2020, 1, 4)}, out.Dates)
	assert.Equal(t, []float64{1, 4}, out.Values["a"])
	assert.Equal(t, 4, table.Len(), "source table is untouched")
}

func TestSeries_Where(t *testing.T) {
	s := Series{Name: "USREC", Points: []Point{
		{d(2001, 3, 1), 0}, {d(2001, 4, 1), 1}, {d(2001, 11, 1), 1}, {d(2001, 12, 1), 0},
	}}
	flagged := s.Where(func(v float64) bool { return v == 1 })
	assert.Equal(t, []time.Time{d(2001, 4, 1), d(2001, 11, 1)}, flagged.Dates())
	assert.Equal(t, "USREC", flagged.Name)
}

func TestSpan_EndAt(t *testing.T) {
	now := d(2024, 5, 1)
	closed := Span{Begin: d(2008, 11, 25), End: d(2010, 5, 31)}
	open := Span{Begin: d(2020, 3, 11)}

	assert.False(t, closed.Open())
	assert.Equal(t, d(2010, 5, 31), closed.EndAt(now))
	assert.True(t, open.Open())
	assert.Equal(t, now, open.EndAt(now))
}
