package wkfmla

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNames struct {
	mu    sync.Mutex
	calls int
	StaticNames
}

func (c *countingNames) SheetName(id int) (string, bool) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.StaticNames.SheetName(id)
}

func (c *countingNames) ExternalFileName(id int) (string, bool) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.StaticNames.ExternalFileName(id)
}

func TestStaticNames(t *testing.T) {
	n := StaticNames{Sheets: map[int]string{1: "B"}}
	name, ok := n.SheetName(1)
	assert.True(t, ok)
	assert.Equal(t, "B", name)
	_, ok = n.SheetName(2)
	assert.False(t, ok)
	_, ok = n.ExternalFileName(1)
	assert.False(t, ok, "nil map lookups report false")
}

func TestCachedNames(t *testing.T) {
	next := &countingNames{StaticNames: StaticNames{
		Sheets: map[int]string{0: "Data"},
		Files:  map[int]string{0: "other.wk1"},
	}}
	c, err := NewCachedNames(next, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		name, ok := c.SheetName(0)
		assert.True(t, ok)
		assert.Equal(t, "Data", name)
	}
	assert.Equal(t, 1, next.calls)

	name, ok := c.ExternalFileName(0)
	assert.True(t, ok)
	assert.Equal(t, "other.wk1", name, "sheet and file ids do not collide")
	assert.Equal(t, 2, next.calls)

	for i := 0; i < 2; i++ {
		_, ok = c.SheetName(5)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, next.calls, "misses are cached too")
	assert.Equal(t, 3, c.Len())
}

func TestCachedNamesEviction(t *testing.T) {
	next := &countingNames{StaticNames: StaticNames{Sheets: map[int]string{0: "a", 1: "b", 2: "c"}}}
	c, err := NewCachedNames(next, 2)
	require.NoError(t, err)

	c.SheetName(0)
	c.SheetName(1)
	c.SheetName(2)
	assert.Equal(t, 2, c.Len())
	c.SheetName(0)
	assert.Equal(t, 4, next.calls, "least recently used entry was evicted")
}

func TestNewCachedNamesInvalidSize(t *testing.T) {
	_, err := NewCachedNames(StaticNames{}, 0)
	assert.Error(t, err)
}

func TestCachedNamesInDecode(t *testing.T) {
	next := &countingNames{StaticNames: StaticNames{Sheets: map[int]string{1: "Other"}}}
	c, err := NewCachedNames(next, 4)
	require.NoError(t, err)

	code := new(fmla).op(opCellRef, opCellRef, 0x09).end()
	table := new(fmla).op(refEntrySingle).ref(0, 0, 1).op(refEntrySingle).ref(1, 0, 1).bytes()
	opts := wb1
	opts.Names = c
	got := decodeOK(t, prescanned(code, table), opts)
	assert.Equal(t, "Other!$A$1+Other!$B$1", Render(got))
	assert.Equal(t, 1, next.calls)
}
