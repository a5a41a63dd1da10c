package plot

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAttributesDefaults(t *testing.T) {
	alloc := NewColorIndex()
	a := NewAttributes(alloc)

	require.Equal(t, LineSolid, a.LineType)
	require.Equal(t, MarkerDot, a.MarkerType)
	require.Equal(t, DefaultMarkerColor, a.MarkerColor)
	require.Equal(t, 2, a.LineColor)

	b := NewAttributes(alloc)
	require.Equal(t, 3, b.LineColor)
}

func TestNewAttributesExplicitColorSkipsAllocator(t *testing.T) {
	alloc := NewColorIndex()
	a := NewAttributes(alloc, WithLineColor(4), WithMarkerType(MarkerSolidCircle), WithMarkerColor(86))

	require.Equal(t, 4, a.LineColor)
	require.Equal(t, MarkerSolidCircle, a.MarkerType)
	require.Equal(t, 86, a.MarkerColor)
	require.Equal(t, 2, alloc.Next(), "allocator should not have advanced")
}

func TestNewAttributesNilAllocator(t *testing.T) {
	a := NewAttributes(nil)
	require.Equal(t, DefaultMarkerColor, a.LineColor)
}

func TestColorIndexCycleAndReset(t *testing.T) {
	alloc := NewColorIndex()
	var got []int
	for i := 0; i < len(distinctColors)+2; i++ {
		got = append(got, alloc.Next())
	}
	require.Equal(t, distinctColors, got[:len(distinctColors)])
	require.Equal(t, distinctColors[:2], got[len(distinctColors):])

	alloc.Reset()
	require.Equal(t, distinctColors[0], alloc.Next())
}

func TestColorIndexIndependentInstances(t *testing.T) {
	a, b := NewColorIndex(), NewColorIndex()
	a.Next()
	a.Next()
	require.Equal(t, distinctColors[0], b.Next())
}

func TestColorIndexConcurrent(t *testing.T) {
	alloc := NewColorIndex()
	const workers, each = 8, 30

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				alloc.Next()
			}
		}()
	}
	wg.Wait()

	alloc.mu.Lock()
	defer alloc.mu.Unlock()
	require.Equal(t, workers*each, alloc.next)
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()

	require.Equal(t, "#ffffff", p.Hex(0))
	require.Equal(t, "#000000", p.Hex(1))
	require.Equal(t, "#ff0000", p.Hex(2))
	require.Equal(t, "#0000ff", p.Hex(4))
	require.Equal(t, "#30123b", p.Hex(ColormapOffset))
	require.Equal(t, "#7a0403", p.Hex(ColormapOffset+ColormapSize-1))
	require.Equal(t, "#000000", p.Hex(5000))
	require.Equal(t, uint8(255), p.RGBA(86).A)
}

func TestCommandTableSorted(t *testing.T) {
	names := CommandNames()
	require.True(t, sort.StringsAreSorted(names), "command table must be sorted: %v", names)

	for _, name := range names {
		spec, ok := lookupCommand(name)
		require.True(t, ok, name)
		require.Equal(t, name, spec.name)
		require.Len(t, spec.attrs, len(spec.format), name)
	}

	_, ok := lookupCommand("setviewport")
	require.False(t, ok)
	_, ok = lookupCommand("")
	require.False(t, ok)
	_, ok = lookupCommand("zzz")
	require.False(t, ok)
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "ω'=-γω-g/lsin(θ)", PlainText(`\dot{\omega}=-\gamma\omega-\frac{g}{l}sin(\theta)`))
	require.Equal(t, "y_A:  4.43", PlainText("y_{A}:  4.43"))
}
