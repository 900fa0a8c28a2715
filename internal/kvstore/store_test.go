package kvstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	s := New[int](8)
	s.Put("TXTarrantFort Worth", 450)
	s.Put("TX", 400)

	v, ok := s.Get("TXTarrantFort Worth")
	require.True(t, ok)
	assert.Equal(t, 450, v)

	v, ok = s.Get("TX")
	require.True(t, ok)
	assert.Equal(t, 400, v)

	_, ok = s.Get("CA")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestPutUpdatesInPlace(t *testing.T) {
	s := New[string](4)
	s.Put("a", "first")
	s.Put("a", "second")

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, s.Len())
}

func TestCollisionsChain(t *testing.T) {
	// "ab" and "ba" have the same character sum.
	s := New[int](16)
	s.Put("ab", 1)
	s.Put("ba", 2)

	assert.Equal(t, 2, s.ChainLength("ab"))

	v, ok := s.Get("ab")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = s.Get("ba")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// Updating the second chain entry must not add a third.
	s.Put("ba", 3)
	assert.Equal(t, 2, s.ChainLength("ba"))
	assert.Equal(t, 2, s.Len())
	v, _ = s.Get("ba")
	assert.Equal(t, 3, v)
}

func TestResizeChecksLoadBeforeInsert(t *testing.T) {
	s := New[int](10)
	for i := 0; i < 8; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
	}
	// Load was 0.70 when the eighth key went in, so no resize yet.
	assert.Equal(t, 10, s.Cap())
	assert.InDelta(t, 0.8, s.LoadFactor(), 1e-9)

	s.Put("k8", 8)
	assert.Equal(t, 20, s.Cap())
	assert.Equal(t, 9, s.Len())
}

func TestResizeKeepsLoadFactor(t *testing.T) {
	s := New[int](4)
	for i := 0; i < 100; i++ {
		s.Put(fmt.Sprintf("key-%d", i), i)
		// The check runs before the insert, so one key past the limit is allowed.
		assert.LessOrEqual(t, float64(s.Len()-1)/float64(s.Cap()), MaxLoadFactor)
	}

	assert.Equal(t, 100, s.Len())
	assert.Greater(t, s.Cap(), 4)
	for i := 0; i < 100; i++ {
		v, ok := s.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok, "key-%d missing after resize", i)
		assert.Equal(t, i, v)
	}
}

func TestResizeTriggersAboveThreshold(t *testing.T) {
	s := New[int](10)
	for i := 0; i < 8; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
	}
	// 7/10 is not above 0.70, so the eighth put did not resize.
	assert.Equal(t, 10, s.Cap())

	s.Put("k8", 8)
	assert.Equal(t, 20, s.Cap())
	assert.Equal(t, 9, s.Len())
}

func TestExplicitResize(t *testing.T) {
	s := New[int](3)
	s.Put("x", 1)
	s.Put("y", 2)
	s.Resize()

	assert.Equal(t, 6, s.Cap())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("x"))
	assert.True(t, s.Contains("y"))
}

func TestRangeVisitsAll(t *testing.T) {
	s := New[int](5, WithHash(PolynomialHash))
	want := map[string]int{"a": 1, "b": 2, "c": 3, "dd": 4}
	for k, v := range want {
		s.Put(k, v)
	}

	got := map[string]int{}
	s.Range(func(k string, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, want, got)

	count := 0
	s.Range(func(string, int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestCapacityFloor(t *testing.T) {
	s := New[int](0)
	assert.Equal(t, 1, s.Cap())
	s.Put("a", 1)
	s.Put("b", 2)
	assert.Equal(t, 2, s.Len())
}

func TestHashFunctions(t *testing.T) {
	assert.Equal(t, uint64('a'+'b'), SumHash("ab"))
	assert.Equal(t, SumHash("ab"), SumHash("ba"))
	assert.Equal(t, uint64(97*98+98*99), PolynomialHash("ab"))

	h, err := HashByName("polynomial")
	require.NoError(t, err)
	assert.Equal(t, PolynomialHash("xyz"), h("xyz"))

	h, err = HashByName("")
	require.NoError(t, err)
	assert.Equal(t, SumHash("xyz"), h("xyz"))

	_, err = HashByName("md5")
	assert.Error(t, err)
}
