package multimap_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havarnov/multimap"
)

func TestMultiMap_Insert(t *testing.T) {
	t.Run("values of one key keep insertion order", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("key1", 42)
		mm.Insert("key1", 1337)
		mm.Insert("key2", 2332)

		values, found := mm.GetVec("key1")
		require.True(t, found)
		assert.Equal(t, []int{42, 1337}, values)

		first, found := mm.Get("key1")
		require.True(t, found)
		assert.Equal(t, 42, first)

		assert.Equal(t, 3, mm.Len())
		assert.True(t, mm.Has("key2"))
	})

	t.Run("order survives interleaved inserts and removals", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("bar", 10)
		mm.Insert("foo", 2)
		mm.Remove("bar")
		mm.Insert("foo", 3)
		mm.Insert("bar", 20)

		fooValues, found := mm.GetVec("foo")
		require.True(t, found)
		assert.Equal(t, []int{1, 2, 3}, fooValues)

		barValues, found := mm.GetVec("bar")
		require.True(t, found)
		assert.Equal(t, []int{20}, barValues)
	})

	t.Run("insert vec appends many and ignores empty slices", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.InsertVec("foo", []int{2, 3})
		mm.InsertVec("bar", nil)

		values, found := mm.GetVec("foo")
		require.True(t, found)
		assert.Equal(t, []int{1, 2, 3}, values)

		assert.False(t, mm.Has("bar"))
		assert.Equal(t, 3, mm.Len())
	})
}

func TestMultiMap_ZeroValue(t *testing.T) {
	t.Run("zero value behaves like a fresh map", func(t *testing.T) {
		var mm multimap.MultiMap[string, int]

		assert.True(t, mm.IsEmpty())
		assert.False(t, mm.Has("foo"))
		assert.True(t, multimap.Equal(&mm, multimap.New[string, int]()))

		mm.Insert("foo", 1)
		v, found := mm.Get("foo")
		require.True(t, found)
		assert.Equal(t, 1, v)
	})
}

func TestMultiMap_Get(t *testing.T) {
	t.Run("get returns the first value in insertion order", func(t *testing.T) {
		mm := multimap.New[string, string]()
		mm.Insert("greeting", "hello")
		mm.Insert("greeting", "hi")

		v, found := mm.Get("greeting")
		require.True(t, found)
		assert.Equal(t, "hello", v)

		values, _ := mm.GetVec("greeting")
		assert.Equal(t, v, values[0])
	})

	t.Run("absent key signals absence", func(t *testing.T) {
		mm := multimap.New[string, int]()

		v, found := mm.Get("missing")
		assert.False(t, found)
		assert.Equal(t, 0, v)

		values, found := mm.GetVec("missing")
		assert.False(t, found)
		assert.Nil(t, values)
	})

	t.Run("get ptr allows in place update of the first value", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("counter", 1)
		mm.Insert("counter", 99)

		ptr, found := mm.GetPtr("counter")
		require.True(t, found)
		*ptr += 41

		v, _ := mm.Get("counter")
		assert.Equal(t, 42, v)

		values, _ := mm.GetVec("counter")
		assert.Equal(t, []int{42, 99}, values)
	})

	t.Run("get vec is a live view for element edits", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("foo", 2)

		values, found := mm.GetVec("foo")
		require.True(t, found)
		values[1] = 20

		reread, _ := mm.GetVec("foo")
		assert.Equal(t, []int{1, 20}, reread)
	})
}

func TestMultiMap_MustGet(t *testing.T) {
	t.Run("returns first value for a present key", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 7)
		mm.Insert("foo", 8)

		assert.Equal(t, 7, mm.MustGet("foo"))
	})

	t.Run("panics on a missing key", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 7)

		assert.Panics(t, func() {
			_ = mm.MustGet("bar")
		})
	})
}

func TestMultiMap_Remove(t *testing.T) {
	t.Run("remove returns the whole sequence", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("key1", 42)
		mm.Insert("key1", 1337)
		mm.Insert("key2", 2332)

		values, found := mm.HasRemove("key2")
		require.True(t, found)
		assert.Equal(t, []int{2332}, values)

		assert.False(t, mm.Has("key2"))
		assert.Equal(t, 2, mm.Len())
	})

	t.Run("remove on an absent key leaves the map unchanged", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)

		values, found := mm.HasRemove("bar")
		assert.False(t, found)
		assert.Nil(t, values)

		assert.Nil(t, mm.Remove("bar"))
		assert.Equal(t, 1, mm.Len())
		assert.True(t, mm.Has("foo"))
	})
}

func TestMultiMap_UpdateVec(t *testing.T) {
	t.Run("bulk edit replaces the sequence", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 3)
		mm.Insert("foo", 1)
		mm.Insert("foo", 2)

		values, found := mm.UpdateVec("foo", func(values []int) []int {
			sort.Ints(values)
			return append(values, 4)
		})
		require.True(t, found)
		assert.Equal(t, []int{1, 2, 3, 4}, values)
		assert.Equal(t, 4, mm.Len())
	})

	t.Run("emptying the sequence removes the key", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("bar", 2)

		_, found := mm.UpdateVec("foo", func([]int) []int {
			return nil
		})
		require.True(t, found)

		assert.False(t, mm.Has("foo"))
		assert.Equal(t, 1, mm.Len())
	})

	t.Run("absent key is signalled", func(t *testing.T) {
		mm := multimap.New[string, int]()

		_, found := mm.UpdateVec("foo", func(values []int) []int {
			return values
		})
		assert.False(t, found)
	})
}

func TestMultiMap_Set(t *testing.T) {
	t.Run("set replaces and empty set prunes", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("foo", 2)

		mm.Set("foo", []int{9})
		values, _ := mm.GetVec("foo")
		assert.Equal(t, []int{9}, values)
		assert.Equal(t, 1, mm.Len())

		mm.Set("foo", nil)
		assert.False(t, mm.Has("foo"))
		assert.True(t, mm.IsEmpty())
	})
}

func TestMultiMap_Len(t *testing.T) {
	t.Run("counts values not keys", func(t *testing.T) {
		mm := multimap.New[string, int]()
		assert.True(t, mm.IsEmpty())
		assert.Equal(t, 0, mm.Len())

		mm.Insert("a", 1)
		mm.Insert("a", 2)
		mm.Insert("a", 3)
		mm.Insert("b", 4)

		assert.Equal(t, 4, mm.Len())
		assert.False(t, mm.IsEmpty())

		mm.Remove("a")
		assert.Equal(t, 1, mm.Len())
	})
}

func TestMultiMap_Keys(t *testing.T) {
	t.Run("keys and sorted keys", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("c", 1)
		mm.Insert("a", 2)
		mm.Insert("a", 3)
		mm.Insert("b", 4)

		keys := mm.Keys()
		sort.Strings(keys)
		assert.Equal(t, []string{"a", "b", "c"}, keys)

		assert.Equal(t, []string{"a", "b", "c"}, multimap.SortedKeys(mm))
	})

	t.Run("values are flattened across keys", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("a", 2)
		mm.Insert("a", 1)
		mm.Insert("b", 3)

		values := mm.Values()
		sort.Ints(values)
		assert.Equal(t, []int{1, 2, 3}, values)
	})
}

func TestMultiMap_Clone(t *testing.T) {
	t.Run("clone is deep", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("foo", 2)

		clone := mm.Clone()
		clone.Insert("foo", 3)
		ptr, _ := clone.GetPtr("foo")
		*ptr = 100

		original, _ := mm.GetVec("foo")
		assert.Equal(t, []int{1, 2}, original)

		cloned, _ := clone.GetVec("foo")
		assert.Equal(t, []int{100, 2, 3}, cloned)
	})
}

func TestMultiMap_Pairs(t *testing.T) {
	t.Run("one pair per stored value and round trip", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("key1", 42)
		mm.Insert("key1", 1337)
		mm.Insert("key2", 2332)

		var pairs []multimap.Pair[string, int]
		for p := range mm.Pairs(context.Background()) {
			pairs = append(pairs, p)
		}
		require.Len(t, pairs, 3)

		rebuilt := multimap.From(pairs)
		assert.True(t, multimap.Equal(mm, rebuilt))
	})

	t.Run("iteration is restartable", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("foo", 1)
		mm.Insert("foo", 2)

		for i := 0; i < 2; i++ {
			count := 0
			for range mm.Pairs(context.Background()) {
				count++
			}
			assert.Equal(t, 2, count)
		}
	})

	t.Run("cancellation stops emission", func(t *testing.T) {
		mm := multimap.New[string, int]()
		for i := 0; i < 100; i++ {
			mm.Insert("foo", i)
		}

		ctx, cancel := context.WithCancel(context.Background())
		ch := mm.Pairs(ctx)
		<-ch
		cancel()

		count := 0
		for range ch {
			count++
		}
		assert.Less(t, count, 100)
	})
}

func TestMultiMap_From(t *testing.T) {
	t.Run("pairs sharing a key retain relative input order", func(t *testing.T) {
		mm := multimap.From([]multimap.Pair[string, int]{
			{Key: "key1", Value: 42},
			{Key: "key2", Value: 2332},
			{Key: "key1", Value: 1337},
		})

		values, found := mm.GetVec("key1")
		require.True(t, found)
		assert.Equal(t, []int{42, 1337}, values)
		assert.Equal(t, 3, mm.Len())
	})

	t.Run("from map stores one value per key", func(t *testing.T) {
		mm := multimap.FromMap(map[string]int{"a": 1, "b": 2})

		assert.Equal(t, 2, mm.Len())
		v, found := mm.Get("a")
		require.True(t, found)
		assert.Equal(t, 1, v)
	})
}

func TestMultiMap_ForEach(t *testing.T) {
	t.Run("visits every stored value once", func(t *testing.T) {
		mm := multimap.New[string, int]()
		mm.Insert("a", 1)
		mm.Insert("a", 2)
		mm.Insert("b", 3)

		sum := 0
		count := 0
		mm.ForEach(func(key string, value int) {
			sum += value
			count++
		})

		assert.Equal(t, 6, sum)
		assert.Equal(t, 3, count)
	})
}
