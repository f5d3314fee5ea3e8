package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factory func() string

func TestRegister(t *testing.T) {
	reg := New[factory]()

	t.Run("register valid item", func(t *testing.T) {
		require.NoError(t, reg.Register("props", func() string { return "props" }))
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("", func() string { return "" })
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("register duplicate", func(t *testing.T) {
		err := reg.Register("props", func() string { return "again" })
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	})
}

func TestGet(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "props", func() string { return "props" })

	f, err := reg.Get("props")
	require.NoError(t, err)
	assert.Equal(t, "props", f())

	_, err = reg.Get("uglify")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.False(t, reg.Has("uglify"))
}

func TestReplace(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "a", func() string { return "first" })
	MustRegister(reg, "b", func() string { return "b" })

	reg.Replace("a", func() string { return "second" })
	reg.Replace("c", func() string { return "c" })

	f, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "second", f())
	assert.Equal(t, []string{"a", "b", "c"}, reg.List(), "replace keeps the original slot")
}

func TestListOrder(t *testing.T) {
	reg := New[int]()
	for i, name := range []string{"charlie", "alpha", "bravo"} {
		MustRegister(reg, name, i)
	}

	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, reg.List())
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, reg.Sorted())
}

func TestMustRegisterPanics(t *testing.T) {
	reg := New[int]()
	MustRegister(reg, "x", 1)
	assert.Panics(t, func() { MustRegister(reg, "x", 2) })
}

func TestConcurrency(t *testing.T) {
	reg := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(fmt.Sprintf("item%d", i), i)
			_ = reg.Has("item0")
			_ = reg.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, reg.Count())
}
