package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	limit  int
	name   string
	strict bool
	calls  []string
}

func withLimit(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errors.New("limit cannot be negative")
		}
		c.limit = n
		c.calls = append(c.calls, "limit")

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func withStrict(strict bool) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.strict = strict
		c.calls = append(c.calls, "strict")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withLimit(10), withName("keys"), withStrict(true))
		require.NoError(t, err)
		require.Equal(t, 10, cfg.limit)
		require.Equal(t, "keys", cfg.name)
		require.True(t, cfg.strict)
		require.Equal(t, []string{"limit", "name", "strict"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withLimit(5), withLimit(-1), withName("unreached"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot be negative")
		require.Equal(t, 5, cfg.limit)
		require.Empty(t, cfg.name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withName("x"), nil)
		require.NoError(t, err)
		require.Equal(t, "x", cfg.name)
	})

	t.Run("no options leaves target untouched", func(t *testing.T) {
		cfg := &testConfig{limit: 3}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 3, cfg.limit)
		require.Empty(t, cfg.calls)
	})
}

func TestOption_NonStructTarget(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 42 })
	require.NoError(t, Apply(&n, opt))
	require.Equal(t, 42, n)
}
