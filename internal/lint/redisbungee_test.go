package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/lint"
)

func TestRedisBungee(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []lint.Diagnostic
	}{
		{
			name: "valid",
			src:  "redis-server: 127.0.0.1\nserver-id: iluvbungee\n",
			want: []lint.Diagnostic{},
		},
		{
			name: "both missing in field order",
			src:  "redis-port: 6379\n",
			want: []lint.Diagnostic{
				u("redis-server is missing from your configuration!"),
				u("server-id is missing from your configuration!"),
			},
		},
		{
			name: "null counts as missing",
			src:  "redis-server:\nserver-id: a\n",
			want: []lint.Diagnostic{u("redis-server is missing from your configuration!")},
		},
		{
			name: "empty strings",
			src:  "redis-server: ''\nserver-id: \"\"\n",
			want: []lint.Diagnostic{u("redis-server is empty!"), u("server-id is empty!")},
		},
		{
			name: "numeric id is fine",
			src:  "redis-server: localhost\nserver-id: 1\n",
			want: []lint.Diagnostic{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lintYAML(t, lint.DialectRedisBungee, tt.src))
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := lint.ParseDialect("redisbungee")
	require.NoError(t, err)
	assert.Equal(t, lint.DialectRedisBungee, d)

	_, err = lint.ParseDialect("spigot")
	assert.ErrorIs(t, err, lint.ErrUnknownDialect)
}

func TestRegistry(t *testing.T) {
	r := lint.DefaultRegistry()
	assert.Equal(t, []lint.Dialect{lint.DialectBungeeCord, lint.DialectRedisBungee}, r.Dialects())

	_, err := r.Get("waterfall")
	assert.ErrorIs(t, err, lint.ErrUnknownDialect)

	assert.Panics(t, func() { r.Register(lint.BungeeCord{}) })
}

func TestLint_UsesBuiltInCheckers(t *testing.T) {
	doc, err := document.Decode([]byte("redis-server: localhost\n"))
	require.NoError(t, err)

	seq, err := lint.Lint(doc, lint.DialectRedisBungee)
	require.NoError(t, err)
	assert.Equal(t, []lint.Diagnostic{u("server-id is missing from your configuration!")}, lint.Collect(seq))

	_, err = lint.Lint(doc, "waterfall")
	assert.ErrorIs(t, err, lint.ErrUnknownDialect)
}
