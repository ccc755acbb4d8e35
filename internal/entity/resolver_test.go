package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SportsFeed/internal/domain"
)

func TestTag(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single keyword any case", in: "MBAPPE scores again", want: "MBAPPE scores again @Mbappe"},
		{name: "accented spelling", in: "Mbappé hat-trick", want: "Mbappé hat-trick @Mbappe"},
		{name: "fixed order", in: "Icardi and Messi meet", want: "Icardi and Messi meet @Messi @Icardi"},
		{name: "already tagged", in: "@Ronaldo again", want: "@Ronaldo again @Ronaldo"},
		{name: "no keyword", in: "Quiet day in the league", want: "Quiet day in the league"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Tag(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	segments := r.Resolve("Great goal @messi vs @Unknown!")

	require.Len(t, segments, 5)
	assert.Equal(t, "Great goal ", segments[0].Text)
	require.NotNil(t, segments[1].Entity)
	assert.Equal(t, "Lionel Messi", segments[1].Entity.Name)
	assert.Equal(t, " vs ", segments[2].Text)
	assert.Equal(t, "@Unknown", segments[3].Text)
	assert.Nil(t, segments[3].Entity)
	assert.Equal(t, "!", segments[4].Text)
}

func TestResolveTurkishMarker(t *testing.T) {
	t.Parallel()

	r := NewResolver([]domain.Entity{{Tag: "@Şenol", Name: "Şenol Güneş"}})
	segments := r.Resolve("@Şenol")
	require.Len(t, segments, 1)
	require.NotNil(t, segments[0].Entity)
	assert.Equal(t, "Şenol Güneş", segments[0].Entity.Name)
}

func TestCustomDictionary(t *testing.T) {
	t.Parallel()

	r := NewResolver([]domain.Entity{
		{Tag: "@Kane", Name: "Harry Kane"},
		{Tag: "broken", Name: "no sigil"},
	})

	assert.Equal(t, "Kane brace @Kane", r.Tag("Kane brace"))
	assert.Equal(t, "Messi rests", r.Tag("Messi rests"))
	assert.Len(t, r.Entities(), 1)

	e, ok := r.Lookup("@KANE")
	require.True(t, ok)
	assert.Equal(t, "Harry Kane", e.Name)
}
