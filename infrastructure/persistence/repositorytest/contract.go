// Package repositorytest holds behaviour every StringRepository must share.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed is the fixed data set the filter cases run against, in insert order
var Seed = []string{"level", "Racecar", "hello world", "abc", "nurses run", "Zebra", "x"}

// Run exercises newRepo against the repository contract. newRepo must return
// an empty repository on every call.
func Run(t *testing.T, newRepo func(t *testing.T) ports.StringRepository) {
	t.Run("insert get delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		record := mustRecord(t, "level", time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC))

		require.NoError(t, repo.Insert(ctx, record))

		exists, err := repo.Exists(ctx, record.ID())
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := repo.GetByID(ctx, record.ID())
		require.NoError(t, err)
		assert.Equal(t, "level", got.Value())
		assert.Equal(t, record.Properties(), got.Properties())
		assert.True(t, record.CreatedAt().Equal(got.CreatedAt()))

		require.NoError(t, repo.Delete(ctx, record.ID()))

		_, err = repo.GetByID(ctx, record.ID())
		assert.True(t, pkgerrors.IsNotFound(err))

		exists, err = repo.Exists(ctx, record.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate insert", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		record := mustRecord(t, "level", time.Now())

		require.NoError(t, repo.Insert(ctx, record))
		err := repo.Insert(ctx, mustRecord(t, "level", time.Now()))

		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("delete missing", func(t *testing.T) {
		err := newRepo(t).Delete(context.Background(), valueobjects.NewContentHash("missing"))
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(context.Background()))
	})

	t.Run("find", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		base := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
		for i, v := range Seed {
			require.NoError(t, repo.Insert(ctx, mustRecord(t, v, base.Add(time.Duration(i)*time.Minute))))
		}

		tests := []struct {
			name   string
			filter filters.Filter
			want   []string
		}{
			{name: "no predicates", filter: filters.Filter{}, want: Seed},
			{name: "palindromes", filter: filters.Filter{IsPalindrome: filters.Ptr(true)}, want: []string{"level", "Racecar", "x"}},
			{name: "not palindromes", filter: filters.Filter{IsPalindrome: filters.Ptr(false)}, want: []string{"hello world", "abc", "nurses run", "Zebra"}},
			{name: "two words", filter: filters.Filter{WordCount: filters.Ptr(2)}, want: []string{"hello world", "nurses run"}},
			{name: "length range", filter: filters.Filter{MinLength: filters.Ptr(5), MaxLength: filters.Ptr(7)}, want: []string{"level", "Racecar", "Zebra"}},
			{name: "character is case-insensitive", filter: filters.Filter{ContainsCharacter: filters.Ptr("Z")}, want: []string{"Zebra"}},
			{name: "lowercase needle matches uppercase", filter: filters.Filter{ContainsCharacter: filters.Ptr("r")}, want: []string{"Racecar", "hello world", "nurses run", "Zebra"}},
			{name: "any vowel", filter: filters.Filter{AnyVowel: true}, want: []string{"level", "Racecar", "hello world", "abc", "nurses run", "Zebra"}},
			{name: "combined", filter: filters.Filter{IsPalindrome: filters.Ptr(true), WordCount: filters.Ptr(1), ContainsCharacter: filters.Ptr("a")}, want: []string{"Racecar"}},
			{name: "nothing", filter: filters.Filter{MinLength: filters.Ptr(100)}, want: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.Find(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, values(got))
			})
		}
	})
}

func mustRecord(t *testing.T, value string, at time.Time) *entities.StringRecord {
	t.Helper()
	record, err := entities.NewStringRecord(value, at)
	require.NoError(t, err)
	return record
}

func values(records []*entities.StringRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value())
	}
	return out
}
