package planglist_test

import (
	"errors"
	"testing"

	"github.com/royal-judge/backend/planglist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgrammingLanguage(t *testing.T) {
	for _, id := range []string{"Python", "C++", "Java", "JavaScript"} {
		l, err := planglist.GetProgrammingLanguage(id)
		require.NoError(t, err)
		assert.Equal(t, id, l.ID)
	}

	_, err := planglist.GetProgrammingLanguage("COBOL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, planglist.ErrInvalidProgLang()))
}
