package subm_test

import (
	"testing"

	"github.com/royal-judge/backend/subm"
	"github.com/stretchr/testify/assert"
)

func TestVerdictPartition(t *testing.T) {
	for _, v := range []subm.Verdict{subm.Pending, subm.Compiling, subm.Running} {
		assert.False(t, v.IsTerminal(), v)
		assert.True(t, v.IsValid(), v)
	}
	for _, v := range []subm.Verdict{subm.Accepted, subm.WrongAnswer,
		subm.TimeLimitExceeded, subm.RuntimeError, subm.CompilationError} {
		assert.True(t, v.IsTerminal(), v)
		assert.True(t, v.IsValid(), v)
	}
	assert.False(t, subm.Verdict("Partial").IsValid())
}

func TestCanAdvance(t *testing.T) {
	assert.True(t, subm.CanAdvance(subm.Pending, subm.Compiling))
	assert.True(t, subm.CanAdvance(subm.Compiling, subm.Running))
	assert.True(t, subm.CanAdvance(subm.Running, subm.CompilationError))
	assert.False(t, subm.CanAdvance(subm.Running, subm.Pending))
	assert.False(t, subm.CanAdvance(subm.Accepted, subm.WrongAnswer))
}
