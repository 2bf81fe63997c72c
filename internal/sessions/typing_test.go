package sessions

import (
	"minigames/internal/scoring"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTyping_StartsOnFirstKeystroke(t *testing.T) {
	opts, _, _ := testOptions(2)
	ty := NewTyping(opts)

	assert.Len(t, ty.Words(), TypingWordCount)
	assert.Equal(t, NotStarted, ty.Status())
	assert.Equal(t, 0.0, ty.Accuracy())

	require.NoError(t, ty.Type("j"))
	assert.Equal(t, InProgress, ty.Status())
}

func TestTyping_AccuracyIncludesWordInProgress(t *testing.T) {
	opts, _, _ := testOptions(2)
	ty := NewTyping(opts)
	ty.words[0], ty.words[1] = "rust", "go"

	require.NoError(t, ty.Type("rust"))
	require.NoError(t, ty.Submit())
	assert.Equal(t, 100.0, ty.Accuracy())

	require.NoError(t, ty.Type("gx"))
	// 5 of 6 characters right
	assert.Equal(t, 83.0, ty.Accuracy())
}

func TestTyping_ShortAndLongWordsCostAccuracy(t *testing.T) {
	c, n := compareWord("jav", "java")
	assert.Equal(t, 3, c)
	assert.Equal(t, 4, n)

	c, n = compareWord("gooo", "go")
	assert.Equal(t, 2, c)
	assert.Equal(t, 4, n)

	c, n = compareWord("", "css")
	assert.Equal(t, 0, c)
	assert.Equal(t, 3, n)
}

func TestTyping_Completion(t *testing.T) {
	opts, clock, rep := testOptions(2)
	ty := NewTyping(opts)
	for i := range ty.words {
		ty.words[i] = "go"
	}

	for i := 0; i < TypingWordCount-1; i++ {
		require.NoError(t, ty.Type("go"))
		clock.Advance(time.Second)
		require.NoError(t, ty.Submit())
	}
	assert.Equal(t, InProgress, ty.Status())

	require.NoError(t, ty.Type("gx"))
	clock.Advance(1234 * time.Millisecond)
	require.NoError(t, ty.Submit())

	assert.Equal(t, Completed, ty.Status())
	assert.Equal(t, "", ty.CurrentWord())
	require.Len(t, rep.results, 1)
	res := rep.results[0]
	assert.Equal(t, 10.23, res.Time)
	assert.Equal(t, scoring.TypingScore(10.23, 95), res.Score)

	assert.ErrorIs(t, ty.Type("go"), ErrFinished)
	assert.ErrorIs(t, ty.Submit(), ErrFinished)
}
