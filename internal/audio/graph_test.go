package audio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatArgsPreservesOrder(t *testing.T) {
	args := concatArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, 0, "out.mp3")

	joined := strings.Join(args, " ")
	assert.Less(t, strings.Index(joined, "a.mp3"), strings.Index(joined, "b.mp3"))
	assert.Less(t, strings.Index(joined, "b.mp3"), strings.Index(joined, "c.mp3"))
	assert.Contains(t, joined, "concat=n=3:v=0:a=1[out]")
	assert.Equal(t, "out.mp3", args[len(args)-1])
}

func TestConcatArgsSilenceBetweenNotAround(t *testing.T) {
	args := concatArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, 500*time.Millisecond, "out.mp3")

	silences := 0
	for _, a := range args {
		if a == silenceSource {
			silences++
		}
	}
	// Two gaps for three segments.
	assert.Equal(t, 2, silences)

	joined := strings.Join(args, " ")
	// 5 filter inputs total: 3 files + 2 silences.
	assert.Contains(t, joined, "concat=n=5:v=0:a=1[out]")
	// No silence before the first input.
	assert.Equal(t, "-i", args[0])
	assert.Equal(t, "a.mp3", args[1])
	// Gap duration rendered in seconds.
	assert.Contains(t, joined, "-t 0.500")
}

func TestConcatArgsSingleInput(t *testing.T) {
	args := concatArgs([]string{"only.mp3"}, time.Second, "out.mp3")
	joined := strings.Join(args, " ")
	assert.NotContains(t, joined, silenceSource)
	assert.Contains(t, joined, "concat=n=1:v=0:a=1[out]")
}

func TestMixArgsDelaysClips(t *testing.T) {
	clips := []Clip{
		{Path: "a.mp3", Start: 0},
		{Path: "b.mp3", Start: 1300 * time.Millisecond},
	}

	args := mixArgs(clips, true, "out.mp3")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "[0:a]adelay=0:all=1[c0]")
	assert.Contains(t, joined, "[1:a]adelay=1300:all=1[c1]")
	assert.Contains(t, joined, "amix=inputs=2")
	assert.Contains(t, joined, "dynaudnorm")
	assert.Equal(t, "out.mp3", args[len(args)-1])
}

func TestMixArgsWithoutNormalize(t *testing.T) {
	args := mixArgs([]Clip{{Path: "a.mp3"}}, false, "out.mp3")
	assert.NotContains(t, strings.Join(args, " "), "dynaudnorm")
}

func TestBGMMixArgs(t *testing.T) {
	args := bgmMixArgs("voice.mp3", "music.mp3", 10*time.Second, -15, 2*time.Second, "out.mp3")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-stream_loop -1")
	assert.Contains(t, joined, "atrim=0:10.000")
	assert.Contains(t, joined, "volume=-15.0dB")
	assert.Contains(t, joined, "afade=t=in:st=0:d=2.000")
	assert.Contains(t, joined, "afade=t=out:st=8.000:d=2.000")
	assert.Contains(t, joined, "amix=inputs=2")
}

func TestBGMMixArgsShortTrackClampsFadeOut(t *testing.T) {
	args := bgmMixArgs("voice.mp3", "music.mp3", time.Second, -10, 2*time.Second, "out.mp3")
	assert.Contains(t, strings.Join(args, " "), "afade=t=out:st=0.000")
}

func TestTrackDuration(t *testing.T) {
	b := &TrackBuilder{}
	b.clips = []Clip{
		{Start: 0, Length: 2 * time.Second},
		{Start: 5 * time.Second, Length: time.Second},
		{Start: 3 * time.Second, Length: time.Second},
	}
	require.Equal(t, 6*time.Second, b.Duration())

	b.Clear()
	require.Zero(t, b.Duration())
}
