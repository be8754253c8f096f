package audio

import (
	"fmt"
	"strings"
	"time"
)

// Filter graph construction is kept free of exec so the argument lists can
// be tested without ffmpeg installed.

const silenceSource = "anullsrc=r=24000:cl=mono"

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// concatArgs builds the ffmpeg arguments to concatenate inputs in order,
// inserting gap of silence between consecutive inputs when gap > 0.
func concatArgs(inputs []string, gap time.Duration, out string) []string {
	var args []string
	var labels []string

	idx := 0
	for i, in := range inputs {
		if i > 0 && gap > 0 {
			args = append(args, "-f", "lavfi", "-t", seconds(gap), "-i", silenceSource)
			labels = append(labels, fmt.Sprintf("[%d:a]", idx))
			idx++
		}
		args = append(args, "-i", in)
		labels = append(labels, fmt.Sprintf("[%d:a]", idx))
		idx++
	}

	filter := fmt.Sprintf("%sconcat=n=%d:v=0:a=1[out]", strings.Join(labels, ""), len(labels))

	args = append(args, "-filter_complex", filter, "-map", "[out]", out)
	return args
}

// mixArgs builds the ffmpeg arguments to place clips at their start offsets
// and mix them into one track.
func mixArgs(clips []Clip, normalize bool, out string) []string {
	var args []string
	for _, c := range clips {
		args = append(args, "-i", c.Path)
	}

	var filters []string
	var labels []string
	for i, c := range clips {
		delay := c.Start.Milliseconds()
		filters = append(filters, fmt.Sprintf("[%d:a]adelay=%d:all=1[c%d]", i, delay, i))
		labels = append(labels, fmt.Sprintf("[c%d]", i))
	}

	mix := fmt.Sprintf("%samix=inputs=%d:dropout_transition=0", strings.Join(labels, ""), len(clips))
	if normalize {
		mix += ",dynaudnorm"
	}
	filters = append(filters, mix+"[out]")

	args = append(args, "-filter_complex", strings.Join(filters, ";"), "-map", "[out]", out)
	return args
}

// bgmMixArgs builds the ffmpeg arguments to mix a finished voice track with
// looped background music trimmed to the track length, attenuated by
// volumeDB and faded in and out.
func bgmMixArgs(voiceTrack, bgm string, total time.Duration, volumeDB float64, fade time.Duration, out string) []string {
	fadeOutStart := total - fade
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	filter := fmt.Sprintf(
		"[1:a]atrim=0:%s,volume=%.1fdB,afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s[bgm];"+
			"[0:a][bgm]amix=inputs=2:dropout_transition=0[out]",
		seconds(total), volumeDB, seconds(fade), seconds(fadeOutStart), seconds(fade),
	)

	return []string{
		"-i", voiceTrack,
		"-stream_loop", "-1", "-i", bgm,
		"-filter_complex", filter,
		"-map", "[out]",
		out,
	}
}
