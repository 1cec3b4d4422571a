package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	// Vertical shorts canvas
	Width  = 1080
	Height = 1920
	FPS    = 24

	// Music sits well under the narration
	MusicVolume = 0.12

	// B-roll is darkened so the text overlay stays readable
	darkenBrightness = "-0.2"

	// Solid fallback background when a segment has no B-roll clip
	fallbackColor = "0x101020"

	fontSize     = 52
	maxLineChars = 24
)

// SegmentSpec is one phrase of the final video: its overlay text, the
// B-roll clip backing it (optional), and how long it stays on screen.
type SegmentSpec struct {
	Text     string
	ClipPath string
	Duration float64
}

// Spec describes a complete render job.
type Spec struct {
	Segments      []SegmentSpec
	VoiceoverPath string
	MusicPath     string
	OutputPath    string
	WorkDir       string
}

// Compose renders the final MP4: per-segment B-roll with text overlays,
// concatenated in order, with the voiceover and (optionally) looped
// background music mixed underneath.
func Compose(spec Spec) error {
	if len(spec.Segments) == 0 {
		return fmt.Errorf("render spec has no segments")
	}
	if spec.VoiceoverPath == "" {
		return fmt.Errorf("render spec has no voiceover")
	}
	if err := os.MkdirAll(spec.WorkDir, 0755); err != nil {
		return err
	}

	// Step 1: render each segment to an intermediate clip
	var segmentFiles []string
	for i, seg := range spec.Segments {
		out := filepath.Join(spec.WorkDir, fmt.Sprintf("segment_%02d.mp4", i))
		if err := renderSegment(seg, out); err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
		segmentFiles = append(segmentFiles, out)
	}

	// Step 2: concatenate the segments
	silent := filepath.Join(spec.WorkDir, "visuals.mp4")
	if err := concatSegments(segmentFiles, silent, spec.WorkDir); err != nil {
		return fmt.Errorf("concat segments: %w", err)
	}

	// Step 3: mix audio onto the video
	if err := muxAudio(silent, spec.VoiceoverPath, spec.MusicPath, spec.OutputPath); err != nil {
		return fmt.Errorf("mux audio: %w", err)
	}

	log.Printf("Rendered video: %s", spec.OutputPath)
	return nil
}

// renderSegment produces one text-over-B-roll clip. A missing clip path
// falls back to a solid dark background.
func renderSegment(seg SegmentSpec, out string) error {
	var stream *ffmpeg.Stream
	if seg.ClipPath != "" {
		// Loop short clips so they cover the whole phrase, scale-and-crop
		// to the vertical canvas, and darken for the overlay.
		stream = ffmpeg.Input(seg.ClipPath, ffmpeg.KwArgs{"stream_loop": -1}).
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", Width, Height)}, ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
			Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", Width, Height)}).
			Filter("eq", ffmpeg.Args{}, ffmpeg.KwArgs{"brightness": darkenBrightness})
	} else {
		stream = ffmpeg.Input(
			fmt.Sprintf("color=c=%s:s=%dx%d:d=%.2f", fallbackColor, Width, Height, seg.Duration),
			ffmpeg.KwArgs{"f": "lavfi"},
		)
	}

	stream = stream.Filter("drawtext", ffmpeg.Args{}, ffmpeg.KwArgs{
		"text":         EscapeDrawText(WrapText(seg.Text, maxLineChars)),
		"fontsize":     fontSize,
		"fontcolor":    "white",
		"font":         "Sans",
		"x":            "(w-text_w)/2",
		"y":            "(h-text_h)/2",
		"shadowcolor":  "black@0.7",
		"shadowx":      2,
		"shadowy":      2,
		"line_spacing": 18,
	})

	return stream.
		Output(out, ffmpeg.KwArgs{
			"t":       fmt.Sprintf("%.2f", seg.Duration),
			"r":       FPS,
			"c:v":     "libx264",
			"preset":  "ultrafast",
			"pix_fmt": "yuv420p",
			"an":      "",
		}).
		OverWriteOutput().
		Run()
}

// concatSegments joins intermediate clips with the concat demuxer.
func concatSegments(files []string, out, workDir string) error {
	listFile := filepath.Join(workDir, "concat.txt")
	var lines []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("file '%s'", abs))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return err
	}

	return ffmpeg.Input(listFile, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(out, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().
		Run()
}

// muxAudio lays the voiceover (and music, looped and ducked) under the
// silent visuals. The output ends with the video track.
func muxAudio(videoPath, voiceoverPath, musicPath, out string) error {
	video := ffmpeg.Input(videoPath).Get("v")

	var audio *ffmpeg.Stream
	if musicPath != "" {
		voiceover := ffmpeg.Input(voiceoverPath).Get("a")
		music := ffmpeg.Input(musicPath, ffmpeg.KwArgs{"stream_loop": -1}).Get("a").
			Filter("volume", ffmpeg.Args{fmt.Sprintf("%.2f", MusicVolume)})
		audio = ffmpeg.Filter([]*ffmpeg.Stream{voiceover, music}, "amix",
			ffmpeg.Args{}, ffmpeg.KwArgs{"inputs": 2, "duration": "first"})
	} else {
		audio = ffmpeg.Input(voiceoverPath).Get("a")
	}

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, out, ffmpeg.KwArgs{
		"c:v":      "copy",
		"c:a":      "aac",
		"shortest": "",
	}).
		OverWriteOutput().
		Run()
}

// WrapText inserts newlines so no line exceeds maxChars. Words longer
// than a line get a line of their own.
func WrapText(text string, maxChars int) string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxChars:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}

// EscapeDrawText escapes the characters the drawtext filter treats
// specially.
func EscapeDrawText(text string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(text)
}
