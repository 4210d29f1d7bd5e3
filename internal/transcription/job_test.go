package transcription

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

func TestMediaFormat(t *testing.T) {
	tests := []struct {
		key       string
		want      types.MediaFormat
		wantError bool
	}{
		{"lecture.mp4", types.MediaFormatMp4, false},
		{"lecture.MP4", types.MediaFormatMp4, false},
		{"audio.wav", types.MediaFormatWav, false},
		{"audio.mp3", types.MediaFormatMp3, false},
		{"audio.flac", types.MediaFormatFlac, false},
		{"audio.ogg", types.MediaFormatOgg, false},
		{"dir/lecture.mp4", types.MediaFormatMp4, false},
		{"slides.pdf", "", true},
		{"notes.txt", "", true},
		{"noextension", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			format, err := MediaFormat(tt.key)
			if tt.wantError {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("MediaFormat(%q) err = %v, want ErrUnsupportedFormat", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MediaFormat(%q) unexpected error: %v", tt.key, err)
			}
			if format != tt.want {
				t.Errorf("MediaFormat(%q) = %v, want %v", tt.key, format, tt.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		key       string
		want      string
		wantError bool
	}{
		{"lecture.mp4", "video/mp4", false},
		{"audio.wav", "audio/wav", false},
		{"audio.mp3", "audio/mpeg", false},
		{"audio.flac", "audio/flac", false},
		{"audio.ogg", "audio/ogg", false},
		{"slides.pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ct, err := ContentType(tt.key)
			if tt.wantError {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ContentType(%q) err = %v, want ErrUnsupportedFormat", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ContentType(%q) unexpected error: %v", tt.key, err)
			}
			if ct != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.key, ct, tt.want)
			}
		})
	}
}

func TestJobName(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"plain", "lecture1.mp4", "transcribe-lecture1.mp4"},
		{"directory stripped", "uploads/lecture1.mp4", "transcribe-lecture1.mp4"},
		{"spaces sanitized", "my lecture.mp4", "transcribe-my_lecture.mp4"},
		{"special chars sanitized", "a&b(c).mp4", "transcribe-a_b_c_.mp4"},
		{"dots and dashes kept", "deep.dive-2.mp4", "transcribe-deep.dive-2.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JobName(tt.key); got != tt.want {
				t.Errorf("JobName(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestJobName_Truncation(t *testing.T) {
	long := strings.Repeat("a", 80) + ".mp4"
	got := JobName(long)
	if !strings.HasPrefix(got, "transcribe-") {
		t.Fatalf("missing prefix: %q", got)
	}
	base := strings.TrimPrefix(got, "transcribe-")
	if len(base) != 50 {
		t.Errorf("base length = %d, want 50", len(base))
	}
	if base != strings.Repeat("a", 50) {
		t.Errorf("base = %q", base)
	}
}

func TestJobName_Deterministic(t *testing.T) {
	if JobName("lecture1.mp4") != JobName("lecture1.mp4") {
		t.Error("same key produced different job names")
	}
}
