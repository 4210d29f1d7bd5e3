package deck

import "testing"

func TestResultKey(t *testing.T) {
	got := ResultKey("lecture1")
	want := "transcribe-lecture1.mp4.json"
	if got != want {
		t.Errorf("ResultKey(lecture1) = %q, want %q", got, want)
	}
}

func TestDeckName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"transcribe-lecture1.mp4.json", "lecture1"},
		{"results/transcribe-lecture1.mp4.json", "lecture1"},
		{"transcribe-my_talk.mp4.json", "my_talk"},
		{"lecture1.mp4.json", ""},
		{"transcribe-lecture1.txt", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := DeckName(tt.key); got != tt.want {
				t.Errorf("DeckName(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestResultKeyRoundTrip(t *testing.T) {
	names := []string{"lecture1", "a", "deep.dive", "my_talk-2024"}
	for _, name := range names {
		if got := DeckName(ResultKey(name)); got != name {
			t.Errorf("DeckName(ResultKey(%q)) = %q", name, got)
		}
	}
}

func TestSwapExt(t *testing.T) {
	tests := []struct {
		key, from, to string
		want          string
	}{
		{"transcribe-a.mp4.json", ".json", ".txt", "transcribe-a.mp4.txt"},
		{"transcribe-a.mp4.txt", ".txt", ".json", "transcribe-a.mp4.json"},
		{"dir/transcribe-a.mp4.json", ".json", ".txt", "dir/transcribe-a.mp4.txt"},
		// missing source extension: append rather than mangle
		{"transcribe-a.mp4", ".json", ".txt", "transcribe-a.mp4.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := SwapExt(tt.key, tt.from, tt.to); got != tt.want {
				t.Errorf("SwapExt(%q, %q, %q) = %q, want %q", tt.key, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"transcribe-lecture1.mp4.json", "transcribe-lecture1.mp4"},
		{"dir/transcribe-lecture1.mp4.json", "transcribe-lecture1.mp4"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Title(tt.key); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
