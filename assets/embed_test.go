package assets

import (
	"slices"
	"testing"
)

func TestCleanAssetPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"jump.wav", "jump.wav"},
		{"assets/jump.wav", "jump.wav"},
		{"/home/dev/platformer/assets/pop.wav", "pop.wav"},
		{"/tmp/fire.wav", "fire.wav"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := cleanAssetPath(c.in); got != c.want {
				t.Fatalf("cleanAssetPath(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestEmbeddedClips(t *testing.T) {
	clips := Clips()
	for _, name := range []string{"jump.wav", "fire.wav", "pop.wav"} {
		if !slices.Contains(clips, name) {
			t.Fatalf("clip %s not embedded (have %v)", name, clips)
		}
		b, err := LoadFile("assets/" + name)
		if err != nil || len(b) < 44 || string(b[:4]) != "RIFF" {
			t.Fatalf("clip %s is not a wav file: %v", name, err)
		}
	}
}
