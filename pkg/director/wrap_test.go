package director

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "空文字は空行1つ",
			text: "",
			want: []string{""},
		},
		{
			name: "空白のみも空行1つ",
			text: "   \t ",
			want: []string{""},
		},
		{
			name: "短い文はそのまま",
			text: "hi",
			want: []string{"hi"},
		},
		{
			name: "閾値で折り返す",
			text: "hello there my good friend",
			want: []string{"hello there my", "good friend"},
		},
		{
			name: "末尾の空白込みで15文字を超えたら改行",
			text: "abcdefg abcdefg",
			want: []string{"abcdefg", "abcdefg"},
		},
		{
			name: "長い単語は分割せず、先頭なら空行を先に置く",
			text: "supercalifragilistic word",
			want: []string{"", "supercalifragilistic", "word"},
		},
		{
			name: "連続した空白は1つとして扱う",
			text: "a   b\n\nc",
			want: []string{"a b c"},
		},
		{
			name: "マルチバイト文字は文字数で数える",
			text: "안녕하세요 반가워요 오늘은 날씨가",
			want: []string{"안녕하세요 반가워요", "오늘은 날씨가"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWrap_LineBound(t *testing.T) {
	inputs := []string{
		"This is a story all about how my life got flip-turned upside down",
		"a bb ccc dddd eeeee ffffff ggggggg hhhhhhhh iiiiiiiii jjjjjjjjjj",
		"x",
		"incomprehensibilities are antidisestablishmentarian",
		strings.Repeat("word ", 40),
	}

	for _, in := range inputs {
		words := map[string]bool{}
		for _, w := range strings.Fields(in) {
			words[w] = true
		}
		lines := Wrap(in)
		if len(lines) == 0 {
			t.Fatalf("Wrap(%q) が空です", in)
		}
		for _, line := range lines {
			if utf8.RuneCountInString(strings.TrimSpace(line)) <= DefaultMaxLineChars {
				continue
			}
			// 閾値を超えてよいのは単語1つだけの行
			if !words[line] {
				t.Errorf("閾値を超えた行があります: %q (input %q)", line, in)
			}
		}
		if got, want := strings.Join(strings.Fields(strings.Join(lines, " ")), " "), strings.Join(strings.Fields(in), " "); got != want {
			t.Errorf("単語が失われています: %q != %q", got, want)
		}
	}
}

func TestWrapper_CustomLimit(t *testing.T) {
	w := Wrapper{MaxChars: 6}
	if got, want := w.Wrap("ab cd ef"), []string{"ab cd", "ef"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	zero := Wrapper{}
	if got := zero.Wrap("hello there my good friend"); !reflect.DeepEqual(got, Wrap("hello there my good friend")) {
		t.Errorf("MaxChars 未設定は既定値で折り返すべきです: %q", got)
	}
}
