package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLexLine(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		want        []token
		wantComment string
	}{
		{
			name: "struct declaration",
			src:  "pub const Position = struct {",
			want: []token{
				{tokIdent, "pub"}, {tokIdent, "const"}, {tokIdent, "Position"},
				{tokSymbol, "="}, {tokIdent, "struct"}, {tokSymbol, "{"},
			},
		},
		{
			name: "pointer parameter",
			src:  "self: *Position",
			want: []token{{tokIdent, "self"}, {tokSymbol, ":"}, {tokSymbol, "*"}, {tokIdent, "Position"}},
		},
		{
			name:        "trailing comment",
			src:         "x: u32, // capacity = 10",
			want:        []token{{tokIdent, "x"}, {tokSymbol, ":"}, {tokIdent, "u32"}, {tokSymbol, ","}},
			wantComment: " capacity = 10",
		},
		{
			name: "string hides marker",
			src:  `const s = "fn update(";`,
			want: []token{
				{tokIdent, "const"}, {tokIdent, "s"}, {tokSymbol, "="},
				{tokString, `"fn update("`}, {tokSymbol, ";"},
			},
		},
		{
			name: "escaped quote",
			src:  `"a\"b" c`,
			want: []token{{tokString, `"a\"b"`}, {tokIdent, "c"}},
		},
		{
			name: "multiline string",
			src:  `\\ fn update(x)`,
			want: []token{{tokString, " fn update(x)"}},
		},
		{
			name: "integer",
			src:  "cap 1024",
			want: []token{{tokIdent, "cap"}, {tokInt, "1024"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexLine(tt.src)
			if diff := cmp.Diff(tt.want, got.code, cmp.AllowUnexported(token{})); diff != "" {
				t.Errorf("lexLine(%q) code mismatch (-want +got):\n%s", tt.src, diff)
			}
			if got.comment != tt.wantComment {
				t.Errorf("comment = %q, want %q", got.comment, tt.wantComment)
			}
		})
	}
}

func TestLexLine_CommentOnly(t *testing.T) {
	got := lexLine("// pub fn update(gs: *GameSession) void")
	if len(got.code) != 0 {
		t.Errorf("code tokens = %v, want none", got.code)
	}
	if !got.hasComment {
		t.Error("hasComment = false, want true")
	}
}
