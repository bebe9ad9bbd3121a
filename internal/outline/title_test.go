package outline

import "testing"

func TestSelectTitle(t *testing.T) {
	sel := NewTitleSelector(DefaultConfig().Title)
	tests := []struct {
		name  string
		spans []TextSpan
		want  string
	}{
		{"no spans", nil, UntitledDocument},
		{"only late pages", []TextSpan{span("Appendix Material", 3, 30, true, 50)}, UntitledDocument},
		{"blank text", []TextSpan{span("   ", 1, 30, true, 50)}, UntitledDocument},
		{
			name: "best score",
			spans: []TextSpan{
				span("Draft.", 1, 24, false, 300),
				span("Annual Report 2024", 1, 24, true, 50),
				span("Some body text", 1, 12, false, 400),
			},
			want: "Annual Report 2024",
		},
		{
			name: "size tolerance",
			spans: []TextSpan{
				span("Quarterly Results Overview", 1, 20, true, 50),
				span("Noted.", 1, 24, false, 700),
			},
			want: "Noted.",
		},
		{
			name:  "noise falls back to first large span",
			spans: []TextSpan{span("Page 1 of 10", 1, 24, false, 50)},
			want:  "Page 1 of 10",
		},
		{
			name: "first wins equal scores",
			spans: []TextSpan{
				span("Alpha Report Title", 1, 24, true, 50),
				span("Gamma Report Title", 1, 24, true, 60),
			},
			want: "Alpha Report Title",
		},
		{
			name:  "second page",
			spans: []TextSpan{span("Machine Learning", 2, 18, true, 100)},
			want:  "Machine Learning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sel.Select(Normalize(tt.spans))
			if got.Text != tt.want {
				t.Errorf("Select = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestSelectTitleScore(t *testing.T) {
	sel := NewTitleSelector(DefaultConfig().Title)
	got := sel.Select(Normalize([]TextSpan{span("Machine Learning in Healthcare", 1, 24, true, 50)}))
	// size 40, bold 20, first page 20, top 15, four words 13, clean 10.
	if got.Score != 118 || got.Page != 1 {
		t.Errorf("Select = %+v, want score 118 on page 1", got)
	}
}
