package textnorm

import (
	"strings"
	"testing"
)

func TestNormalizeEmails(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dotted local part",
			in:   "Contact john.doe@example.com",
			want: "Contact john dot doe at example dot com",
		},
		{
			name: "underscore and dash",
			in:   "mail me at jane_a-b@mail.example.org ok",
			want: "mail me at jane underscore a dash b at mail dot example dot org ok",
		},
		{
			name: "plain local part",
			in:   "support@example.io",
			want: "support at example dot io",
		},
		{
			name: "two addresses",
			in:   "a.b@x.com and c@y.org",
			want: "a dot b at x dot com and c at y dot org",
		},
		{
			name: "no match unchanged",
			in:   "nothing to rewrite here",
			want: "nothing to rewrite here",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmails(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeURLs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "https with www",
			in:   "https://www.example.com",
			want: "H T T P S colon slash slash W W W dot example dot com",
		},
		{
			name: "http without www",
			in:   "http://example.com",
			want: "H T T P colon slash slash example dot com",
		},
		{
			name: "bare domain",
			in:   "see example.org today",
			want: "see example dot org today",
		},
		{
			name: "no match unchanged",
			in:   "no links in this sentence",
			want: "no links in this sentence",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURLs(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeURLPathMinimalSpelling(t *testing.T) {
	// Path segments are joined with the word slash but not spelled out
	// further; the leading separator is rendered too.
	got := NormalizeURLs("https://example.com/docs/install")
	want := "H T T P S colon slash slash example dot com slash slash docs slash install"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizePhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "international with dashes",
			in:   "+1-555-123-4567",
			want: "plus 1 5 5 5 1 2 3 4 5 6 7",
		},
		{
			name: "parenthesized area code",
			in:   "(555) 123-4567",
			want: "5 5 5 1 2 3 4 5 6 7",
		},
		{
			name: "dotted",
			in:   "555.123.4567",
			want: "5 5 5 1 2 3 4 5 6 7",
		},
		{
			name: "no match unchanged",
			in:   "call me sometime",
			want: "call me sometime",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhones(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeOrderPreventsRematch(t *testing.T) {
	// Email rewriting runs before URL rewriting, so the URL pass must not
	// re-match the already rewritten address.
	got := Normalize("write john.doe@example.com", Options{Emails: true, URLs: true})
	if !strings.Contains(got, "john dot doe at example dot com") {
		t.Errorf("email rewrite missing or damaged: %q", got)
	}
	if strings.Contains(got, "@") {
		t.Errorf("address left unrewritten: %q", got)
	}
}

func TestNormalizeDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.Emails || opts.URLs || opts.Phones {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	in := "john.doe@example.com at https://example.com"
	got := Normalize(in, opts)
	if !strings.Contains(got, "john dot doe at example dot com") {
		t.Errorf("emails should rewrite by default: %q", got)
	}
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("urls should stay verbatim by default: %q", got)
	}
}

func TestNormalizeZeroOptionsIsIdentity(t *testing.T) {
	in := "john.doe@example.com https://example.com +1-555-123-4567"
	if got := Normalize(in, Options{}); got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}
