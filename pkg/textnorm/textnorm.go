// Package textnorm rewrites substrings that speech models mispronounce,
// such as email addresses, URLs, and phone numbers, into phonetically
// spellable text.
//
// Transforms apply in a fixed order (emails, then URLs, then phones) so a
// later pattern never re-matches text an earlier one already rewrote. A
// transform that matches nothing returns its input unchanged.
package textnorm

import (
	"regexp"
	"strings"
)

// Options selects which transforms run. Zero value runs nothing; use
// DefaultOptions for the standard set.
type Options struct {
	Emails bool
	URLs   bool
	Phones bool
}

// DefaultOptions enables email rewriting only. URL and phone rewriting are
// opt-in because their patterns are broader and can touch text the caller
// wants verbatim.
func DefaultOptions() Options {
	return Options{Emails: true}
}

var (
	emailPattern = regexp.MustCompile(`\b([a-zA-Z0-9._-]+)@([a-zA-Z0-9._-]+\.[a-zA-Z]{2,})\b`)
	urlPattern   = regexp.MustCompile(`(https?://)?([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})(/[^\s]*)?`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3})?[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	nonDigit     = regexp.MustCompile(`[^\d+]`)
)

// Normalize applies the enabled transforms to text in fixed order.
func Normalize(text string, opts Options) string {
	result := text
	if opts.Emails {
		result = NormalizeEmails(result)
	}
	if opts.URLs {
		result = NormalizeURLs(result)
	}
	if opts.Phones {
		result = NormalizePhones(result)
	}
	return result
}

// NormalizeEmails rewrites addresses like john.doe@example.com as
// "john dot doe at example dot com". Dots, underscores, and hyphens in the
// local part become the words dot, underscore, and dash; domain dots become
// the word dot; the halves are joined with the word at.
func NormalizeEmails(text string) string {
	return emailPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := emailPattern.FindStringSubmatch(match)
		local := groups[1]
		domain := groups[2]

		local = strings.ReplaceAll(local, ".", " dot ")
		local = strings.ReplaceAll(local, "_", " underscore ")
		local = strings.ReplaceAll(local, "-", " dash ")
		domain = strings.ReplaceAll(domain, ".", " dot ")

		return local + " at " + domain
	})
}

// NormalizeURLs rewrites URLs like https://www.example.com as
// "H T T P S colon slash slash W W W dot example dot com". The protocol
// and a www prefix are spelled letter by letter; domain segments are joined
// with the word dot. Path handling is intentionally minimal: slashes become
// the word slash with no further spelling of the segments.
func NormalizeURLs(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := urlPattern.FindStringSubmatch(match)
		protocol := groups[1]
		domain := groups[2]
		path := groups[3]

		var b strings.Builder
		if strings.Contains(protocol, "https") {
			b.WriteString("H T T P S colon slash slash ")
		} else if strings.Contains(protocol, "http") {
			b.WriteString("H T T P colon slash slash ")
		}
		if strings.HasPrefix(domain, "www.") {
			b.WriteString("W W W dot ")
			domain = domain[4:]
		}
		b.WriteString(strings.ReplaceAll(domain, ".", " dot "))
		if path != "" {
			b.WriteString(" slash ")
			b.WriteString(strings.TrimSpace(strings.ReplaceAll(path, "/", " slash ")))
		}
		return b.String()
	})
}

// NormalizePhones rewrites numbers in common layouts, with or without a
// country code, as space-separated digits; a leading + becomes the word
// plus. Example: +1-555-123-4567 becomes "plus 1 5 5 5 1 2 3 4 5 6 7".
func NormalizePhones(text string) string {
	return phonePattern.ReplaceAllStringFunc(text, func(match string) string {
		digits := nonDigit.ReplaceAllString(match, "")

		var b strings.Builder
		for _, r := range digits {
			if r == '+' {
				b.WriteString("plus ")
			} else {
				b.WriteRune(r)
				b.WriteByte(' ')
			}
		}
		return strings.TrimSpace(b.String())
	})
}
