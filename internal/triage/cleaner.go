package triage

import (
	"regexp"
	"strings"
)

// CleanBody strips quoted reply chains and signature blocks from an email
// body, keeping only the newly authored content in its original order. The
// separation is a best-effort heuristic; when it leaves nothing visible the
// raw input is returned unmodified so content is never lost.
func CleanBody(body string) string {
	fragments := parseFragments(body)

	var visible []string
	for _, f := range fragments {
		if f.hidden || f.signature {
			continue
		}
		visible = append(visible, f.content())
	}

	cleaned := strings.TrimSpace(strings.Join(visible, "\n"))
	if cleaned == "" {
		return body
	}
	return cleaned
}

var (
	quoteHeaderRe = regexp.MustCompile(`(?i)^\s*On .{1,200} wrote:\s*$`)
	forwardHdrRe  = regexp.MustCompile(`(?i)^\s*(From|Sent|Date|To|Subject):\s`)
	signatureRe   = regexp.MustCompile(`(?i)^\s*(--\s*|__\s*|Sent from my (\w+ ?){1,3})$`)
	signOffRe     = regexp.MustCompile(`(?i)^\s*(Best regards|Kind regards|Regards|Thanks|Thank you|Cheers|Sincerely|Best)[,.!]?\s*$`)
)

type fragment struct {
	lines     []string
	quoted    bool
	signature bool
	hidden    bool
}

func (f *fragment) content() string {
	return strings.Join(f.lines, "\n")
}

func (f *fragment) empty() bool {
	return strings.TrimSpace(f.content()) == ""
}

func parseFragments(body string) []*fragment {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var fragments []*fragment
	var current *fragment

	newFragment := func(quoted, signature bool) *fragment {
		f := &fragment{quoted: quoted, signature: signature}
		fragments = append(fragments, f)
		return f
	}

	for _, line := range lines {
		quoted := strings.HasPrefix(strings.TrimLeft(line, " "), ">")
		header := quoteHeaderRe.MatchString(line) || forwardHdrRe.MatchString(line)
		sigStart := signatureRe.MatchString(line) || signOffRe.MatchString(line)

		switch {
		case current != nil && current.signature && !quoted:
			// Signature runs to the end of its block.
			current.lines = append(current.lines, line)
		case sigStart:
			current = newFragment(false, true)
			current.lines = append(current.lines, line)
		case header || quoted:
			if current == nil || !current.quoted {
				current = newFragment(true, false)
			}
			current.lines = append(current.lines, line)
		default:
			// A blank line between quoted blocks stays attached to the quote;
			// anything else starts or continues authored content.
			if strings.TrimSpace(line) == "" && current != nil && current.quoted {
				current.lines = append(current.lines, line)
				continue
			}
			if current == nil || current.quoted || current.signature {
				current = newFragment(false, false)
			}
			current.lines = append(current.lines, line)
		}
	}

	// Hide from the bottom up: quoted, signature and empty fragments are
	// hidden until the first authored fragment is reached.
	for i := len(fragments) - 1; i >= 0; i-- {
		f := fragments[i]
		if f.quoted || f.signature || f.empty() {
			f.hidden = true
			continue
		}
		break
	}
	for _, f := range fragments {
		if f.quoted {
			f.hidden = true
		}
	}

	return fragments
}
