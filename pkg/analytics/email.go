package analytics

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const Disclaimer = "This e-mail is auto-generated using AI by Cubie Assistant. Please verify any data or actions before making business decisions."

// Identity is the authenticated user behind a turn.
type Identity struct {
	UserID   string
	UserName string
	Email    string
}

var (
	markdown   = goldmark.New(goldmark.WithExtensions(extension.Table))
	bodyPolicy = bluemonday.UGCPolicy()
)

// RenderEmailHTML converts a markdown body into sanitized HTML and appends
// the chart link and AI disclaimer.
func RenderEmailHTML(body string, chartURL string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render email markdown: %w", err)
	}

	var out strings.Builder
	out.WriteString(`<div style="font-family:Arial,sans-serif;font-size:14px;color:#1f2937">`)
	out.WriteString(bodyPolicy.Sanitize(buf.String()))
	if chartURL != "" {
		fmt.Fprintf(&out, `<p><a href="%s">Open the chart</a></p>`, html.EscapeString(chartURL))
	}
	fmt.Fprintf(&out, `<hr><p style="font-size:12px;color:#6b7280"><em>%s</em></p>`, html.EscapeString(Disclaimer))
	out.WriteString(`</div>`)
	return out.String(), nil
}

// resolveRecipients turns what the user typed into addresses. "me" is the
// caller, anything with an @ is taken as written, other names go through the
// user directory. Unresolved entries are returned separately.
func resolveRecipients(ctx context.Context, backend Backend, raw []string, user Identity) ([]string, []string, error) {
	var emails, unresolved, lookup []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		lower := strings.ToLower(r)
		switch {
		case r == "":
		case lower == "me" || lower == "myself":
			if user.Email == "" {
				unresolved = append(unresolved, r)
				continue
			}
			emails = append(emails, user.Email)
		case strings.Contains(r, "@"):
			addr, err := mail.ParseAddress(r)
			if err != nil {
				unresolved = append(unresolved, r)
				continue
			}
			emails = append(emails, addr.Address)
		default:
			lookup = append(lookup, lower)
		}
	}

	if len(lookup) > 0 {
		found, err := backend.ResolveUserEmails(ctx, lookup)
		if err != nil {
			return nil, nil, err
		}
		for _, name := range lookup {
			if email, ok := found[name]; ok {
				emails = append(emails, email)
			} else {
				unresolved = append(unresolved, name)
			}
		}
	}

	return dedupeFold(emails), unresolved, nil
}

func dedupeFold(values []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}
