// Package templates renders the dashboard's HTML. Components implement
// templ.Component directly so pages and HTMX-style partials share one
// rendering path.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the HTML shell: head, static assets, page chrome.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/styles.css">
<script src="/static/app.js" defer></script>
</head>
<body>
<header class="topbar"><h1>🔬 연구 프로젝트 관리 시스템</h1></header>
<main class="layout">
`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// ErrorAlert renders a dismissible alert with the user message, the
// suggested action, and the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><strong>%s</strong> <span>%s</span> <code>%s</code></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
}

// ErrorPage renders a full page holding only an error alert. Used when
// the dataset cannot be loaded: no data renders at all.
func ErrorPage(message, action, code string) templ.Component {
	return Page("연구 프로젝트 관리 시스템", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return ErrorAlert(message, action, code).Render(ctx, w)
	}))
}
