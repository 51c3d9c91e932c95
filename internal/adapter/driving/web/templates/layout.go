// Package templates holds the shared HTML shell for the panel's pages.
// Components are authored directly against the templ runtime; the layout
// carries no behavioral contract beyond rendering its content component.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
)

// Layout wraps a page component in the HTML shell: head, navigation, and
// the one-shot flash banner.
func Layout(title string, nav vm.Nav, flash *vm.Flash, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<header class="topbar"><a href="/" class="brand">hearth</a><nav>`, templ.EscapeString(title)); err != nil {
			return err
		}

		var navLinks string
		if nav.Authenticated {
			navLinks = fmt.Sprintf(
				`<a href="/app/dashboard">Dashboard</a><a href="/app/finances">Finances</a><a href="/app/tasks">Tasks</a><span class="who">%s</span><form method="post" action="/logout" class="inline"><input type="hidden" name="csrf_token" value="%s"><button type="submit">Log out</button></form>`,
				templ.EscapeString(nav.UserName),
				templ.EscapeString(nav.CSRF),
			)
		} else {
			navLinks = `<a href="/login">Log in</a><a href="/register">Register</a>`
		}
		if _, err := io.WriteString(w, navLinks+`</nav></header><main>`); err != nil {
			return err
		}

		if flash != nil {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-%s" role="status">%s</div>`,
				templ.EscapeString(flash.Level), templ.EscapeString(flash.Message)); err != nil {
				return err
			}
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
