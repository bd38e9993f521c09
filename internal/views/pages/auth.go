package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Public("Sign in · artmatch", LoginPartial(message, email))
}

// LoginPartial renders only the sign-in form for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Raw(`<section id="auth" class="auth"><h1>Welcome back</h1>`)
		m.Render(components.Flash(message))
		m.Raw(`<form method="post" action="/login" hx-post="/login" hx-target="#auth" hx-swap="outerHTML">`)
		m.Printf(`<label>Email <input type="email" name="email" value="%s" required autocomplete="email"></label>`, email)
		m.Raw(`<label>Password <input type="password" name="password" required autocomplete="current-password"></label>`)
		m.Raw(`<button type="submit">Sign in</button></form>`)
		m.Raw(`<p>New here? <a href="/signup">Create an account</a></p></section>`)
		return m.Err()
	})
}

// Signup renders the full registration page.
func Signup(message, name, email, role string) templ.Component {
	return layout.Public("Join · artmatch", SignupPartial(message, name, email, role))
}

// SignupPartial renders only the registration form for HTMX swaps.
func SignupPartial(message, name, email, role string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Raw(`<section id="auth" class="auth"><h1>Create your account</h1>`)
		m.Render(components.Flash(message))
		m.Raw(`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth" hx-swap="outerHTML">`)
		m.Printf(`<label>Name <input type="text" name="name" value="%s" autocomplete="name"></label>`, name)
		m.Printf(`<label>Email <input type="email" name="email" value="%s" required autocomplete="email"></label>`, email)
		m.Raw(`<label>Password <input type="password" name="password" required minlength="8" autocomplete="new-password"></label>`)
		m.Raw(`<label>Confirm password <input type="password" name="confirm_password" required minlength="8"></label>`)
		m.Raw(`<fieldset><legend>I am</legend>`)
		for _, option := range []struct{ value, label string }{
			{"collector", "A collector looking for art"},
			{"artist", "An artist listing my work"},
		} {
			checked := option.value == role || (role == "" && option.value == "collector")
			m.Render(components.Choice("radio", "role", option.value, option.label, checked))
		}
		m.Raw(`</fieldset><button type="submit">Create account</button></form>`)
		m.Raw(`<p>Already registered? <a href="/login">Sign in</a></p></section>`)
		return m.Err()
	})
}
