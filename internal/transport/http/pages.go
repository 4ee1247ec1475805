package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Minimal page markup. Layout and client-side behavior live elsewhere; the
// server only needs the routes to exist so the session gate has something to
// protect.
const (
	pageHome = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Project Green Leaf</title></head>
<body>
<h1>Project Green Leaf</h1>
<form method="post" action="/api/auth/login">
<input name="username" placeholder="Enter your username">
<input name="password" type="password" placeholder="Enter your password">
<button type="submit">Sign in</button>
</form>
</body>
</html>
`

	pageRecruiting = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Join the Program - Project Green Leaf</title></head>
<body>
<h1>Research Participant Application</h1>
<form method="post" action="/api/applications">
<input name="name" placeholder="Enter your full name">
<input name="email" placeholder="Enter your email address">
<input name="phone" placeholder="Enter your phone number">
<button type="submit">Apply</button>
</form>
</body>
</html>
`

	pagePrivacy = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Privacy - Project Green Leaf</title></head>
<body>
<h1>Privacy Notice</h1>
<p>Phone numbers are stored hashed. Contact details are used only for
research recruitment.</p>
</body>
</html>
`

	pageAdminHome = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Admin - Project Green Leaf</title></head>
<body>
<h1>Admin Home</h1>
<nav><a href="/general-setup">General setup</a> <a href="/targeting-setup">Targeting setup</a></nav>
</body>
</html>
`

	pageGeneralSetup = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>General Setup - Project Green Leaf</title></head>
<body>
<h1>General Setup</h1>
</body>
</html>
`

	pageTargetingSetup = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Targeting Setup - Project Green Leaf</title></head>
<body>
<h1>Targeting Setup</h1>
</body>
</html>
`
)

func servePage(markup string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(markup))
	}
}

func registerPages(r chi.Router) {
	r.Get("/", servePage(pageHome))
	r.Get("/recruiting", servePage(pageRecruiting))
	r.Get("/privacy", servePage(pagePrivacy))
	r.Get("/admin-home", servePage(pageAdminHome))
	r.Get("/general-setup", servePage(pageGeneralSetup))
	r.Get("/targeting-setup", servePage(pageTargetingSetup))
}
