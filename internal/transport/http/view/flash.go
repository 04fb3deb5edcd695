package view

import (
	"net/http"
	"net/url"
)

// Flash notices travel across the redirect-after-mutation hop as query
// parameters. They are display-only; nothing trusts their content.

func FlashFromRequest(r *http.Request) (msg, kind string) {
	q := r.URL.Query()
	msg = q.Get("flash")
	if msg == "" {
		return "", ""
	}
	kind = q.Get("kind")
	if kind != "error" {
		kind = "success"
	}
	return msg, kind
}

func FlashURL(path, msg, kind string) string {
	return path + "?flash=" + url.QueryEscape(msg) + "&kind=" + url.QueryEscape(kind)
}
