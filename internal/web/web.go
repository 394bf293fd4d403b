// Package web holds the storefront HTML templates.
package web

import (
	"embed"
	"html/template"

	"techsat/config"
	"techsat/internal/presenter"
)

//go:embed templates/*.tmpl
var files embed.FS

// Page is the data every storefront template renders.
type Page struct {
	Title        string
	Active       string
	Store        config.StorefrontConfig
	Tagline      string
	Products     []presenter.Display
	DownloadLink string
	GeneralLink  string
	IPTVLink     string
	BoxLink      string
	CallLink     string
	Year         int
}

// Templates parses every embedded page. Page templates are named after
// their file, e.g. "home.tmpl".
func Templates() (*template.Template, error) {
	return template.New("storefront").ParseFS(files, "templates/*.tmpl")
}
