package http

import (
	"html/template"
	"io/fs"
	"net/http"
)

// ServeDashboard serves the main dashboard page from the embedded frontend.
func ServeDashboard(frontendFS fs.FS) http.HandlerFunc {
	return servePage(frontendFS, "index.html")
}

// ServeCompaniesPage serves the company browser page.
func ServeCompaniesPage(frontendFS fs.FS) http.HandlerFunc {
	return servePage(frontendFS, "companies.html")
}

// servePage renders an embedded HTML page with security headers.
func servePage(frontendFS fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := template.ParseFS(frontendFS, name)
		if err != nil {
			http.Error(w, "Error loading page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if err := tmpl.Execute(w, nil); err != nil {
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}
	}
}
