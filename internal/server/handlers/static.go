package handlers

import (
	"io/fs"
	"net/http"
)

// StaticHandler serves the embedded assets mounted under /assets/
func StaticHandler(assets fs.FS) http.Handler {
	files := http.StripPrefix("/assets/", http.FileServer(http.FS(assets)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
