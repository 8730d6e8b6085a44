package views

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

//go:generate templ generate

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// tournamentPath builds /tournaments/{id}/parts...
func tournamentPath(id int64, parts ...string) string {
	return "/tournaments/" + strings.Join(append([]string{strconv.FormatInt(id, 10)}, parts...), "/")
}
