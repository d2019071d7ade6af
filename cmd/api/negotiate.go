package main

import (
	"net/http"

	"github.com/munnerz/goautoneg"
)

// wantsJSON reports whether the client accepts application/json but not
// text/html. Wildcards count, so browsers sending */* get HTML.
func wantsJSON(r *http.Request) bool {
	header := r.Header.Get("Accept")
	if header == "" {
		return false
	}

	accepts := goautoneg.ParseAccept(header)
	return quality(accepts, "application", "json") > 0 && quality(accepts, "text", "html") == 0
}

// quality returns the q value of the most specific range matching
// typ/subtype.
func quality(accepts []goautoneg.Accept, typ, subtype string) float64 {
	best, specificity := 0.0, -1
	for _, a := range accepts {
		var s int
		switch {
		case a.Type == typ && a.SubType == subtype:
			s = 2
		case a.Type == typ && a.SubType == "*":
			s = 1
		case a.Type == "*" && a.SubType == "*":
			s = 0
		default:
			continue
		}
		if s > specificity {
			best, specificity = a.Q, s
		}
	}
	return best
}
