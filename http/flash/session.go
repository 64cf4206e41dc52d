package flash

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

// A Session holds the Flashes of one browser.
type Session struct {
	s *gorilla.Session
}

// Flashes retrieves and removes every Flash stored in the Session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	if len(raw) == 0 {
		return nil
	}

	fs := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			fs = append(fs, f)
		}
	}

	// Flashes are dropped from the Session only once it is saved.
	if err := s.s.Save(r, w); err != nil {
		return nil
	}

	return fs
}

// Add stores the Flash in the Session.
func (s Session) Add(w http.ResponseWriter, r *http.Request, f Flash) error {
	s.s.AddFlash(f)
	return s.s.Save(r, w)
}
