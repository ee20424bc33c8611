package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/view"
)

// Config is the setup wizard. GET renders a form for the required keys;
// POST stores the submitted values and saves the file once all are set.
// The page is private and never cached.
func (s *Service) Config(x *response.Exchange) error {
	r := x.Request()
	x.SetContext(cache.WithTTL(r.Context(), -1))
	st := x.State()
	st.SetPublicZone(false)

	form := view.SetupForm{Action: x.Info().RequestURI}
	if r.Method == http.MethodPost {
		s.submit(x, &form)
	}
	for _, k := range s.required {
		form.Fields = append(form.Fields, view.Field{Name: k, Value: s.Get(k)})
	}

	body, err := view.Render(x, view.Setup(view.For(s.i18n, x.Request()), form))
	if err != nil {
		return err
	}
	return x.Output(body, "text/html")
}

func (s *Service) submit(x *response.Exchange, form *view.SetupForm) {
	r := x.Request()
	st := x.State()
	if err := r.ParseForm(); err != nil {
		st.SetStatus(http.StatusBadRequest)
		form.Error = err.Error()
		return
	}

	for _, k := range s.required {
		if v := strings.TrimSpace(r.PostForm.Get(k)); v != "" {
			s.Set(k, v)
		}
	}
	if missing := s.Missing(); len(missing) > 0 {
		st.SetStatus(http.StatusBadRequest)
		form.Error = fmt.Sprintf("%v: %s", ErrMissingKeys, strings.Join(missing, ", "))
		return
	}
	if err := s.Save(); err != nil {
		x.Logger().Error("setup wizard failed to save parameters", logger.Error(err))
		st.SetStatus(http.StatusInternalServerError)
		form.Error = err.Error()
		return
	}
	form.Saved = true
}
