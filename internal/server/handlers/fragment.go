package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/pkg/logging"
)

var fragments = template.Must(template.New("chromestatus").Parse(
	`<h2><a href="https://chromestatus.com/feature/{{.ID}}">{{.Name}}</a></h2>
<p>{{.Summary}}</p>
{{with .Standards.Spec}}<p>Spec: <a href="{{.}}">{{.}}</a></p>
{{end}}{{with .WebFeature}}<p>Current web feature: <code>{{.}}</code></p>
{{end}}`))

func init() {
	template.Must(fragments.New("web-features").Parse(
		`<h2><a href="https://webstatus.dev/features/{{.ID}}">{{.Name}}</a> <code>{{.ID}}</code></h2>
<p>{{.Description}}</p>
{{range .Links}}<p>Spec: <a href="{{.}}">{{.}}</a></p>
{{end}}`))
}

type featureView struct {
	ID          string
	Name        string
	Description string
	Links       []string
}

// HandleFragment handles GET /fragment/{catalog}/{id}, rendering the
// detail section markup the terminal reviewer displays. Rendered
// fragments are cached for the configured TTL.
func (h *Handlers) HandleFragment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cat, err := catalogs.ParseCatalog(vars["catalog"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	id := vars["id"]

	key := cat.String() + "/" + id
	if cached, ok := h.cache.Get(key); ok {
		writeFragment(w, cached.([]byte))
		return
	}

	var (
		buf   bytes.Buffer
		found bool
	)
	switch cat {
	case catalogs.Chromestatus:
		var entry catalogs.Entry
		if entry, found = h.catalogs.Entry(id); found {
			err = fragments.ExecuteTemplate(&buf, string(cat), entry)
		}
	case catalogs.WebFeatures:
		var feature catalogs.Feature
		if feature, found = h.catalogs.Feature(id); found {
			err = fragments.ExecuteTemplate(&buf, string(cat), featureView{
				ID:          id,
				Name:        feature.Name,
				Description: feature.Description,
				Links:       feature.SpecLinks(),
			})
		}
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("fragment", key).Msg("Failed to render fragment")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.cache.Set(key, buf.Bytes())
	writeFragment(w, buf.Bytes())
}

func writeFragment(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}
