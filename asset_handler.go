package main

import (
	"html"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"deckstudio/i18n"
	"deckstudio/render"
)

// assetHandler serves the pages the webview loads: the interactive shell,
// the current slide, the slide overview and the print document.
func (a *App) assetHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", a.serveShell).Methods(http.MethodGet)
	r.HandleFunc("/slide", a.serveSlide).Methods(http.MethodGet)
	r.HandleFunc("/slide/{index:[0-9]+}", a.serveSlideAt).Methods(http.MethodGet)
	r.HandleFunc("/grid", a.serveGrid).Methods(http.MethodGet)
	r.HandleFunc("/print", a.servePrint).Methods(http.MethodGet)
	return r
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body)
}

func (a *App) serveShell(w http.ResponseWriter, r *http.Request) {
	page, err := render.ShellPage("Deck Studio", i18n.GetLanguage().Tag())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

func emptyStage() []byte {
	return []byte(`<div class="slide empty"><p>` + html.EscapeString(i18n.T("player.no_deck")) + `</p></div>`)
}

func (a *App) serveSlide(w http.ResponseWriter, r *http.Request) {
	p, err := a.activePlayer()
	if err != nil {
		writeHTML(w, emptyStage())
		return
	}
	out, err := render.HTML(p.View())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, []byte(out))
}

// serveSlideAt renders one slide of the current deck without moving the player.
func (a *App) serveSlideAt(w http.ResponseWriter, r *http.Request) {
	d, style, err := a.snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || i < 0 || i >= len(d.Slides) {
		http.NotFound(w, r)
		return
	}
	out, err := render.HTML(render.Render(d.Slides[i], style))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, []byte(out))
}

func (a *App) serveGrid(w http.ResponseWriter, r *http.Request) {
	p, err := a.activePlayer()
	if err != nil {
		writeHTML(w, emptyStage())
		return
	}
	st := p.State()
	out, err := render.GridDocument(p.Deck(), st.ActiveStyle, st.CurrentIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, out)
}

func (a *App) servePrint(w http.ResponseWriter, r *http.Request) {
	out, err := a.GetPrintHTML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeHTML(w, []byte(out))
}
