package main

import (
	"errors"
	"net/http"

	"github.com/Marcoluik/Biblenotes/internal/bible"
	"github.com/Marcoluik/Biblenotes/internal/resolver"
)

// showVerseHandler resolves a free-text reference to verse text.
// Query parameters: ref (required), lang (en|da, default en), source
// (local|remote, default from config).
func (app *application) showVerseHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ref := query.Get("ref")
	if ref == "" {
		app.badRequestResponse(w, r, errors.New("ref parameter is required"))
		return
	}

	lang := query.Get("lang")
	if lang == "" {
		lang = bible.LangEnglish
	}
	if !bible.SupportedLanguage(lang) {
		app.badRequestResponse(w, r, errors.New("lang must be one of: en, da"))
		return
	}

	sourceParam := query.Get("source")
	if sourceParam == "" {
		sourceParam = app.config.defaultSource
	}
	source, ok := resolver.ParseSource(sourceParam)
	if !ok {
		app.badRequestResponse(w, r, errors.New("source must be one of: local, remote"))
		return
	}

	result, err := app.resolver.Resolve(r.Context(), ref, lang, source)
	if err != nil {
		switch {
		case errors.Is(err, resolver.ErrUnparseableReference):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, resolver.ErrVerseNotFound):
			app.notFoundResponse(w, r, "no text found for that reference")
		case errors.Is(err, resolver.ErrUpstreamTimeout):
			app.gatewayTimeoutResponse(w, r)
		case errors.Is(err, resolver.ErrUpstreamFailed):
			app.badGatewayResponse(w, r, err)
		case errors.Is(err, resolver.ErrDatasetUnavailable):
			app.serviceUnavailableResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"verse": result}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
