package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/usecase"
	"github.com/quotelab/premia/pkg/utils/errutil"
	"github.com/quotelab/premia/pkg/utils/safe"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// quoteHandler decodes an applicant profile and returns the computed
// premium amounts. All profile fields are optional, so an empty body is a
// valid request; only an undecodable body is rejected.
func quoteHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile model.ApplicantProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		resp, err := uc.ComputeQuote(r.Context(), profile)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to compute quote"), http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, resp)
	}
}

// statusHandler reports the vector index store state
func statusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, uc.IndexStatus(r.Context()))
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}
