package main

import (
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/httputil"
	"github.com/AdamBeresnev/bracket-board/internal/service"
	"github.com/go-chi/chi/v5"
)

type editDateRequest struct {
	Date string `json:"date"`
}

type renameRequest struct {
	service.ParticipantRef
	Name string `json:"name"`
}

// apiRoutes serves the bracket as JSON. Edits the engine cannot resolve
// answer 200 with the unchanged tournament.
func (app *application) apiRoutes(r chi.Router) {
	r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := app.tournaments.ListTournaments(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get tournaments", err)
			return
		}
		if tournaments == nil {
			tournaments = []bracket.Tournament{}
		}
		httputil.JSON(w, http.StatusOK, tournaments)
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var input service.CreateTournamentInput
		if err := httputil.DecodeJSON(r, &input); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		tournament, err := app.tournaments.CreateTournament(r.Context(), input)
		if err != nil {
			serviceError(w, "Failed to create tournament", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, tournament)
	})

	r.Route("/tournaments/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			tournament, err := app.tournaments.GetTournament(r.Context(), id)
			if err != nil {
				serviceError(w, "Failed to get tournament", err)
				return
			}
			httputil.JSON(w, http.StatusOK, tournament)
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
				serviceError(w, "Failed to delete tournament", err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/winner", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			var ref service.ParticipantRef
			if err := httputil.DecodeJSON(r, &ref); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			tournament, err := app.matches.SelectWinner(r.Context(), id, ref)
			writeMutation(w, tournament, err)
		})

		r.Post("/apply", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			tournament, err := app.matches.ApplyResults(r.Context(), id)
			writeMutation(w, tournament, err)
		})

		r.Put("/matches/{matchID}/date", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match ID", err)
				return
			}
			var req editDateRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			tournament, err := app.matches.EditDate(r.Context(), id, matchID, req.Date)
			writeMutation(w, tournament, err)
		})

		r.Put("/participants", func(w http.ResponseWriter, r *http.Request) {
			id, ok := tournamentIDParam(w, r)
			if !ok {
				return
			}
			var req renameRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			tournament, err := app.matches.RenameParticipant(r.Context(), id, req.ParticipantRef, req.Name)
			writeMutation(w, tournament, err)
		})
	})
}

func writeMutation(w http.ResponseWriter, tournament *bracket.Tournament, err error) {
	if err != nil {
		serviceError(w, "Failed to update bracket", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournament)
}
