package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/bracket-board/internal/bracket"
	"github.com/AdamBeresnev/bracket-board/internal/httputil"
	"github.com/AdamBeresnev/bracket-board/internal/middleware"
	"github.com/AdamBeresnev/bracket-board/internal/schedule"
	"github.com/AdamBeresnev/bracket-board/internal/service"
	"github.com/AdamBeresnev/bracket-board/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/markbates/goth/gothic"
)

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.sessionManager.LoadAndSave)

	r.Handle("/metrics", app.metrics)

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, r, views.LoginPage())
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		app.sessionManager.Put(r.Context(), "userID", user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		user, err := app.users.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		app.sessionManager.Put(r.Context(), "userID", user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := app.sessionManager.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to end session", err)
			return
		}
		if r.Header.Get("HX-Request") != "" {
			w.Header().Set("HX-Redirect", "/login")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(app.sessionManager, app.userStore))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := app.tournaments.ListTournaments(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournaments", err)
				return
			}
			views.Render(w, r, views.Index(tournaments))
		})

		r.Get("/tournaments/create", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, r, views.CreateTournamentPage())
		})

		r.Post("/tournaments", app.createTournamentForm)

		r.Route("/tournaments/{id}", func(r chi.Router) {
			r.Get("/", app.tournamentPage)
			r.Post("/winner", app.formMutation(func(r *http.Request, id int64) error {
				ref, err := participantRefFromForm(r)
				if err != nil {
					return err
				}
				_, err = app.matches.SelectWinner(r.Context(), id, ref)
				return err
			}))
			r.Post("/apply", app.formMutation(func(r *http.Request, id int64) error {
				_, err := app.matches.ApplyResults(r.Context(), id)
				return err
			}))
			r.Post("/rename", app.formMutation(func(r *http.Request, id int64) error {
				ref, err := participantRefFromForm(r)
				if err != nil {
					return err
				}
				_, err = app.matches.RenameParticipant(r.Context(), id, ref, r.Form.Get("name"))
				return err
			}))
			r.Post("/matches/{matchID}/date", app.formMutation(func(r *http.Request, id int64) error {
				matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
				if err != nil {
					return fmt.Errorf("%w: match id", errBadParam)
				}
				_, err = app.matches.EditDate(r.Context(), id, matchID, r.Form.Get("date"))
				return err
			}))
			r.Post("/delete", func(w http.ResponseWriter, r *http.Request) {
				id, ok := tournamentIDParam(w, r)
				if !ok {
					return
				}
				if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
					serviceError(w, "Failed to delete tournament", err)
					return
				}
				http.Redirect(w, r, "/", http.StatusSeeOther)
			})
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(app.limiter.Middleware)
			app.apiRoutes(r)
		})
	})

	return r
}

var errBadParam = errors.New("invalid parameter")

func (app *application) createTournamentForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	entrants, err := app.entries.ParseEntrants(r.Form.Get("entrants"))
	if err != nil {
		serviceError(w, "Invalid entrants", err)
		return
	}

	tournament, err := app.tournaments.CreateTournament(r.Context(), service.CreateTournamentInput{
		Name:      r.Form.Get("name"),
		Entrants:  entrants,
		Randomize: r.Form.Get("randomize") == "true",
		Privacy:   bracket.ParsePrivacy(r.Form.Get("privacy")),
	})
	if err != nil {
		serviceError(w, "Failed to create tournament", err)
		return
	}

	w.Header().Set("HX-Redirect", fmt.Sprintf("/tournaments/%d", tournament.ID))
	w.WriteHeader(http.StatusOK)
}

func (app *application) tournamentPage(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentIDParam(w, r)
	if !ok {
		return
	}

	tournament, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		serviceError(w, "Failed to get tournament", err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	canEdit := tournament.CreatorID == userID
	views.Render(w, r, views.TournamentView(tournament, views.PrepareBracketData(tournament), canEdit))
}

// formMutation runs a bracket edit posted from the tournament page and sends
// the browser back to it.
func (app *application) formMutation(run func(r *http.Request, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tournamentIDParam(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			httputil.BadRequest(w, "Invalid form data", err)
			return
		}
		if err := run(r, id); err != nil {
			serviceError(w, "Failed to update bracket", err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/tournaments/%d", id), http.StatusSeeOther)
	}
}

func tournamentIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "Invalid tournament ID", err)
		return 0, false
	}
	return id, true
}

func participantRefFromForm(r *http.Request) (service.ParticipantRef, error) {
	var ref service.ParticipantRef
	var err error
	if ref.Round, err = strconv.Atoi(r.Form.Get("round")); err != nil {
		return ref, fmt.Errorf("%w: round", errBadParam)
	}
	if ref.Match, err = strconv.Atoi(r.Form.Get("match")); err != nil {
		return ref, fmt.Errorf("%w: match", errBadParam)
	}
	if ref.Slot, err = strconv.Atoi(r.Form.Get("slot")); err != nil {
		return ref, fmt.Errorf("%w: slot", errBadParam)
	}
	return ref, nil
}

func serviceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrTournamentNotFound):
		httputil.NotFound(w, "Tournament not found", err)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUnauthenticated):
		httputil.Forbidden(w, err.Error(), err)
	case errors.Is(err, service.ErrDuplicateName):
		httputil.Conflict(w, err.Error(), err)
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrEntrantNameTooLong),
		errors.Is(err, bracket.ErrInvalidEntrantCount),
		errors.Is(err, bracket.ErrEmptyEntrantName),
		errors.Is(err, schedule.ErrUnrecognizedDate),
		errors.Is(err, errBadParam):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}
