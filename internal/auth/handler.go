package auth

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/circleup/backend/internal/session"
)

const (
	msgInvalidCredentials = "Invalid username or password."
	msgStoreUnavailable   = "We are unable to process your request at the moment. Please try again later."
	msgForgeryRejected    = "Invalid request token."
)

// Handler holds the sign-in HTTP handlers.
type Handler struct {
	sessions *session.Store
	auth     *Authenticator
	log      *slog.Logger
}

func NewHandler(sessions *session.Store, auth *Authenticator, log *slog.Logger) *Handler {
	return &Handler{sessions: sessions, auth: auth, log: log}
}

// ShowSignIn renders the sign-in form with a freshly issued CSRF token.
// Already-authenticated sessions are sent back to the landing page.
func (h *Handler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.log.ErrorContext(r.Context(), "session load failed", "err", err)
		h.renderUnavailable(w)
		return
	}
	if sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.renderSignIn(w, r, sess, signInView{})
}

// SubmitSignIn processes a credential submission: CSRF guard, then field
// validation, then authentication. Every failure re-renders the form; only
// the forgery case terminates without a form.
func (h *Handler) SubmitSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Load(r)
	if err != nil {
		h.log.ErrorContext(r.Context(), "session load failed", "err", err)
		h.renderUnavailable(w)
		return
	}
	if sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// reject before any field processing; nothing is disclosed beyond a
	// generic message and the session is left untouched
	if !ValidateCSRF(sess, r.PostFormValue("csrf_token")) {
		h.log.WarnContext(r.Context(), "sign-in rejected", "reason", ErrForgeryRejected)
		http.Error(w, msgForgeryRejected, http.StatusForbidden)
		return
	}

	username, password, fieldErrs := ValidateCredentials(
		r.PostFormValue("username"), r.PostFormValue("password"))
	if len(fieldErrs) > 0 {
		h.renderSignIn(w, r, sess, signInView{Username: username, FieldErrors: fieldErrs})
		return
	}

	_, err = h.auth.Authenticate(r.Context(), sess, username, password)
	switch {
	case err == nil:
		if err := h.sessions.WriteCookie(w, sess); err != nil {
			h.log.ErrorContext(r.Context(), "session cookie write failed", "err", err)
			h.renderUnavailable(w)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, ErrInvalidCredentials):
		h.renderSignIn(w, r, sess, signInView{Username: username, LoginError: msgInvalidCredentials})
	default:
		// ErrStoreUnavailable; cause already logged by the authenticator
		h.renderSignIn(w, r, sess, signInView{Username: username, Notice: msgStoreUnavailable})
	}
}

// SignOut destroys the session and returns to the sign-in page.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err == nil {
		if err := sess.Destroy(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "session destroy failed", "err", err)
		}
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
}

// Home renders the public landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	view := homeView{}
	if sess, err := h.sessions.Load(r); err == nil && sess.Authenticated() {
		view.Username = sess.Username()
	}
	h.render(w, homeTmpl, view)
}

// Account renders the signed-in account page. RequireAuth has already put
// the session in the context.
func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.Authenticated() {
		http.Redirect(w, r, "/sign-in", http.StatusFound)
		return
	}
	h.render(w, accountTmpl, accountView{
		Username:  sess.Username(),
		AccountID: sess.AccountID(),
	})
}

// renderSignIn issues a fresh CSRF token into the session, refreshes the
// cookie, and renders the form. If the token can't be persisted the form is
// still rendered, carrying a retry notice instead of a usable token.
func (h *Handler) renderSignIn(w http.ResponseWriter, r *http.Request, sess *session.Session, view signInView) {
	token, err := IssueCSRFToken(r.Context(), sess)
	if err != nil {
		h.log.ErrorContext(r.Context(), "csrf token issue failed", "err", err)
		view.Notice = msgStoreUnavailable
	} else {
		view.CSRFToken = token
		if err := h.sessions.WriteCookie(w, sess); err != nil {
			h.log.ErrorContext(r.Context(), "session cookie write failed", "err", err)
		}
	}
	h.render(w, signInTmpl, view)
}

func (h *Handler) renderUnavailable(w http.ResponseWriter) {
	h.render(w, signInTmpl, signInView{Notice: msgStoreUnavailable})
}

// render executes tmpl into a buffer first so a template fault can't leak a
// half-written page.
func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.log.Error("template render failed", "template", tmpl.Name(), "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
