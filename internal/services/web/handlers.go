package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/auth"
	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
	"github.com/NordCoder/Deadswitch/internal/services/switches"
)

const maxFormBytes = 64 << 10

func session(r *http.Request) *auth.Session {
	s, err := auth.FromContext(r.Context())
	if err != nil {
		return &auth.Session{}
	}
	return s
}

// failureStatus mirrors a backend 4xx; anything else the backend caused is a bad gateway.
func failureStatus(err error) int {
	var verr *switches.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}
	var apiErr *switchapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	data := listPage{page: page{Title: "Switches", Email: sess.Email, Notice: s.popFlash(w, r)}}

	list, err := s.uc.ListSwitches(r.Context(), sess.Email)
	if err != nil {
		data.Notice = errorNotice(switches.UserMessage(err))
		s.render(w, r, "list", failureStatus(err), data)
		return
	}
	data.Items = toListItems(list, s.clk())
	s.render(w, r, "list", http.StatusOK, data)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "form", http.StatusOK, s.createPage(session(r).Email, switchForm{Interval: "1"}, nil))
}

func (s *Server) createPage(email string, f switchForm, n *notice) formPage {
	return formPage{
		page:   page{Title: "New switch", Email: email, Notice: n},
		Action: "/switches",
		Submit: "Create",
		Form:   f,
	}
}

func (s *Server) editPage(email, id string, f switchForm, n *notice) formPage {
	return formPage{
		page:   page{Title: "Edit switch", Email: email, Notice: n},
		Action: "/switches/" + id,
		Submit: "Save",
		Edit:   true,
		Form:   f,
	}
}

// readForm returns the submitted values as typed; a value that does not parse is reported on its field.
func readForm(r *http.Request, edit bool) (switchForm, int, bool, *switches.ValidationError) {
	f := switchForm{
		Name:     r.PostFormValue("name"),
		Content:  r.PostFormValue("content"),
		Interval: strings.TrimSpace(r.PostFormValue("interval")),
		IsActive: strings.TrimSpace(r.PostFormValue("is_active")),
	}
	var fields []switches.FieldError

	interval, err := strconv.Atoi(f.Interval)
	if err != nil {
		fields = append(fields, switches.FieldError{Field: "interval", Message: "Interval must be a whole number of days"})
	}

	active := true
	if edit {
		if f.IsActive == "" {
			f.IsActive = "false"
		}
		active, err = strconv.ParseBool(f.IsActive)
		if err != nil {
			fields = append(fields, switches.FieldError{Field: "is_active", Message: "Active must be yes or no"})
		}
	}

	if len(fields) > 0 {
		return f, 0, false, &switches.ValidationError{Fields: fields}
	}
	return f, interval, active, nil
}

func withErrors(f switchForm, err error) switchForm {
	var verr *switches.ValidationError
	if errors.As(err, &verr) {
		f.Errors = make(map[string]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			f.Errors[fe.Field] = fe.Message
		}
	}
	return f
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	email := session(r).Email

	f, interval, _, verr := readForm(r, false)
	if verr != nil {
		s.render(w, r, "form", http.StatusUnprocessableEntity,
			s.createPage(email, withErrors(f, verr), errorNotice(verr.UserMessage())))
		return
	}

	_, res, err := s.uc.CreateSwitch(r.Context(), email, f.Name, f.Content, interval)
	if err != nil {
		s.render(w, r, "form", http.StatusUnprocessableEntity,
			s.createPage(email, withErrors(f, err), errorNotice(switches.UserMessage(err))))
		return
	}
	s.setFlash(w, infoNotice(res.Notice))
	s.redirect(w, r, res.Location)
}

func (s *Server) loadOwned(ctx context.Context, id, email string) (*editView, error) {
	sw, err := s.uc.GetSwitch(ctx, email, id)
	if err != nil {
		return nil, err
	}
	return &editView{ID: sw.ID, Name: sw.Name, Form: formFromSwitch(sw)}, nil
}

type editView struct {
	ID   string
	Name string
	Form switchForm
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	email := session(r).Email
	id := r.PathValue("id")

	v, err := s.loadOwned(r.Context(), id, email)
	if err != nil {
		s.render(w, r, "message", failureStatus(err), page{Title: "Edit switch", Email: email, Notice: errorNotice(switches.UserMessage(err))})
		return
	}
	s.render(w, r, "form", http.StatusOK, s.editPage(email, id, v.Form, s.popFlash(w, r)))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	email := session(r).Email
	id := r.PathValue("id")

	f, interval, active, verr := readForm(r, true)
	if verr != nil {
		s.render(w, r, "form", http.StatusUnprocessableEntity,
			s.editPage(email, id, withErrors(f, verr), errorNotice(verr.UserMessage())))
		return
	}

	_, res, err := s.uc.UpdateSwitch(r.Context(), email, id, f.Name, f.Content, interval, active)
	if switchapi.IsNotFound(err) {
		s.actionFailed(w, r, "Edit switch", err)
		return
	}
	if err != nil {
		s.render(w, r, "form", http.StatusUnprocessableEntity,
			s.editPage(email, id, withErrors(f, err), errorNotice(switches.UserMessage(err))))
		return
	}
	s.setFlash(w, infoNotice(res.Notice))
	s.redirect(w, r, res.Location)
}

// actionFailed keeps the user where they are: htmx callers get the notice fragment only.
func (s *Server) actionFailed(w http.ResponseWriter, r *http.Request, title string, err error) {
	n := errorNotice(switches.UserMessage(err))
	if isHTMX(r) {
		s.render(w, r, "notice", failureStatus(err), n)
		return
	}
	s.render(w, r, "message", failureStatus(err), page{Title: title, Email: session(r).Email, Notice: n})
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.uc.CheckinSwitch(r.Context(), session(r).Email, r.PathValue("id"))
	if err != nil {
		s.actionFailed(w, r, "Check in", err)
		return
	}
	s.setFlash(w, infoNotice(res.Notice))
	s.redirect(w, r, res.Location)
}

// deletePrompt fails the same way the delete would when the switch is not the user's.
func (s *Server) deletePrompt(r *http.Request, id string) (confirmPage, error) {
	email := session(r).Email
	v, err := s.loadOwned(r.Context(), id, email)
	if err != nil {
		return confirmPage{}, err
	}
	return confirmPage{
		page:   page{Title: "Delete switch", Email: email},
		ID:     id,
		Name:   v.Name,
		Prompt: switches.DeletePrompt,
	}, nil
}

func (s *Server) renderDeletePrompt(w http.ResponseWriter, r *http.Request, id string) {
	cp, err := s.deletePrompt(r, id)
	if err != nil {
		s.actionFailed(w, r, "Delete switch", err)
		return
	}
	s.render(w, r, "confirm_delete", http.StatusOK, cp)
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	s.renderDeletePrompt(w, r, r.PathValue("id"))
}

// handleDelete deletes only when the request carries confirm=yes.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	id := r.PathValue("id")
	confirmed := r.FormValue("confirm") == "yes"

	res, err := s.uc.DeleteSwitch(r.Context(), session(r).Email, id, switches.ConfirmFunc(func(context.Context, string) (bool, error) {
		return confirmed, nil
	}))
	if errors.Is(err, switches.ErrNotConfirmed) {
		s.renderDeletePrompt(w, r, id)
		return
	}
	if err != nil {
		s.actionFailed(w, r, "Delete switch", err)
		return
	}
	s.setFlash(w, infoNotice(res.Notice))
	s.redirect(w, r, res.Location)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.AccessCookie); err == nil && s.signOut != nil {
		if err := s.signOut.SignOut(r.Context(), c.Value); err != nil {
			obs.WithTrace(r.Context(), s.log).Warn("provider sign-out failed", zap.Error(err))
		}
	}
	clearCookie(w, s.cfg.AccessCookie, s.cfg.CookieSecure)
	clearCookie(w, s.cfg.RefreshCookie, s.cfg.CookieSecure)
	s.redirect(w, r, s.cfg.SignInPath)
}
