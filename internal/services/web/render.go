package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/domain/switches"
	"github.com/NordCoder/Deadswitch/internal/obs"
)

//go:embed templates/*.html
var templateFS embed.FS

const expiresLayout = "2006-01-02T15:04:05"

type pages map[string]*template.Template

func loadPages() (pages, error) {
	out := pages{}
	for _, name := range []string{"list", "form", "confirm_delete", "message"} {
		t, err := template.New(name).ParseFS(templateFS,
			"templates/layout.html", "templates/notice.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	notice, err := template.New("notice").ParseFS(templateFS, "templates/notice.html")
	if err != nil {
		return nil, fmt.Errorf("parse template notice: %w", err)
	}
	out["notice"] = notice
	return out, nil
}

type notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func infoNotice(text string) *notice  { return &notice{Level: "info", Text: text} }
func errorNotice(text string) *notice { return &notice{Level: "error", Text: text} }

type page struct {
	Title  string
	Email  string
	Notice *notice
}

type listItem struct {
	ID        string
	Name      string
	Status    string
	Interval  int
	ExpiresAt string
	Relative  string
}

type listPage struct {
	page
	Items []listItem
}

type switchForm struct {
	Name     string
	Content  string
	Interval string
	IsActive string
	Errors   map[string]string
}

type formPage struct {
	page
	Action string
	Submit string
	Edit   bool
	Form   switchForm
}

type confirmPage struct {
	page
	ID     string
	Name   string
	Prompt string
}

func toListItems(list []*switches.Switch, now time.Time) []listItem {
	items := make([]listItem, 0, len(list))
	for _, sw := range list {
		item := listItem{
			ID:        sw.ID,
			Name:      sw.Name,
			Status:    sw.Status(now),
			Interval:  sw.Interval,
			ExpiresAt: "never",
		}
		if !sw.ExpirationDatetime.IsZero() {
			exp := sw.ExpirationDatetime.UTC()
			item.ExpiresAt = exp.Format(expiresLayout)
			item.Relative = humanize.RelTime(exp, now, "ago", "from now")
		}
		items = append(items, item)
	}
	return items
}

// formFromSwitch mirrors the stored record exactly.
func formFromSwitch(sw *switches.Switch) switchForm {
	return switchForm{
		Name:     sw.Name,
		Content:  sw.Content,
		Interval: strconv.Itoa(sw.Interval),
		IsActive: strconv.FormatBool(sw.IsActive),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	entry := "layout"
	if name == "notice" {
		entry = "notice"
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		obs.WithTrace(r.Context(), s.log).Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
