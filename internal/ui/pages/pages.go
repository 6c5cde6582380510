package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/service"
)

//go:embed templates
var templatesFS embed.FS

// View is the per-request state every page layout needs.
type View struct {
	Title     string
	AppName   string
	User      *model.User
	Profile   *model.Profile
	CSRFToken string
	Nonce     string
	Path      string
	Google    bool
	GitHub    bool
}

func NewView(ctx context.Context, title string) View {
	v := View{
		Title:     title,
		AppName:   "CampusShare",
		User:      ctxkeys.User(ctx),
		Profile:   ctxkeys.Profile(ctx),
		CSRFToken: ctxkeys.CSRFToken(ctx),
		Nonce:     templ.GetNonce(ctx),
		Path:      ctxkeys.URLPath(ctx),
	}
	if cfg := ctxkeys.Config(ctx); cfg != nil {
		v.AppName = cfg.AppName
		v.Google = cfg.GoogleClientID != ""
		v.GitHub = cfg.GitHubClientID != ""
	}
	return v
}

type HomeData struct {
	Recent  []*model.Resource
	Leaders []*model.LeaderboardEntry
}

type ResourcesData struct {
	Resources []*model.Resource
	Filter    model.ResourceFilter
}

type ResourceData struct {
	Resource      *model.Resource
	Description   template.HTML
	Reviews       *service.ReviewSummary
	IsOwner       bool
	ReportReasons []string
}

type LeaderboardData struct {
	Entries []*model.LeaderboardEntry
	Rank    *model.RankInfo
}

type DashboardData struct {
	Profile  *model.Profile
	Uploads  []*model.Resource
	Rank     *model.RankInfo
	NextTier *model.Tier
}

type UploadData struct {
	Accept string
	MaxMB  int64
}

type ProfileFormData struct {
	Profile *model.Profile
}

type ContentData struct {
	Page *service.Page
	Body template.HTML
}

type AdminReportsData struct {
	Reports []*model.Report
}

type AuthData struct {
	Error string
}

type ErrorData struct {
	Status  int
	Message string
}

// Option lists for the filter and upload forms. Stored values are free text;
// these only seed the selects.
var (
	Semesters = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	Branches  = []string{"CSE", "IT", "ECE", "EE", "ME", "CE", "Other"}
)

const badgeBase = "inline-flex items-center rounded-full px-2 py-0.5 text-xs font-medium ring-1 ring-inset"

var funcs = template.FuncMap{
	"tier": model.TierFor,

	"semesters":     func() []string { return Semesters },
	"branches":      func() []string { return Branches },
	"resourceTypes": func() []string { return model.ResourceTypes },
	"badge": func(t model.Tier, extra ...string) string {
		return twmerge.Merge(append([]string{badgeBase, t.Color}, extra...)...)
	},
	"tw": func(classes ...string) string {
		return twmerge.Merge(classes...)
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"rating": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"active": func(path, prefix string) bool {
		if prefix == "/" {
			return path == "/"
		}
		return strings.HasPrefix(path, prefix)
	},
	"add": func(a, b int) int {
		return a + b
	},
	"isSelf": func(p *model.Profile, id string) bool {
		return p != nil && p.ID == id
	},
	"when": func(cond bool, class string) string {
		if cond {
			return class
		}
		return ""
	},
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	out := make(map[string]*template.Template)
	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		out[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", file))
	}
	return out
}

type pageData struct {
	View View
	Data any
}

func page(name string, v View, data any) templ.Component {
	t, ok := templates[name]
	if !ok {
		panic("unknown page template: " + name)
	}
	return templ.FromGoHTML(t, pageData{View: v, Data: data})
}

func Home(v View, d HomeData) templ.Component {
	return page("home", v, d)
}

func Resources(v View, d ResourcesData) templ.Component {
	return page("resources", v, d)
}

func Resource(v View, d ResourceData) templ.Component {
	return page("resource", v, d)
}

func Leaderboard(v View, d LeaderboardData) templ.Component {
	return page("leaderboard", v, d)
}

func Dashboard(v View, d DashboardData) templ.Component {
	return page("dashboard", v, d)
}

func Upload(v View, d UploadData) templ.Component {
	return page("upload", v, d)
}

func CompleteProfile(v View, d ProfileFormData) templ.Component {
	return page("complete_profile", v, d)
}

func Content(v View, d ContentData) templ.Component {
	return page("content", v, d)
}

func AdminReports(v View, d AdminReportsData) templ.Component {
	return page("admin_reports", v, d)
}

func Auth(v View, d AuthData) templ.Component {
	return page("auth", v, d)
}

func Error(v View, d ErrorData) templ.Component {
	return page("error", v, d)
}
