package service

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/campusshare/campusshare/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

// Page is a rendered markdown document from the content directory.
type Page struct {
	Title       string
	Slug        string
	Content     string
	LastUpdated string
}

// ContentService serves the static markdown pages (guidelines, terms,
// privacy) and renders user-written text.
type ContentService struct {
	content fs.FS
	pages   *markdown.Parser
	user    *markdown.Parser
	reload  bool

	mu    sync.RWMutex
	cache map[string]*Page
}

// NewContentService reads pages from content. Pages are cached after the
// first read unless reload is set.
func NewContentService(content fs.FS, reload bool) *ContentService {
	return &ContentService{
		content: content,
		pages:   markdown.NewParser(),
		user:    markdown.NewUserParser(),
		reload:  reload,
		cache:   make(map[string]*Page),
	}
}

// Page loads a page by its path relative to the content directory,
// e.g. "guidelines" or "legal/terms".
func (s *ContentService) Page(slug string) (*Page, error) {
	slug = strings.Trim(slug, "/")
	if slug == "" || !fs.ValidPath(slug) {
		return nil, ErrPageNotFound
	}

	if !s.reload {
		s.mu.RLock()
		page, ok := s.cache[slug]
		s.mu.RUnlock()
		if ok {
			return page, nil
		}
	}

	page, err := s.load(slug)
	if err != nil {
		return nil, err
	}

	if !s.reload {
		s.mu.Lock()
		s.cache[slug] = page
		s.mu.Unlock()
	}
	return page, nil
}

func (s *ContentService) load(slug string) (*Page, error) {
	filePath := slug + ".md"
	content, err := fs.ReadFile(s.content, filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	body, meta, err := s.pages.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		base := path.Base(slug)
		title = cases.Title(language.English).String(strings.ReplaceAll(base, "-", " "))
	}

	var lastUpdated string
	if value, ok := meta["lastUpdated"]; ok {
		lastUpdated = parseDate(value)
	}
	if lastUpdated == "" {
		info, err := fs.Stat(s.content, filePath)
		if err == nil {
			lastUpdated = info.ModTime().Format("January 2, 2006")
		}
	}

	return &Page{
		Title:       title,
		Slug:        slug,
		Content:     string(body),
		LastUpdated: lastUpdated,
	}, nil
}

// RenderUserText turns a description or comment into safe HTML. On a
// parser failure the text is shown escaped instead.
func (s *ContentService) RenderUserText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := s.user.Parse([]byte(text))
	if err != nil {
		slog.Warn("failed to render user text", "error", err)
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return string(out)
}

func parseDate(value any) string {
	var dateStr string

	switch v := value.(type) {
	case string:
		dateStr = v
	case time.Time:
		return v.Format("January 2, 2006")
	default:
		return ""
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
	}

	for _, format := range formats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t.Format("January 2, 2006")
		}
	}

	return dateStr
}
