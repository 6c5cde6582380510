package repository

import (
	"fmt"
	"strings"

	"github.com/campusshare/campusshare/internal/model"
)

// ResourceQuery describes one catalog source query: a privacy tier, the
// viewer's filters, an optional college restriction on the uploader and a
// row cap.
type ResourceQuery struct {
	Filter  model.ResourceFilter
	Privacy string
	College string // restrict to uploaders from this college; empty = any
	Limit   int
}

const resourceSelect = `SELECT r.id, r.title, r.description, r.resource_type, r.subject, r.semester, r.branch,
	r.year_batch, r.file_url, r.privacy, r.uploader_id, r.created_at,
	p.full_name AS uploader_full_name, p.college_name AS uploader_college_name
	FROM resources r`

// queryBuilder accumulates predicates with numbered placeholders.
type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) add(predicate string) {
	b.where = append(b.where, predicate)
}

func (b *queryBuilder) equal(column, value string) {
	if value == "" || value == model.FilterAll {
		return
	}
	b.add(column + " = " + b.arg(value))
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildResourceQuery maps every optional filter field to exactly one
// predicate. User input only ever reaches the query as a bound argument.
func buildResourceQuery(q ResourceQuery) (string, []any) {
	b := &queryBuilder{}

	join := "LEFT JOIN profiles p ON p.id = r.uploader_id"
	if q.College != "" {
		join = "JOIN profiles p ON p.id = r.uploader_id"
	}

	if q.Privacy != "" {
		b.add("r.privacy = " + b.arg(q.Privacy))
	}
	if q.College != "" {
		b.add("p.college_name = " + b.arg(q.College))
	}

	search := strings.TrimSpace(q.Filter.Search)
	if search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		b.add(fmt.Sprintf(`(LOWER(r.title) LIKE %s ESCAPE '\' OR LOWER(r.subject) LIKE %s ESCAPE '\' OR LOWER(r.description) LIKE %s ESCAPE '\')`,
			b.arg(pattern), b.arg(pattern), b.arg(pattern)))
	}

	b.equal("r.semester", q.Filter.Semester)
	b.equal("r.branch", q.Filter.Branch)
	b.equal("r.resource_type", q.Filter.ResourceType)

	var sb strings.Builder
	sb.WriteString(resourceSelect)
	sb.WriteString(" ")
	sb.WriteString(join)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}

	if q.Filter.Ascending() {
		sb.WriteString(" ORDER BY r.created_at ASC")
	} else {
		sb.WriteString(" ORDER BY r.created_at DESC")
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.arg(q.Limit))
	}

	return sb.String(), b.args
}
