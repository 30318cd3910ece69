package articles

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"text/template"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yourmoontg/go-md2blog/internal/dateutil"
)

// Defaults for new articles.
const (
	DefaultReadTime = 5
	DefaultIcon     = "icon-brain.svg"
	MaxTitleLength  = 300
)

// idPattern restricts ids to names that are safe as path segments.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// Slug derives an article id from a title: lowercase, diacritics folded,
// only [a-z0-9-] kept, whitespace runs become one dash.
// Titles without Latin letters or digits give "".
func Slug(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(fold, strings.ToLower(title))
	if err != nil {
		s = strings.ToLower(title)
	}
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseTags splits a comma separated list, dropping empty entries.
func ParseTags(list string) []string {
	tags := []string{}
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// IconFile maps a short icon name ("robot") to its file ("icon-robot.svg").
// Full file names are kept; "" gives DefaultIcon.
func IconFile(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return DefaultIcon
	case strings.HasSuffix(name, ".svg"):
		return name
	default:
		return "icon-" + strings.TrimPrefix(name, "icon-") + ".svg"
	}
}

// ContentFile returns the published page path of an article.
func ContentFile(date, id string) string {
	return path.Join("blog", PostsDir, date+"-"+id+".html")
}

// Draft is the input for a new article. Zero fields take defaults.
type Draft struct {
	Title    string
	ID       string // default: Slug(Title)
	Date     string // default: today; "auto" and "today" accepted
	Tags     string // comma separated
	Excerpt  string
	ReadTime int    // default: DefaultReadTime
	Status   string // draft | published, default draft
	Icon     string // short name or file name
}

// NewArticle builds a validated catalog entry from d. now is injected for testing.
func NewArticle(d Draft, now time.Time) (Article, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Article{}, fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}

	id := strings.TrimSpace(d.ID)
	if id == "" {
		id = Slug(title)
	}
	if id == "" {
		return Article{}, fmt.Errorf("%w: cannot derive an id from %q, set one explicitly", ErrInvalidArticle, title)
	}

	date, err := dateutil.ResolveDate(d.Date, now)
	if err != nil {
		return Article{}, fmt.Errorf("%w: %v", ErrInvalidArticle, err)
	}

	readTime := d.ReadTime
	if readTime <= 0 {
		readTime = DefaultReadTime
	}

	status := Status(strings.TrimSpace(d.Status))
	if status == "" {
		status = StatusDraft
	}

	a := Article{
		ID:          id,
		Title:       title,
		Date:        date,
		Tags:        ParseTags(d.Tags),
		Excerpt:     strings.TrimSpace(d.Excerpt),
		ContentFile: ContentFile(date, id),
		Status:      status,
		ReadTime:    readTime,
		Icon:        IconFile(d.Icon),
	}
	if err := a.Validate(); err != nil {
		return Article{}, err
	}
	return a, nil
}

// Validate checks the fields every catalog entry must satisfy.
func (a Article) Validate() error {
	if !idPattern.MatchString(a.ID) {
		return fmt.Errorf("%w: id %q must contain only letters, digits, '-' or '_'", ErrInvalidArticle, a.ID)
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}
	if len(a.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d bytes", ErrInvalidArticle, MaxTitleLength)
	}
	if _, err := dateutil.ParseDate(a.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArticle, err)
	}
	if a.Status != StatusDraft && a.Status != StatusPublished {
		return fmt.Errorf("%w: status must be %q or %q, got %q", ErrInvalidArticle, StatusDraft, StatusPublished, a.Status)
	}
	if a.ReadTime < 0 {
		return fmt.Errorf("%w: readTime must not be negative", ErrInvalidArticle)
	}
	return nil
}

// RenderScaffold fills a Markdown scaffold template for a new article.
// The template sees the Article fields (.Title, .ID, .Date, ...).
func RenderScaffold(src string, a Article) (string, error) {
	tmpl, err := template.New("scaffold").Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing scaffold: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, a); err != nil {
		return "", fmt.Errorf("rendering scaffold: %w", err)
	}
	return b.String(), nil
}
