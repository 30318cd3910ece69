package site

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourmoontg/go-md2blog/internal/articles"
	"github.com/yourmoontg/go-md2blog/internal/dateutil"
	"github.com/yourmoontg/go-md2blog/internal/pipeline"
)

// PageData is everything stamped into the post shell.
type PageData struct {
	Article  articles.Article
	Body     string // converted HTML fragment
	Date     string // localized long date
	ReadTime int    // minutes
	Locale   string
}

// attrEscaper escapes text for a double-quoted attribute value.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

func attr(s string) string { return attrEscaper.Replace(s) }

// Shell patterns. Each one is replaced at its first match only.
var (
	reHTMLLang     = regexp.MustCompile(`<html lang="[^"]*">`)
	reMetaID       = regexp.MustCompile(`<meta name="article-id" content="[^"]*">`)
	reMetaDate     = regexp.MustCompile(`<meta name="article-date" content="[^"]*">`)
	reMetaTags     = regexp.MustCompile(`<meta name="article-tags" content="[^"]*">`)
	reMetaReadTime = regexp.MustCompile(`<meta name="article-read-time" content="[^"]*">`)
	reTitle        = regexp.MustCompile(`<title>[^<]*</title>`)
	reHeading      = regexp.MustCompile(`<h1 class="article-title-main"[^>]*>.*?</h1>`)
	reDate         = regexp.MustCompile(`<span class="article-date-header"[^>]*>.*?</span>`)
	reReadTime     = regexp.MustCompile(`<span class="article-read-time-header"[^>]*>.*?</span>`)
	reTags         = regexp.MustCompile(`<div class="article-tags-header"[^>]*>.*?</div>`)
	reBody         = regexp.MustCompile(`(?s)<div class="article-content" id="article-body">.*?</div>`)

	reDescription   = regexp.MustCompile(`<meta name="description" content="[^"]*">`)
	reKeywords      = regexp.MustCompile(`<meta name="keywords" content="[^"]*">`)
	reCanonical     = regexp.MustCompile(`<link rel="canonical" href="[^"]*">`)
	reOGURL         = regexp.MustCompile(`<meta property="og:url" content="[^"]*">`)
	reOGTitle       = regexp.MustCompile(`<meta property="og:title" content="[^"]*">`)
	reOGDescription = regexp.MustCompile(`<meta property="og:description" content="[^"]*">`)
	reOGImage       = regexp.MustCompile(`<meta property="og:image" content="[^"]*">`)
	reTWURL         = regexp.MustCompile(`<meta name="twitter:url" content="[^"]*">`)
	reTWTitle       = regexp.MustCompile(`<meta name="twitter:title" content="[^"]*">`)
	reTWDescription = regexp.MustCompile(`<meta name="twitter:description" content="[^"]*">`)
	reTWImage       = regexp.MustCompile(`<meta name="twitter:image" content="[^"]*">`)
)

// replaceFirst substitutes repl, taken literally, for the first match of re.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// ReadTimeLabel renders the read time shown under the title.
func ReadTimeLabel(minutes int, locale string) string {
	if locale == dateutil.LocaleEN {
		return strconv.Itoa(minutes) + " min read"
	}
	return strconv.Itoa(minutes) + " мин чтения"
}

// stamp fills the post shell with article metadata and body.
// Elements missing from the shell are skipped.
func (b *Builder) stamp(shell string, d PageData) string {
	a := d.Article
	page := shell

	page = replaceFirst(reHTMLLang, page, `<html lang="`+attr(d.Locale)+`">`)
	page = replaceFirst(reMetaID, page, `<meta name="article-id" content="`+attr(a.ID)+`">`)
	page = replaceFirst(reMetaDate, page, `<meta name="article-date" content="`+attr(a.Date)+`">`)
	page = replaceFirst(reMetaTags, page, `<meta name="article-tags" content="`+attr(strings.Join(a.Tags, ","))+`">`)
	page = replaceFirst(reMetaReadTime, page, `<meta name="article-read-time" content="`+strconv.Itoa(d.ReadTime)+`">`)

	page = replaceFirst(reTitle, page, "<title>"+pipeline.EscapeHTML(a.Title+b.opts.TitleSuffix)+"</title>")
	page = replaceFirst(reHeading, page,
		`<h1 class="article-title-main" id="article-title">`+pipeline.EscapeHTML(a.Title)+"</h1>")
	page = replaceFirst(reDate, page,
		`<span class="article-date-header" id="article-date">`+pipeline.EscapeHTML(d.Date)+"</span>")
	page = replaceFirst(reReadTime, page,
		`<span class="article-read-time-header" id="article-read-time">`+ReadTimeLabel(d.ReadTime, d.Locale)+"</span>")

	var tags strings.Builder
	for _, t := range a.Tags {
		tags.WriteString(`<span class="article-tag">` + pipeline.EscapeHTML(t) + "</span>")
	}
	page = replaceFirst(reTags, page, `<div class="article-tags-header" id="article-tags">`+tags.String()+"</div>")

	page = replaceFirst(reBody, page,
		"<div class=\"article-content\" id=\"article-body\">\n"+d.Body+"\n                </div>")

	return b.stampSEO(page, a)
}

// stampSEO fills description, keywords, canonical and social card tags.
func (b *Builder) stampSEO(page string, a articles.Article) string {
	base := strings.TrimRight(b.opts.BaseURL, "/")
	url := attr(base + "/" + strings.TrimLeft(a.ContentFile, "/"))

	excerpt := a.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = a.Title
	}
	excerpt = attr(excerpt)

	icon := a.Icon
	if icon == "" {
		icon = b.opts.DefaultIcon
	}
	image := attr(base + "/assets/icons/" + icon)
	title := attr(a.Title + b.opts.TitleSuffix)

	page = replaceFirst(reDescription, page, `<meta name="description" content="`+excerpt+`">`)
	if len(a.Tags) > 0 {
		page = replaceFirst(reKeywords, page, `<meta name="keywords" content="`+attr(strings.Join(a.Tags, ", "))+`">`)
	}
	page = replaceFirst(reCanonical, page, `<link rel="canonical" href="`+url+`">`)

	page = replaceFirst(reOGURL, page, `<meta property="og:url" content="`+url+`">`)
	page = replaceFirst(reOGTitle, page, `<meta property="og:title" content="`+title+`">`)
	page = replaceFirst(reOGDescription, page, `<meta property="og:description" content="`+excerpt+`">`)
	page = replaceFirst(reOGImage, page, `<meta property="og:image" content="`+image+`">`)

	page = replaceFirst(reTWURL, page, `<meta name="twitter:url" content="`+url+`">`)
	page = replaceFirst(reTWTitle, page, `<meta name="twitter:title" content="`+title+`">`)
	page = replaceFirst(reTWDescription, page, `<meta name="twitter:description" content="`+excerpt+`">`)
	page = replaceFirst(reTWImage, page, `<meta name="twitter:image" content="`+image+`">`)

	return page
}
