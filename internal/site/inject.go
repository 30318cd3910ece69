package site

import "strings"

// InjectCSS inserts a <style> block into an HTML page.
// Tries </head> first, then after <body>, then prepends to the page.
// The stylesheet cannot close the style element early.
func InjectCSS(page, css string) string {
	if css == "" {
		return page
	}

	styleBlock := "<style>" + sanitizeCSS(css) + "</style>"
	lower := strings.ToLower(page)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return page[:idx] + styleBlock + page[idx:]
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if closeIdx := strings.Index(page[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return page[:insertPos] + styleBlock + page[insertPos:]
		}
	}

	return styleBlock + page
}

// sanitizeCSS escapes "</" so the stylesheet cannot end the style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
