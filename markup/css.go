package markup

import "strings"

// Default CSS display values of HTML elements, as user agents style them,
// adjusted for layout: media and form controls are inline-block, a few
// elements that never render inline are block.
var defaultDisplay = map[string]string{
	// block
	"address": "block", "article": "block", "aside": "block", "blockquote": "block",
	"body": "block", "center": "block", "dd": "block", "details": "block",
	"dialog": "block", "dir": "block", "div": "block", "dl": "block", "dt": "block",
	"fieldset": "block", "figcaption": "block", "figure": "block", "footer": "block",
	"form": "block", "frame": "block", "frameset": "block", "h1": "block",
	"h2": "block", "h3": "block", "h4": "block", "h5": "block", "h6": "block",
	"header": "block", "hgroup": "block", "hr": "block", "html": "block",
	"legend": "block", "listing": "block", "main": "block", "menu": "block",
	"nav": "block", "ol": "block", "optgroup": "block", "option": "block",
	"p": "block", "param": "block", "plaintext": "block", "pre": "block",
	"script": "block", "search": "block", "section": "block", "source": "block",
	"summary": "block", "track": "block", "ul": "block", "xmp": "block",

	"li": "list-item",

	"table":    "table",
	"caption":  "table-caption",
	"colgroup": "table-column-group",
	"col":      "table-column",
	"thead":    "table-header-group",
	"tbody":    "table-row-group",
	"tfoot":    "table-footer-group",
	"tr":       "table-row",
	"td":       "table-cell",
	"th":       "table-cell",

	"area": "none", "base": "none", "basefont": "none", "datalist": "none",
	"head": "none", "link": "none", "meta": "none", "noembed": "none",
	"noframes": "none", "rp": "none", "style": "none", "title": "none",

	"audio": "inline-block", "button": "inline-block", "meter": "inline-block",
	"object": "inline-block", "progress": "inline-block", "select": "inline-block",
	"video": "inline-block",

	"ruby": "ruby",
	"rt":   "ruby-text",

	"template": "inline",
}

// Default CSS white-space values of HTML elements.
var defaultWhiteSpace = map[string]string{
	"listing":   "pre",
	"plaintext": "pre-wrap",
	"pre":       "pre",
	"textarea":  "pre-wrap",
	"xmp":       "pre",
	"nobr":      "nowrap",
	"table":     "initial",
}

func isBlockLikeDisplay(display string) bool {
	return display == "block" || display == "list-item" || strings.HasPrefix(display, "table")
}

// isFirstChildLeadingSpaceSensitiveDisplay also serves the last child and
// dangling whitespace.
func isFirstChildLeadingSpaceSensitiveDisplay(display string) bool {
	return !isBlockLikeDisplay(display) && display != "inline-block"
}
