package markup

// Profiles accepted by Options.Profile.
const (
	ProfileAll        = "all"
	ProfileHTML       = "html"
	ProfileDjango     = "django"
	ProfileJinja      = "jinja"
	ProfileNunjucks   = "nunjucks"
	ProfileHandlebars = "handlebars"
	ProfileGolang     = "golang"
	ProfileAngular    = "angular"
)

// TreeContext carries the template profile through the build of one tree.
// An explicitly pinned profile always wins; otherwise the first profile
// detected from the source sticks.
type TreeContext struct {
	pinned   string
	detected string
}

// NewTreeContext returns a context for profile. The empty string and
// ProfileAll leave the profile open to detection.
func NewTreeContext(profile string) *TreeContext {
	c := &TreeContext{}
	if profile != "" && profile != ProfileAll {
		c.pinned = profile
	}
	return c
}

// Detect records profile unless a profile is pinned or already detected.
func (c *TreeContext) Detect(profile string) {
	if c.pinned == "" && c.detected == "" {
		c.detected = profile
	}
}

// Profile returns the active profile.
func (c *TreeContext) Profile() string {
	switch {
	case c.pinned != "":
		return c.pinned
	case c.detected != "":
		return c.detected
	}
	return ProfileAll
}

// Pinned reports whether the profile was given rather than detected.
func (c *TreeContext) Pinned() bool {
	return c.pinned != ""
}

// templateSpace is the padding printed inside template delimiters.
func (c *TreeContext) templateSpace() string {
	if c.Profile() == ProfileHandlebars {
		return ""
	}
	return " "
}
