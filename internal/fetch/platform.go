package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose page layout is known.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRules struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var genericContent = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

var platforms = []platformRules{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"._descriptionText", "[class*='descriptionText']", "main"},
		noise:    []string{"._applicationForm", "[class*='applicationForm']"},
	},
}

func rulesFor(p Platform) (platformRules, bool) {
	for _, r := range platforms {
		if r.platform == p {
			return r, true
		}
	}
	return platformRules{}, false
}

// DetectPlatform identifies the job board hosting rawURL.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, r := range platforms {
		for _, h := range r.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return r.platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried, in order, for the description body.
func (p Platform) ContentSelectors() []string {
	if r, ok := rulesFor(p); ok {
		return r.content
	}
	return genericContent
}

// NoiseSelectors returns the selectors removed before extraction.
func (p Platform) NoiseSelectors() []string {
	out := append([]string(nil), commonNoise...)
	if r, ok := rulesFor(p); ok {
		out = append(out, r.noise...)
	}
	return out
}
