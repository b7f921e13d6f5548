package markdown

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var policy = bluemonday.UGCPolicy()

// Render converts markdown to sanitized HTML. Used by the dashboard to
// preview landing-page and testimonial descriptions before submission.
func Render(src string) string {
	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Autolink
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	unsafe := blackfriday.Run([]byte(src), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))
	return string(policy.SanitizeBytes(unsafe))
}
