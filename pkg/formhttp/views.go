package formhttp

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formvalidate/pkg/form"
)

// FeedbackParams is the data of a control feedback fragment.
type FeedbackParams struct {
	FormID  string
	Control form.Control
}

// Views renders HTML fragments.
type Views struct {
	// Feedback renders the error list of one control. The root element must
	// carry the id returned by FeedbackID so patches can target it.
	Feedback func(FeedbackParams) templ.Component
}

func defaultViews() Views {
	return Views{Feedback: DefaultFeedback}
}

// FeedbackID is the element id of a control's feedback fragment.
func FeedbackID(control string) string {
	return control + "-feedback"
}

// FeedbackState classifies a control for styling: "loading", "invalid",
// "valid" or "pristine".
func FeedbackState(c form.Control) string {
	switch {
	case c.IsLoading():
		return "loading"
	case c.TouchedAndHasError():
		return "invalid"
	case c.TouchedAndNoError():
		return "valid"
	default:
		return "pristine"
	}
}

// DefaultFeedback renders:
//
//	<div id="email-feedback" class="form-feedback" data-state="invalid">
//	  <ul><li>is not a valid email</li></ul>
//	</div>
//
// Errors of untouched controls are not shown.
func DefaultFeedback(p FeedbackParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="`)
		b.WriteString(templ.EscapeString(FeedbackID(p.Control.Name)))
		b.WriteString(`" class="form-feedback" data-state="`)
		b.WriteString(FeedbackState(p.Control))
		b.WriteString(`">`)
		if p.Control.TouchedAndHasError() {
			b.WriteString("<ul>")
			for _, msg := range p.Control.Errors {
				b.WriteString("<li>")
				b.WriteString(templ.EscapeString(msg))
				b.WriteString("</li>")
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
