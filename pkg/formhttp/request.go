package formhttp

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/formvalidate/pkg/form"
)

// htmx request headers.
const (
	HXRequest     = "HX-Request"
	HXTriggerName = "HX-Trigger-Name"
	HXTarget      = "HX-Target"
)

// DataStar detection.
const (
	DataStarAcceptHeader = "text/event-stream"
	DataStarQueryParam   = "datastar"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HXRequest) == "true"
}

// IsDataStar reports whether r was issued by DataStar, which expects an SSE
// response and may carry signals in the "datastar" query parameter.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	return r.URL.Query().Has(DataStarQueryParam)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// eventFromRequest builds a change event from, in order of precedence:
// DataStar signals in the query string, a JSON body decoded by
// form.DecodeEvent, or form parameters.
//
// Form parameters follow htmx conventions: the control name comes from the
// HX-Trigger-Name header or the "name" parameter, and the value from the
// "value" parameter or the parameter named after the control.
func eventFromRequest(r *http.Request, maxBody int64) (form.Event, error) {
	if q := r.URL.Query(); q.Has(DataStarQueryParam) {
		return form.DecodeEvent([]byte(q.Get(DataStarQueryParam)))
	}

	if isJSON(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			return form.Event{}, errors.Join(ErrInvalidRequest, err)
		}
		return form.DecodeEvent(body)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return form.Event{}, errors.Join(ErrInvalidRequest, err)
	}

	name := strings.TrimSpace(r.Header.Get(HXTriggerName))
	if name == "" {
		name = strings.TrimSpace(r.Form.Get("name"))
	}
	if name == "" {
		return form.Event{}, errors.Join(form.ErrInvalidEvent, errors.New("missing control name"))
	}

	t := form.Target{
		Name:                name,
		Type:                r.Form.Get("type"),
		DataValidateControl: r.Form.Get(form.AttrDataValidateControl),
		ValidateControl:     r.Form.Get(form.AttrValidateControl),
	}
	if r.Form.Has("value") {
		t.Value = r.Form.Get("value")
	} else {
		t.Value = r.Form.Get(name)
	}

	if t.Type == form.InputCheckbox {
		if r.Form.Has("checked") {
			t.Checked, _ = strconv.ParseBool(r.Form.Get("checked"))
		} else {
			// Browsers omit unchecked checkboxes from submissions.
			t.Checked = r.Form.Has(name)
		}
	}

	return form.Event{Target: t}, nil
}

// initialValues reads default overrides for a new session: a JSON object of
// strings, or form parameters named after fields.
func initialValues(r *http.Request, fields []string, maxBody int64) (map[string]string, error) {
	out := make(map[string]string)

	if isJSON(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return out, nil
		}
		var values map[string]string
		if err := json.Unmarshal(body, &values); err != nil {
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		for _, f := range fields {
			if v, ok := values[f]; ok {
				out[f] = v
			}
		}
		return out, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	for _, f := range fields {
		if r.PostForm.Has(f) {
			out[f] = r.PostForm.Get(f)
		}
	}
	return out, nil
}
