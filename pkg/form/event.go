package form

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
)

// Attribute names that let one physical input drive a differently named control.
const (
	AttrDataValidateControl = "data-validate-control"
	AttrValidateControl     = "validate-control"
)

// InputCheckbox is the input type whose unchecked state validates as absent.
const InputCheckbox = "checkbox"

// Event is a field-change notification.
type Event struct {
	Target Target `json:"target"`
}

// Target describes the input that changed.
type Target struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Value   string `json:"value"`
	Checked bool   `json:"checked,omitempty"`

	// Attributes holds markup attributes of the input, such as data-validate-control.
	Attributes map[string]string `json:"attributes,omitempty"`

	// Plain-property forms of the control override.
	DataValidateControl string `json:"data-validate-control,omitempty"`
	ValidateControl     string `json:"validate-control,omitempty"`
}

// ChangeEvent is a shorthand for an event on a text-like input.
func ChangeEvent(name, value string) Event {
	return Event{Target: Target{Name: name, Value: value}}
}

// CheckboxEvent is a shorthand for an event on a checkbox input.
func CheckboxEvent(name, value string, checked bool) Event {
	return Event{Target: Target{Name: name, Type: InputCheckbox, Value: value, Checked: checked}}
}

// ControlName resolves the logical control the event targets: an override
// attribute wins over a plain property, data-validate-control wins over
// validate-control, and the input name is the fallback.
func (e Event) ControlName() string {
	t := e.Target
	if t.Attributes != nil {
		if n := firstNonEmpty(t.Attributes[AttrDataValidateControl], t.Attributes[AttrValidateControl]); n != "" {
			return n
		}
	}
	return firstNonEmpty(t.DataValidateControl, t.ValidateControl, t.Name)
}

// ControlValue is the value the event assigns: an unchecked checkbox is absent
// whatever its literal value.
func (e Event) ControlValue() constraint.Value {
	if e.Target.Type == InputCheckbox && !e.Target.Checked {
		return constraint.Null()
	}
	return constraint.Some(e.Target.Value)
}

// DecodeEvent reads an event from JSON. Both {"target": {...}} and a bare
// target object are accepted; non-string values are converted to their JSON text.
func DecodeEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, errors.Join(ErrInvalidEvent, errors.New("malformed JSON"))
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Event{}, errors.Join(ErrInvalidEvent, errors.New("event must be an object"))
	}
	target := root
	if t := root.Get("target"); t.Exists() {
		if !t.IsObject() {
			return Event{}, errors.Join(ErrInvalidEvent, errors.New("target must be an object"))
		}
		target = t
	}

	ev := Event{Target: Target{
		Name:                target.Get("name").String(),
		Type:                target.Get("type").String(),
		Value:               scalar(target.Get("value")),
		Checked:             target.Get("checked").Bool(),
		DataValidateControl: target.Get(AttrDataValidateControl).String(),
		ValidateControl:     target.Get(AttrValidateControl).String(),
	}}

	if attrs := target.Get("attributes"); attrs.IsObject() {
		ev.Target.Attributes = make(map[string]string)
		attrs.ForEach(func(key, value gjson.Result) bool {
			ev.Target.Attributes[key.String()] = scalar(value)
			return true
		})
	}

	if ev.ControlName() == "" {
		return Event{}, errors.Join(ErrInvalidEvent, errors.New("target has no name"))
	}
	return ev, nil
}

func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	default:
		return r.Raw
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
