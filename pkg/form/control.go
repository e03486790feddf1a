package form

import (
	"slices"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
)

// Control is the observable validation state of one field.
type Control struct {
	Name    string           `json:"name"`
	Value   constraint.Value `json:"value"`
	Touched bool             `json:"touched"`
	Errors  []string         `json:"errors"`
	Loading bool             `json:"loading"`
}

func newControl(name string, value constraint.Value) *Control {
	return &Control{Name: name, Value: value, Errors: []string{}}
}

// SetTouched sets the touched flag.
func (c *Control) SetTouched(touched bool) *Control {
	c.Touched = touched
	return c
}

// SetErrors replaces the error list as a whole.
func (c *Control) SetErrors(errs []string) *Control {
	if len(errs) == 0 {
		c.Errors = []string{}
		return c
	}
	c.Errors = slices.Clone(errs)
	return c
}

// SetLoading sets the loading flag.
func (c *Control) SetLoading(loading bool) *Control {
	c.Loading = loading
	return c
}

// SetValue records the value the control was last validated with.
func (c *Control) SetValue(v constraint.Value) *Control {
	c.Value = v
	return c
}

func (c Control) HasError() bool {
	return len(c.Errors) > 0
}

func (c Control) IsLoading() bool {
	return c.Loading
}

func (c Control) TouchedAndHasError() bool {
	return c.Touched && c.HasError()
}

func (c Control) UntouchedAndHasError() bool {
	return !c.Touched && c.HasError()
}

func (c Control) TouchedAndNoError() bool {
	return c.Touched && !c.HasError()
}

func (c Control) UntouchedAndNoError() bool {
	return !c.Touched && !c.HasError()
}

// clone returns a copy that shares nothing with c.
func (c *Control) clone() Control {
	out := *c
	out.Errors = slices.Clone(c.Errors)
	if out.Errors == nil {
		out.Errors = []string{}
	}
	return out
}
