package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/form"
)

func TestEvent_ControlName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target form.Target
		want   string
	}{
		{name: "input name", target: form.Target{Name: "email"}, want: "email"},
		{
			name:   "data attribute wins over plain attribute",
			target: form.Target{Name: "x", Attributes: map[string]string{"data-validate-control": "a", "validate-control": "b"}},
			want:   "a",
		},
		{
			name:   "plain attribute",
			target: form.Target{Name: "x", Attributes: map[string]string{"validate-control": "b"}},
			want:   "b",
		},
		{
			name:   "attribute wins over property",
			target: form.Target{Name: "x", Attributes: map[string]string{"validate-control": "b"}, DataValidateControl: "c"},
			want:   "b",
		},
		{name: "data property", target: form.Target{Name: "x", DataValidateControl: "c", ValidateControl: "d"}, want: "c"},
		{name: "plain property", target: form.Target{Name: "x", ValidateControl: "d"}, want: "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, form.Event{Target: tt.target}.ControlName())
		})
	}
}

func TestEvent_ControlValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constraint.Some("abc"), form.ChangeEvent("a", "abc").ControlValue())
	assert.Equal(t, constraint.Some(""), form.ChangeEvent("a", "").ControlValue())
	assert.Equal(t, constraint.Null(), form.CheckboxEvent("a", "on", false).ControlValue())
	assert.Equal(t, constraint.Some("on"), form.CheckboxEvent("a", "on", true).ControlValue())
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	t.Run("wrapped target", func(t *testing.T) {
		t.Parallel()
		ev, err := form.DecodeEvent([]byte(`{"target":{"name":"terms","type":"checkbox","value":"yes","checked":true}}`))
		require.NoError(t, err)
		assert.Equal(t, "terms", ev.ControlName())
		assert.Equal(t, constraint.Some("yes"), ev.ControlValue())
	})

	t.Run("bare target with numeric value", func(t *testing.T) {
		t.Parallel()
		ev, err := form.DecodeEvent([]byte(`{"name":"age","value":42}`))
		require.NoError(t, err)
		assert.Equal(t, "42", ev.Target.Value)
	})

	t.Run("override attributes and properties", func(t *testing.T) {
		t.Parallel()
		ev, err := form.DecodeEvent([]byte(`{"target":{"name":"day","value":"1","attributes":{"data-validate-control":"birth_date"}}}`))
		require.NoError(t, err)
		assert.Equal(t, "birth_date", ev.ControlName())

		ev, err = form.DecodeEvent([]byte(`{"name":"day","validate-control":"birth_date"}`))
		require.NoError(t, err)
		assert.Equal(t, "birth_date", ev.ControlName())
	})

	t.Run("null value", func(t *testing.T) {
		t.Parallel()
		ev, err := form.DecodeEvent([]byte(`{"name":"a","value":null}`))
		require.NoError(t, err)
		assert.Equal(t, "", ev.Target.Value)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{`{`, `[]`, `{"target":"x"}`, `{"value":"no name"}`} {
			_, err := form.DecodeEvent([]byte(raw))
			assert.ErrorIs(t, err, form.ErrInvalidEvent, raw)
		}
	})
}

func TestControl_Predicates(t *testing.T) {
	t.Parallel()

	var c form.Control
	assert.True(t, c.UntouchedAndNoError())

	c.SetErrors([]string{"bad"})
	assert.True(t, c.UntouchedAndHasError())

	c.SetTouched(true)
	assert.True(t, c.TouchedAndHasError())

	c.SetErrors(nil).SetLoading(true)
	assert.True(t, c.TouchedAndNoError())
	assert.True(t, c.IsLoading())
	assert.Equal(t, []string{}, c.Errors)

	src := []string{"a"}
	c.SetErrors(src)
	src[0] = "changed"
	assert.Equal(t, []string{"a"}, c.Errors, "errors are replaced wholesale, not aliased")
}
