package formhttp

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formvalidate/pkg/broadcast"
	"github.com/dmitrymomot/formvalidate/pkg/form"
)

// State is the wire representation of a form session.
type State struct {
	ID       string                  `json:"id"`
	Ruleset  string                  `json:"ruleset"`
	Valid    bool                    `json:"valid"`
	Controls map[string]form.Control `json:"controls"`
}

// session binds a live form to the broadcaster feeding its SSE streams.
type session struct {
	id      string
	ruleset string
	form    *form.Form
	stream  *broadcast.MemoryBroadcaster[State]
}

func newSession(rulesetName string, bufferSize int) *session {
	return &session{
		id:      uuid.NewString(),
		ruleset: rulesetName,
		stream:  broadcast.NewMemoryBroadcaster(bufferSize, broadcast.WithReplayLast[State]()),
	}
}

// render is the form's RenderFunc. It runs on the form loop, so broadcasts
// reach subscribers in mutation order.
func (s *session) render(valid bool, controls map[string]form.Control) {
	_ = s.stream.Broadcast(context.Background(), broadcast.Message[State]{Data: State{
		ID:       s.id,
		Ruleset:  s.ruleset,
		Valid:    valid,
		Controls: controls,
	}})
}

// publish broadcasts the current state, seeding the replay buffer.
func (s *session) publish() {
	s.render(s.form.Valid(), s.form.Controls())
}

func (s *session) state() State {
	return State{
		ID:       s.id,
		Ruleset:  s.ruleset,
		Valid:    s.form.Valid(),
		Controls: s.form.Controls(),
	}
}

func (s *session) close() error {
	err := s.form.Close()
	_ = s.stream.Close()
	return err
}

// signals shapes a state as DataStar signals under the "form" namespace:
//
//	{"form": {"id": "...", "valid": false, "controls": {"email": {...}}}}
func signals(st State) map[string]any {
	controls := make(map[string]any, len(st.Controls))
	for name, c := range st.Controls {
		controls[name] = map[string]any{
			"value":   c.Value,
			"touched": c.Touched,
			"errors":  c.Errors,
			"loading": c.Loading,
			"state":   FeedbackState(c),
		}
	}
	return map[string]any{"form": map[string]any{
		"id":       st.ID,
		"valid":    st.Valid,
		"controls": controls,
	}}
}

func controlNames(st State) []string {
	return slices.Sorted(maps.Keys(st.Controls))
}
