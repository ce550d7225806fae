package prefabs

import (
	"fmt"

	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/ecs/component"
)

// Actions is the descriptor table handler records refer to by name.
type Actions map[string]component.Callback

// Register adds or replaces a named action.
func (a Actions) Register(name string, cb component.Callback) {
	if a == nil || name == "" || cb == nil {
		return
	}
	a[name] = cb
}

// Records resolves every handler record to an AnimationEventData. Unknown
// action names and scripts that fail to compile are errors. A record with
// neither action nor script keeps a nil callback and is rejected when bound.
func (s HandlerSpec) Records(actions Actions, env *ScriptEnv) ([]component.AnimationEventData, error) {
	out := make([]component.AnimationEventData, 0, len(s.Events))
	for i, es := range s.Events {
		d := component.AnimationEventData{ClipName: es.Clip, Time: es.Time, Label: es.Label}
		switch {
		case es.Action != "" && es.Script != "":
			return nil, fmt.Errorf("prefabs: handler %q event %d: both action and script set", s.Name, i)
		case es.Action != "":
			cb, ok := actions[es.Action]
			if !ok {
				return nil, fmt.Errorf("prefabs: handler %q event %d: unknown action %q", s.Name, i, es.Action)
			}
			d.Callback = cb
		case es.Script != "":
			cb, err := env.Callback(es.Script, es)
			if err != nil {
				return nil, fmt.Errorf("prefabs: handler %q event %d: %w", s.Name, i, err)
			}
			d.Callback = cb
		}
		if d.Label == "" {
			d.Label = clip.Key(es.Clip, es.Time)
		}
		out = append(out, d)
	}
	return out, nil
}
