package prefabs

import (
	"fmt"

	"github.com/milk9111/clipevents/clip"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EventSpec is a native clip event as stored in a controller asset.
type EventSpec struct {
	Function string  `yaml:"function"`
	Float    float32 `yaml:"float"`
	Time     float32 `yaml:"time"`
}

type ClipSpec struct {
	Name   string      `yaml:"name"`
	Length float32     `yaml:"length"`
	Loop   bool        `yaml:"loop"`
	Events []EventSpec `yaml:"events,omitempty"`
}

// ControllerSpec is the asset form of a clip.Controller.
type ControllerSpec struct {
	Name  string     `yaml:"name"`
	Clips []ClipSpec `yaml:"clips"`
}

func LoadControllerSpec(filename string) (ControllerSpec, error) {
	return LoadSpec[ControllerSpec](filename)
}

// Controller builds a controller from the spec.
func (s ControllerSpec) Controller() *clip.Controller {
	ctrl := clip.NewController(s.Name)
	for _, cs := range s.Clips {
		events := make([]clip.Event, 0, len(cs.Events))
		for _, es := range cs.Events {
			events = append(events, clip.Event{Function: es.Function, Float: es.Float, Time: es.Time})
		}
		c := clip.NewClip(cs.Name, cs.Length, events...)
		c.Loop = cs.Loop
		ctrl.AddClip(c)
	}
	return ctrl
}

// NewControllerSpec captures a controller, including every native event its
// clips currently carry.
func NewControllerSpec(ctrl *clip.Controller) ControllerSpec {
	if ctrl == nil {
		return ControllerSpec{}
	}
	spec := ControllerSpec{Name: ctrl.Name}
	for _, c := range ctrl.Clips() {
		cs := ClipSpec{Name: c.Name, Length: c.Length, Loop: c.Loop}
		for _, e := range c.Events() {
			cs.Events = append(cs.Events, EventSpec{Function: e.Function, Float: e.Float, Time: e.Time})
		}
		spec.Clips = append(spec.Clips, cs)
	}
	return spec
}

// SaveControllerSpec writes ctrl back to filename.
func SaveControllerSpec(filename string, ctrl *clip.Controller) error {
	data, err := yaml.Marshal(NewControllerSpec(ctrl))
	if err != nil {
		return fmt.Errorf("prefabs: marshal %s: %w", filename, err)
	}
	return Save(filename, data)
}

// HandlerEventSpec is one authored handler record. Exactly one of Action or
// Script names the callback; Script is a path under scripts/.
type HandlerEventSpec struct {
	Clip   string  `yaml:"clip"`
	Time   float32 `yaml:"time"`
	Action string  `yaml:"action"`
	Script string  `yaml:"script"`
	Label  string  `yaml:"label"`
}

// HandlerSpec configures an AnimationEventHandler and the animator it
// drives.
type HandlerSpec struct {
	Name              string             `yaml:"name"`
	Controller        string             `yaml:"controller"`
	Play              string             `yaml:"play"`
	Speed             float32            `yaml:"speed"`
	InitializeOnAwake bool               `yaml:"initialize_on_awake"`
	Events            []HandlerEventSpec `yaml:"events"`
}

func LoadHandlerSpec(filename string) (HandlerSpec, error) {
	return LoadSpec[HandlerSpec](filename)
}
