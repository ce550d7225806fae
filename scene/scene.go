package scene

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/ecs"
	"github.com/milk9111/clipevents/ecs/component"
	"github.com/milk9111/clipevents/ecs/system"
	"github.com/milk9111/clipevents/prefabs"
)

// MaxMessages bounds the message log.
const MaxMessages = 12

// Scene is one animated entity driven by a handler spec, with no rendering
// attached.
type Scene struct {
	World      *ecs.World
	Entity     ecs.Entity
	Controller *clip.Controller

	handlerPath    string
	controllerPath string
	handlerMod     time.Time
	messages       []string
	crossed        []system.AnimationEvent
}

// New loads the handler spec at handlerPath and the controller it
// names, and builds the entity that plays it.
func New(handlerPath string) (*Scene, error) {
	spec, err := prefabs.LoadHandlerSpec(handlerPath)
	if err != nil {
		return nil, err
	}
	ctrlSpec, err := prefabs.LoadControllerSpec(spec.Controller)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		World:          ecs.NewWorld(),
		Controller:     ctrlSpec.Controller(),
		handlerPath:    handlerPath,
		controllerPath: spec.Controller,
	}
	s.handlerMod, _ = prefabs.ModTime(handlerPath)

	records, err := spec.Records(s.actions(), &prefabs.ScriptEnv{Emit: s.Say})
	if err != nil {
		return nil, err
	}

	s.Entity = s.World.CreateEntity()
	anim := &component.Animator{Controller: s.Controller, Speed: spec.Speed}
	anim.Play(spec.Play)
	if err := ecs.Add(s.World, s.Entity, component.AnimatorComponent.Kind(), anim); err != nil {
		return nil, fmt.Errorf("scene: add animator: %w", err)
	}
	handler := &component.AnimationEventHandler{Events: records, InitializeOnAwake: spec.InitializeOnAwake}
	if err := ecs.Add(s.World, s.Entity, component.AnimationEventHandlerComponent.Kind(), handler); err != nil {
		return nil, fmt.Errorf("scene: add event handler: %w", err)
	}

	s.World.AddSystem(system.NewEventHandlerSystem())
	s.World.AddSystem(system.NewAnimationSystem())
	s.World.AddSystem(crossedEventsSystem{scene: s})
	return s, nil
}

func (s *Scene) actions() prefabs.Actions {
	actions := prefabs.Actions{}
	actions.Register("swing", component.Action(func() { s.Say("swing") }))
	actions.Register("shake", component.Action(func() { s.Say("shake") }))
	return actions
}

// Say appends a line to the on-screen message log.
func (s *Scene) Say(msg string) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > MaxMessages {
		s.messages = s.messages[len(s.messages)-MaxMessages:]
	}
}

func (s *Scene) Messages() []string {
	return s.messages
}

// Crossed returns the native events crossed during the last update.
func (s *Scene) Crossed() []system.AnimationEvent {
	return s.crossed
}

func (s *Scene) Update() {
	s.World.Update()
}

func (s *Scene) Animator() *component.Animator {
	anim, _ := ecs.Get(s.World, s.Entity, component.AnimatorComponent.Kind())
	return anim
}

func (s *Scene) Receiver() *component.EventReceiver {
	r, _ := ecs.Get(s.World, s.Entity, component.EventReceiverComponent.Kind())
	return r
}

// Reload unbinds the current handler records, reloads the handler spec from
// disk and binds the new records.
func (s *Scene) Reload() error {
	mod, _ := prefabs.ModTime(s.handlerPath)
	spec, err := prefabs.LoadHandlerSpec(s.handlerPath)
	if err != nil {
		return err
	}
	records, err := spec.Records(s.actions(), &prefabs.ScriptEnv{Emit: s.Say})
	if err != nil {
		return err
	}

	handler, ok := ecs.Get(s.World, s.Entity, component.AnimationEventHandlerComponent.Kind())
	if !ok {
		return fmt.Errorf("scene: entity=%v lost its event handler", s.Entity)
	}
	system.RemoveEvents(s.World, s.Entity)
	handler.Events = records
	system.AddEvents(s.World, s.Entity)
	s.handlerMod = mod
	log.Printf("scene: reloaded %s (%d events)", s.handlerPath, len(records))
	return nil
}

// ReloadChanged reloads the handler spec when changed holds the spec itself
// or a callback script. A handler spec whose modification time has not moved
// since the last load is skipped. Controller edits are not applied to a
// running scene; the clips keep their bound events until restart.
func (s *Scene) ReloadChanged(changed []string) (bool, error) {
	reload := false
	for _, path := range changed {
		switch filepath.Base(path) {
		case filepath.Base(s.handlerPath):
			if mod, ok := prefabs.ModTime(s.handlerPath); ok && mod.Equal(s.handlerMod) {
				continue
			}
			reload = true
		case filepath.Base(s.controllerPath):
			log.Printf("scene: %s changed; controller edits apply on restart", path)
		default:
			if prefabs.IsScriptFile(path) {
				reload = true
			}
		}
	}
	if !reload {
		return false, nil
	}
	return true, s.Reload()
}

// Save writes the controller, with the native events bindings added, back
// to its asset file.
func (s *Scene) Save() error {
	return prefabs.SaveControllerSpec(s.controllerPath, s.Controller)
}

type crossedEventsSystem struct {
	scene *Scene
}

func (c crossedEventsSystem) Update(w *ecs.World) {
	c.scene.crossed = c.scene.crossed[:0]
	for _, evt := range w.Events().Peek() {
		if evt.Type != system.AnimationEventType {
			continue
		}
		if data, ok := evt.Data.(system.AnimationEvent); ok {
			c.scene.crossed = append(c.scene.crossed, data)
		}
	}
}
