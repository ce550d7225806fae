package prefabs

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/clipevents/ecs/component"
)

// ScriptEnv is what handler scripts can reach. Scripts see the variables
// clip, time and label plus an emit(string) function that forwards to Emit.
type ScriptEnv struct {
	Emit func(message string)
	// Modules lists the tengo stdlib modules scripts may import; nil allows
	// all of them.
	Modules []string
}

// Callback compiles the script at path into a callback bound to the record
// es. The script runs from the top on every invocation.
func (env *ScriptEnv) Callback(path string, es HandlerEventSpec) (component.Callback, error) {
	src, err := LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return env.compile(path, src, es)
}

func (env *ScriptEnv) compile(path string, src []byte, es HandlerEventSpec) (component.Callback, error) {
	script := tengo.NewScript(src)
	_ = script.Add("clip", es.Clip)
	_ = script.Add("time", float64(es.Time))
	_ = script.Add("label", es.Label)
	_ = script.Add("emit", &tengo.UserFunction{Name: "emit", Value: env.emit})

	modules := stdlib.AllModuleNames()
	if env != nil && env.Modules != nil {
		modules = env.Modules
	}
	script.SetImports(stdlib.GetModuleMap(modules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", path, err)
	}

	return func() error {
		if err := compiled.Run(); err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
		return nil
	}, nil
}

func (env *ScriptEnv) emit(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	msg, ok := tengo.ToString(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "message", Expected: "string", Found: args[0].TypeName()}
	}
	if env != nil && env.Emit != nil {
		env.Emit(msg)
	}
	return tengo.UndefinedValue, nil
}
