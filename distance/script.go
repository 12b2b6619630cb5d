package distance

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"text/template"

	"github.com/anisan-cli/mediapool/constant"
	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/util"
	lua "github.com/yuin/gopher-lua"
)

// Script computes distances with a Lua function named distance.
// The function receives a table { id, type, index, cursor } and returns a number.
// When the script fails for an item, the cursor distance is used instead.
type Script struct {
	name   string
	cursor *Cursor

	mu    sync.Mutex // gopher-lua states are not safe for concurrent use
	state *lua.LState
}

// LoadScript reads and compiles the Lua script at path.
func LoadScript(path string, cursor *Cursor) (*Script, error) {
	contents, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read distance script: %w", err)
	}

	return CompileScript(util.FileStem(path), string(contents), cursor)
}

// CompileScript compiles source and checks that it defines the distance function.
func CompileScript(name, source string, cursor *Cursor) (*Script, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})

	// no io or os
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		state.Push(state.NewFunction(lib.open))
		state.Push(lua.LString(lib.name))
		state.Call(1, 0)
	}

	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, fmt.Errorf("load distance script %s: %w", name, err)
	}

	if state.GetGlobal(constant.DistanceFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.DistanceFn, name)
	}

	return &Script{
		name:   name,
		cursor: cursor,
		state:  state,
	}, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

func (s *Script) Distance(h pool.Handle) float64 {
	d, err := s.call(h)
	if err != nil {
		log.Warnf("distance script %s: %s: %v", s.name, h.ID(), err)
		return s.cursor.Distance(h)
	}

	return d
}

func (s *Script) call(h pool.Handle) (float64, error) {
	index, placed := s.cursor.Index(h.ID())

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.NewTable()
	item.RawSetString("id", lua.LString(h.ID()))
	item.RawSetString("type", lua.LString(h.Type()))
	item.RawSetString("cursor", lua.LNumber(s.cursor.At()))
	if placed {
		item.RawSetString("index", lua.LNumber(index))
	} else {
		item.RawSetString("index", lua.LNumber(math.Inf(1)))
	}

	err := s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal(constant.DistanceFn),
		NRet:    1,
		Protect: true,
	}, item)
	if err != nil {
		return 0, err
	}

	ret := s.state.Get(-1)
	s.state.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, expected number", constant.DistanceFn, ret.Type())
	}

	d := float64(n)
	if math.IsNaN(d) {
		return 0, fmt.Errorf("%s returned NaN", constant.DistanceFn)
	}

	return d, nil
}

// Func returns Distance as a pool.DistanceFunc.
func (s *Script) Func() pool.DistanceFunc {
	return s.Distance
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Close()
}

// New returns the script distance when path is set and the cursor distance otherwise.
// The returned closer releases whatever the policy holds.
func New(path string, cursor *Cursor) (pool.DistanceFunc, func(), error) {
	if path == "" {
		return cursor.Func(), func() {}, nil
	}

	script, err := LoadScript(path, cursor)
	if err != nil {
		return nil, nil, err
	}

	return script.Func(), script.Close, nil
}

// Scaffold renders a starter distance script.
func Scaffold(name, author string) (string, error) {
	funcMap := template.FuncMap{
		"repeat": strings.Repeat,
		"plus":   func(a, b int) int { return a + b },
	}

	tmpl, err := template.New("distance").Funcs(funcMap).Parse(constant.DistanceTemplate)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = tmpl.Execute(&b, struct{ Name, Author string }{name, author})
	return b.String(), err
}
