package fix

import (
	"fmt"
	"sync"

	"basil/internal/diag"
	"basil/internal/source"
)

// Registry — ленивая таблица code -> фабрика fix-it. Заполняется по мере
// появления диагностик: первая фабрика для кода выигрывает, повторная
// регистрация ничего не меняет.
//
// Писатель (сборка графа) и читатели (codeAction в LSP) работают из разных
// горутин, поэтому таблица под RWMutex.
type Registry struct {
	mu      sync.RWMutex
	fs      *source.FileSet
	actions map[diag.Code]diag.ActionFactory
}

func NewRegistry(fs *source.FileSet) *Registry {
	return &Registry{
		fs:      fs,
		actions: make(map[diag.Code]diag.ActionFactory),
	}
}

// RegisterDiagnosticAction запоминает фабрику диагностики, если у неё есть
// код и фабрика, а код ещё не зарегистрирован. Возвращает true при первой регистрации.
func (r *Registry) RegisterDiagnosticAction(d *diag.Diagnostic) bool {
	if r == nil || d == nil || d.Code == diag.UnknownCode || d.Action == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[d.Code]; ok {
		return false
	}
	r.actions[d.Code] = d.Action
	return true
}

// GetDiagnosticAction строит fix-it для d; nil, если код не зарегистрирован
// или фабрика отказалась.
func (r *Registry) GetDiagnosticAction(d *diag.Diagnostic, uri string) *diag.Fix {
	if r == nil || d == nil {
		return nil
	}
	r.mu.RLock()
	factory := r.actions[d.Code]
	r.mu.RUnlock()
	if factory == nil {
		return nil
	}
	ctx := diag.FixBuildContext{FileSet: r.fs, URI: uri}
	f := factory(ctx, d)
	if f == nil {
		return nil
	}
	resolved, err := f.Resolve(ctx)
	if err != nil {
		return nil
	}
	if resolved.ID == "" {
		resolved.ID = fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start)
	}
	return &resolved
}

// Registered reports whether a factory is known for code.
func (r *Registry) Registered(code diag.Code) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.actions[code]
	return ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
