package host

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"go.uber.org/zap"

	"tripscheduler/logging"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
)

// A Command is an operation the desktop shell can trigger by name. It takes
// no parameters; the only output is success or an error message.
type Command func(ctx context.Context) error

// Result is what the shell receives back from a command.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Registry maps command names to commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	log      *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{commands: make(map[string]Command), log: logging.OrNop(log)}
}

func (r *Registry) Register(name string, cmd Command) error {
	if name == "" || cmd == nil {
		return fmt.Errorf("register: name and command are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateCommand)
	}
	r.commands[name] = cmd
	return nil
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// Invoke runs the named command to completion on the calling goroutine.
// Errors, including panics inside the command, are returned as a message.
// Cancelling ctx does not stop a running command; only its values are passed on.
func (r *Registry) Invoke(ctx context.Context, name string) Result {
	r.mu.RLock()
	cmd, ok := r.commands[name]
	r.mu.RUnlock()
	if !ok {
		return Result{Error: fmt.Sprintf("%s: %v", name, ErrUnknownCommand)}
	}

	r.log.Infow("command started", "command", name)
	if err := r.run(ctx, name, cmd); err != nil {
		r.log.Errorw("command failed", "command", name, "error", err)
		return Result{Error: err.Error()}
	}
	r.log.Infow("command completed", "command", name)
	return Result{OK: true}
}

// InvokeAsync runs the named command on its own goroutine so the caller's
// event loop is not blocked. The channel receives exactly one Result.
func (r *Registry) InvokeAsync(ctx context.Context, name string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- r.Invoke(ctx, name)
	}()
	return out
}

func (r *Registry) run(ctx context.Context, name string, cmd Command) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Errorw("command panicked", "command", name, "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("%s: panic: %v", name, p)
		}
	}()
	return cmd(context.WithoutCancel(ctx))
}
