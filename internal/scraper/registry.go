package scraper

import "log"

// Registry maps source names to their runners. Source selection in a
// scrape request is resolved through it.
type Registry struct {
	runners map[string]*Runner
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]*Runner)}
}

func (r *Registry) Register(runner *Runner) {
	name := runner.Name()
	if _, dup := r.runners[name]; dup {
		log.Printf("⚠️ Duplicate source %q registered, keeping the first", name)
		return
	}
	r.runners[name] = runner
	r.order = append(r.order, name)
}

// Resolve returns the runners for the requested source names, skipping
// unknown names with a log. The result preserves request order.
func (r *Registry) Resolve(sources []string) []*Runner {
	var out []*Runner
	for _, name := range sources {
		runner, ok := r.runners[name]
		if !ok {
			log.Printf("⚠️ Unknown source %q requested, skipping", name)
			continue
		}
		out = append(out, runner)
	}
	return out
}

// Names lists all registered source names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
