package cron

import (
	"context"
	"fmt"
	"strings"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in registration order. Names are unique.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("job required")
	}
	name := strings.TrimSpace(job.Name())
	if name == "" {
		return fmt.Errorf("job name required")
	}
	for _, existing := range r.jobs {
		if existing.Name() == name {
			return fmt.Errorf("job %q already registered", name)
		}
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

// Only narrows the registry to the named jobs, keeping registration order.
// Unknown names are an error so a typo in -job does not run nothing.
func (r *Registry) Only(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.TrimSpace(name)] = true
	}
	out := &Registry{}
	for _, job := range r.jobs {
		if wanted[job.Name()] {
			out.jobs = append(out.jobs, job)
			delete(wanted, job.Name())
		}
	}
	for name := range wanted {
		return nil, fmt.Errorf("unknown job %q", name)
	}
	return out, nil
}
