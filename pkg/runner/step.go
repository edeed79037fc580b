package runner

import (
	"strings"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
)

// Unavailable is the package mapping meaning "not available on this manager"
const Unavailable = "-"

// Step is one entry of the ordered package list
type Step struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Optional bool              `json:"optional"`
	GUI      bool              `json:"gui,omitempty"`
	Packages map[string]string `json:"packages,omitempty"`
}

// PackageFor returns the package name for manager. The second value is false
// when the step maps the manager to Unavailable.
func (s Step) PackageFor(manager string) (string, bool) {
	pkg, ok := s.Packages[manager]
	if !ok || strings.TrimSpace(pkg) == "" {
		return s.ID, true
	}
	if strings.TrimSpace(pkg) == Unavailable {
		return "", false
	}
	return pkg, true
}

// StepsFromConfig converts configured package specs into steps
func StepsFromConfig(specs []config.PackageSpec) []Step {
	steps := make([]Step, 0, len(specs))
	for _, spec := range specs {
		steps = append(steps, Step{
			ID:       spec.ID,
			Name:     spec.DisplayName(),
			Optional: spec.Optional,
			GUI:      spec.GUI,
			Packages: spec.Managers,
		})
	}
	return steps
}

// Filter restricts steps to ids, keeping the original order. An empty ids
// list keeps every step.
func Filter(steps []Step, ids []string) ([]Step, error) {
	if len(ids) == 0 {
		return steps, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	filtered := make([]Step, 0, len(ids))
	for _, step := range steps {
		if wanted[step.ID] {
			filtered = append(filtered, step)
			delete(wanted, step.ID)
		}
	}

	if len(wanted) > 0 {
		var unknown []string
		for _, id := range ids {
			if wanted[id] {
				unknown = append(unknown, id)
			}
		}
		return nil, errors.Newf(errors.ErrStepUnknown, "unknown package step(s): %s", strings.Join(unknown, ", ")).
			WithDetail("ids", unknown)
	}
	return filtered, nil
}
