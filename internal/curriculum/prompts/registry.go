package prompts

import (
	"fmt"
	"sync"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Template struct {
	Name     PromptName
	Stage    domain.Stage
	Version  int
	Mode     domain.ProviderMode
	System   func(Input) (string, error)
	User     func(Input) (string, error)
	Validate func(Input) error
}

// Prompt is a rendered system/user pair plus the provider mode it targets.
type Prompt struct {
	Stage   domain.Stage        `json:"stage"`
	Name    string              `json:"name"`
	Version int                 `json:"version"`
	Mode    domain.ProviderMode `json:"mode"`
	System  string              `json:"system"`
	User    string              `json:"user"`
}

var (
	registry     = map[domain.Stage]Template{}
	registryOnce sync.Once
)

// Register registers a compiled Template under its stage.
func Register(t Template) {
	registry[t.Stage] = t
}

// Build validates req for its stage and renders the prompt. Defaults are
// applied to a copy; req itself is not modified.
func Build(req domain.GenerationRequest) (Prompt, error) {
	registryOnce.Do(RegisterAll)

	t, ok := registry[req.Stage]
	if !ok {
		return Prompt{}, apperrors.InvalidInput("unknown stage %q", req.Stage)
	}
	in := inputFrom(withDefaults(req))
	if err := t.Validate(in); err != nil {
		return Prompt{}, err
	}
	sys, err := t.System(in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Stage:   t.Stage,
		Name:    string(t.Name),
		Version: t.Version,
		Mode:    t.Mode,
		System:  sys,
		User:    user,
	}, nil
}

// ModeFor returns the provider mode a stage is routed to.
func ModeFor(stage domain.Stage) (domain.ProviderMode, error) {
	registryOnce.Do(RegisterAll)
	t, ok := registry[stage]
	if !ok {
		return "", fmt.Errorf("%w: unknown stage %q", apperrors.ErrInvalidInput, stage)
	}
	return t.Mode, nil
}
