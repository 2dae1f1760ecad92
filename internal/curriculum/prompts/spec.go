package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

// Spec is the declaration format used in RegisterAll.
type Spec struct {
	Name    PromptName
	Stage   domain.Stage
	Version int
	Mode    domain.ProviderMode
	// Plain strings or go templates using {{.Field}} from Input.
	System     string
	User       string
	Validators []Validator
}

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Stage == "" {
		return Template{}, fmt.Errorf("missing stage for %s", s.Name)
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if s.Mode != domain.ModeGeneral && s.Mode != domain.ModeLesson {
		return Template{}, fmt.Errorf("invalid provider mode %q for %s", s.Mode, s.Name)
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	render := func(t *template.Template, in Input) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", fmt.Errorf("%s render %s: %w", s.Name, t.Name(), err)
		}
		return strings.TrimSpace(b.String()), nil
	}
	validators := s.Validators
	return Template{
		Name:    s.Name,
		Stage:   s.Stage,
		Version: s.Version,
		Mode:    s.Mode,
		System: func(in Input) (string, error) {
			out, err := render(sysT, in)
			if err != nil {
				return "", err
			}
			return applyStyle(out, s.Mode), nil
		},
		User: func(in Input) (string, error) { return render(userT, in) },
		Validate: func(in Input) error {
			for _, v := range validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

// RegisterSpec is the one-liner to call in RegisterAll().
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}
