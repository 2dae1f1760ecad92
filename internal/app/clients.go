package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/provider"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/platform/gemini"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/platform/openai"
)

var defaultModels = map[string][2]string{
	ProviderOpenAI: {"gpt-4o-mini", "gpt-4o"},
	ProviderGemini: {"gemini-2.5-flash", "gemini-2.5-pro"},
}

// models returns the general and lesson models, falling back to the provider defaults.
func (p ProviderConfig) models() (string, string) {
	def := defaultModels[strings.ToLower(p.Name)]
	general, lesson := strings.TrimSpace(p.GeneralModel), strings.TrimSpace(p.LessonModel)
	if general == "" {
		general = def[0]
	}
	if lesson == "" {
		lesson = def[1]
	}
	return general, lesson
}

func WireProvider(ctx context.Context, cfg ProviderConfig, log *logger.Logger) (provider.Provider, error) {
	general, lesson := cfg.models()
	switch strings.ToLower(cfg.Name) {
	case ProviderMock:
		log.Warn("Using mock generation provider")
		return provider.Mock{}, nil
	case ProviderOpenAI:
		oc := cfg.OpenAI
		oc.Model = general
		gc, err := openai.NewClient(oc, log)
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		return provider.NewRouter(gc, gc.WithModel(lesson)), nil
	case ProviderGemini:
		gcfg := cfg.Gemini
		gcfg.Model = general
		gc, err := gemini.NewClient(ctx, gcfg, log)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		lcfg := cfg.Gemini
		lcfg.Model = lesson
		lc, err := gemini.NewClient(ctx, lcfg, log)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		return provider.NewRouter(gc, lc), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
