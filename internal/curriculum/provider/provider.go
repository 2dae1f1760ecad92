// Package provider abstracts the text-generation service behind the curriculum stages.
package provider

import (
	"context"
	"fmt"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type Payload struct {
	System string
	User   string
}

// Provider returns raw generated text for a prompt. Transport, timeout and
// provider-side failures are reported as errors.ErrProviderCallFailed.
type Provider interface {
	Generate(ctx context.Context, p Payload, mode domain.ProviderMode) (string, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, p Payload, mode domain.ProviderMode) (string, error)

func (f Func) Generate(ctx context.Context, p Payload, mode domain.ProviderMode) (string, error) {
	return f(ctx, p, mode)
}

// Client is a single configured model endpoint. Adapters implement it.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Router sends each mode to its own client.
type Router struct {
	general Client
	lesson  Client
}

func NewRouter(general, lesson Client) *Router {
	if lesson == nil {
		lesson = general
	}
	return &Router{general: general, lesson: lesson}
}

func (r *Router) Generate(ctx context.Context, p Payload, mode domain.ProviderMode) (string, error) {
	var c Client
	switch mode {
	case domain.ModeGeneral:
		c = r.general
	case domain.ModeLesson:
		c = r.lesson
	default:
		return "", apperrors.InvalidInput("unknown provider mode %q", mode)
	}
	if c == nil {
		return "", apperrors.ProviderCallFailed(fmt.Errorf("no client configured for mode %q", mode))
	}
	out, err := c.Complete(ctx, p.System, p.User)
	if err != nil {
		return "", apperrors.ProviderCallFailed(err)
	}
	return out, nil
}
