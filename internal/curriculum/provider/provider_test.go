package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
)

type clientFunc func(ctx context.Context, system, user string) (string, error)

func (f clientFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestRouterRoutesByMode(t *testing.T) {
	general := clientFunc(func(context.Context, string, string) (string, error) { return "general", nil })
	lesson := clientFunc(func(context.Context, string, string) (string, error) { return "lesson", nil })
	r := NewRouter(general, lesson)

	for mode, want := range map[domain.ProviderMode]string{domain.ModeGeneral: "general", domain.ModeLesson: "lesson"} {
		got, err := r.Generate(context.Background(), Payload{}, mode)
		if err != nil {
			t.Fatalf("Generate(%s): %v", mode, err)
		}
		if got != want {
			t.Fatalf("Generate(%s)=%q want %q", mode, got, want)
		}
	}
	if _, err := r.Generate(context.Background(), Payload{}, "other"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown mode: got %v", err)
	}
}

func TestRouterWrapsClientErrors(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewRouter(clientFunc(func(context.Context, string, string) (string, error) { return "", boom }), nil)
	_, err := r.Generate(context.Background(), Payload{}, domain.ModeLesson)
	if !errors.Is(err, apperrors.ErrProviderCallFailed) || !errors.Is(err, boom) {
		t.Fatalf("Generate: got %v", err)
	}
}

func TestMockLessonCounts(t *testing.T) {
	out, err := Mock{}.Generate(context.Background(), Payload{User: "STRAND: HS-LS1.A\n- Write exactly 4 lessons for this strand."}, domain.ModeLesson)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n := gjson.Get(out, "#").Int(); n != 4 {
		t.Fatalf("lessons=%d want 4: %s", n, out)
	}
	if code := gjson.Get(out, "0.standard_code").String(); code != "HS-LS1.A" {
		t.Fatalf("standard_code=%q", code)
	}

	out, err = Mock{}.Generate(context.Background(), Payload{User: "SUB-STANDARDS:\n- A.1: One (lessons: 2)\n- A.2: Two (lessons: 1)"}, domain.ModeLesson)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n := gjson.Get(out, "#").Int(); n != 3 {
		t.Fatalf("lessons=%d want 3: %s", n, out)
	}
}
