package uowmock

import (
	"context"
	"errors"
	"testing"

	"incorporation-portal/internal/domain/application"
	"incorporation-portal/internal/domain/uow"
	"incorporation-portal/internal/testutil/applicationmock"
)

func TestUoW_WithinApplicationTx_Happy(t *testing.T) {
	ctx := context.Background()

	apps := &applicationmock.Repo{}
	hist := &applicationmock.HistoryRepo{}
	repos := uow.Repos{Applications: apps, History: hist}
	doc := &application.Application{DocumentID: "doc-9"}

	innerCalled := false
	m := &UoW{
		WithinApplicationTxFn: func(gotCtx context.Context, ref string, fn func(uow.Repos, *application.Application) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinApplicationTx: ctx mismatch")
			}
			if ref != "doc-9" || fn == nil {
				t.Fatalf("WithinApplicationTx: ref=%q fn nil=%v", ref, fn == nil)
			}
			// simulate transaction body
			return fn(repos, doc)
		},
	}

	err := m.WithinApplicationTx(ctx, "doc-9", func(r uow.Repos, a *application.Application) error {
		innerCalled = true
		if r.Applications != apps || r.History != hist || a != doc {
			t.Fatalf("WithinApplicationTx: arguments not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinApplicationTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinApplicationTx: inner fn not called")
	}
}

func TestUoW_WithinApplicationTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")

	m := New().WithWithinApplicationTx(func(context.Context, string, func(uow.Repos, *application.Application) error) error {
		return sentinel
	})
	err := m.WithinApplicationTx(context.Background(), "x", func(uow.Repos, *application.Application) error { return nil })
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinApplicationTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	err := m.WithinApplicationTx(context.Background(), "x", nil)
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinApplicationTx: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_ResolvesRef(t *testing.T) {
	want := &application.Application{DocumentID: "doc-1", ApplicationID: "INC-1"}
	apps := &applicationmock.Repo{
		GetByRefFn: func(_ context.Context, ref string) (*application.Application, error) {
			if ref != "INC-1" {
				t.Fatalf("ref = %q", ref)
			}
			return want, nil
		},
	}
	m := Passthrough(uow.Repos{Applications: apps})

	var got *application.Application
	err := m.WithinApplicationTx(context.Background(), "INC-1", func(_ uow.Repos, a *application.Application) error {
		got = a
		return nil
	})
	if err != nil || got != want {
		t.Fatalf("got %v, %v", got, err)
	}

	m.Reset()
	if err := m.WithinApplicationTx(context.Background(), "INC-1", nil); !errors.Is(err, errUnimplemented) {
		t.Fatalf("after Reset: %v", err)
	}
}
