package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"incorporation-portal/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func makeUser(email string, at time.Time) *user.User {
	return &user.User{
		UID:       uuid.NewString(),
		Name:      "Asha",
		Email:     email,
		Role:      user.RoleUser,
		CreatedAt: at,
	}
}

func TestUser_CreateAndLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := makeUser(" Asha@Example.com ", time.Now().UTC())
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}

	got, err := repo.GetByEmail(ctx, "ASHA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.UID != u.UID {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.GetByUID(ctx, u.UID); err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	if _, err := repo.GetByUID(ctx, uuid.NewString()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUser_DuplicateEmailRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeUser("dup@example.com", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeUser("DUP@example.com", time.Now())); err == nil {
		t.Fatalf("expected unique violation")
	}
}

func TestUser_ListAndCount(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	base := time.Now().UTC()

	for i, e := range []string{"a@x.io", "b@x.io"} {
		if err := repo.Create(ctx, makeUser(e, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Email != "b@x.io" {
		t.Fatalf("unexpected list: %+v", list)
	}
	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}
