package service

import (
	"context"
	"testing"

	"github.com/Devam759/StitchUp-Firebase/internal/eventbus"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/Devam759/StitchUp-Firebase/internal/repository"
)

func newCartFixture(t *testing.T) (CartService, *model.User, *model.User) {
	t.Helper()
	gdb := openTestDB(t)
	customer := &model.User{ID: "cust1", Role: model.RoleCustomer, Name: "Asha"}
	tailor := &model.User{
		ID: "tail1", Role: model.RoleTailor, Name: "Raj Tailors",
		ShopPhotoURL: "https://cdn.example.com/shop.jpg",
		PriceFrom:    120, DistanceKm: 1.2, Rating: 4.8,
	}
	mustCreate(t, gdb, customer)
	mustCreate(t, gdb, tailor)

	cartRepo := repository.NewCartRepository(gdb)
	userRepo := repository.NewUserRepository(gdb)
	return NewCartService(cartRepo, userRepo, eventbus.New()), customer, tailor
}

func TestCartAddSnapshotsTailorCard(t *testing.T) {
	svc, customer, tailor := newCartFixture(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, customer, tailor.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.TailorName != "Raj Tailors" || item.PriceFrom != 120 || item.Rating != 4.8 {
		t.Fatalf("item=%+v", item)
	}

	// adding the same tailor again keeps a single row
	if _, err := svc.Add(ctx, customer, tailor.ID); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	items, err := svc.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items=%d want=1", len(items))
	}

	if _, err := svc.Add(ctx, customer, "nobody"); err != ErrNotFound {
		t.Fatalf("unknown tailor err=%v want=%v", err, ErrNotFound)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	svc, customer, tailor := newCartFixture(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, customer, tailor.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, customer.ID, tailor.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, err := svc.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items=%d want=0", len(items))
	}

	if _, err := svc.Add(ctx, customer, tailor.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, customer.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err = svc.List(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items=%d want=0 after clear", len(items))
	}
}
