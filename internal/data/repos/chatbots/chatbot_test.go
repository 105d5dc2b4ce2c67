package chatbots

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos/testutil"
	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
)

func TestChatbotRepo_CreateAndGetByRoute(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatbotRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, &domain.Chatbot{
		UserID:             "user-1",
		Route:              "lakeside-villas",
		ChatbotInstruction: "You are a helpful assistant for Lakeside Villas.",
		AppName:            "Lakeside Villas",
		BackgroundColor:    "rgba(20,20,40,1)",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected generated id")
	}

	got, err := repo.GetByRoute(dbc, "lakeside-villas")
	if err != nil {
		t.Fatalf("get by route: %v", err)
	}
	if got.ChatbotInstruction != created.ChatbotInstruction {
		t.Fatalf("instruction mismatch: got %q", got.ChatbotInstruction)
	}
}

func TestChatbotRepo_DuplicateRouteRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatbotRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	bot := domain.Chatbot{
		UserID:             "user-1",
		Route:              "dup-route",
		ChatbotInstruction: "first",
	}
	if _, err := repo.Create(dbc, &bot); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := repo.Create(dbc, &domain.Chatbot{
		UserID:             "user-2",
		Route:              "dup-route",
		ChatbotInstruction: "second",
	})
	if !errors.Is(err, ErrRouteTaken) {
		t.Fatalf("expected ErrRouteTaken, got %v", err)
	}
}

func TestChatbotRepo_ExistsByRoute(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatbotRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	exists, err := repo.ExistsByRoute(dbc, "never-created")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("expected false for unknown route")
	}

	if _, err := repo.Create(dbc, &domain.Chatbot{
		UserID:             "user-1",
		Route:              "exists-route",
		ChatbotInstruction: "x",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err = repo.ExistsByRoute(dbc, "exists-route")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected true after insert")
	}
}

func TestChatbotRepo_UpdateByRoute(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatbotRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if _, err := repo.Create(dbc, &domain.Chatbot{
		UserID:             "user-1",
		Route:              "patchable",
		ChatbotInstruction: "old",
		AppName:            "Old Name",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateByRoute(dbc, "patchable", map[string]any{
		"chatbot_instruction": "new",
		"app_name":            "New Name",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ChatbotInstruction != "new" || updated.AppName != "New Name" {
		t.Fatalf("update not applied: %+v", updated)
	}

	_, err = repo.UpdateByRoute(dbc, "missing-route", map[string]any{"app_name": "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestChatbotRepo_ListByUserID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatbotRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	for _, route := range []string{"list-a", "list-b"} {
		if _, err := repo.Create(dbc, &domain.Chatbot{
			UserID:             "list-user",
			Route:              route,
			ChatbotInstruction: "x",
		}); err != nil {
			t.Fatalf("create %s: %v", route, err)
		}
	}

	bots, err := repo.ListByUserID(dbc, "list-user")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bots) != 2 {
		t.Fatalf("expected 2 bots, got %d", len(bots))
	}
}
