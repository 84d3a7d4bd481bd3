package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
)

const defaultCSV = "question,correct,w1,w2,w3\n" +
	"Q1,C,A,B,D\nQ2,C,A,B,D\nQ3,C,A,B,D\nQ4,C,A,B,D\nQ5,C,A,B,D\n"

func newTestService() *app.GameService {
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(
		memory.NewStaticBankSource(map[string]string{app.DefaultBankID: defaultCSV}),
		5*time.Minute, 4)
	return app.NewGameService(store, banks, domain.DefaultGameConfig())
}

func TestJoinInstallsDefaultBank(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.Join(ctx, "s1")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if snap.BankSize != 5 {
		t.Fatalf("expected default bank of 5, got %d", snap.BankSize)
	}
	if snap.Phase != "" {
		t.Fatalf("expected menu phase before first round, got %q", snap.Phase)
	}
}

func TestUploadBankReplacesDefault(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Join(ctx, "s1")

	csv := "h,c,w1,w2,w3\nU1,C,A,B,D\nU2,C,A,B,D\nU3,C,A,B,D\nU4,C,A,B,D\n"
	n, err := service.UploadBank(ctx, "s1", "My Questions.CSV", csv)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 accepted questions, got %d", n)
	}
}

func TestUploadRejectsNonCSVExtension(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Join(ctx, "s1")

	_, err := service.UploadBank(ctx, "s1", "questions.txt", defaultCSV)
	if !errors.Is(err, domain.ErrNotCSVFile) {
		t.Fatalf("expected extension rejection, got %v", err)
	}
}

func TestUploadValidationFailureKeepsPreviousBank(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Join(ctx, "s1")

	_, err := service.UploadBank(ctx, "s1", "bad.csv", "h\nonly,three,cols\n")
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(err.Error(), "Not enough columns") {
		t.Fatalf("unexpected message: %v", err)
	}

	if err := service.StartRound(ctx, "s1"); err != nil {
		t.Fatalf("previous bank should still be playable: %v", err)
	}
}

func TestFullRoundFlowThroughService(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Join(ctx, "s1")

	if err := service.StartRound(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := service.SelectAnswer(ctx, "s1", i, 0); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	if err := service.Submit(ctx, "s1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := service.Advance(ctx, "s1"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := service.ExitToMenu(ctx, "s1"); err != nil {
		t.Fatalf("exit: %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService()
	_, _ = service.Join(ctx, "s1")

	ch, cancel, err := service.Subscribe(ctx, "s1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if err := service.StartRound(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := <-ch
	if snap.Phase != domain.RoundActive {
		t.Fatalf("expected active snapshot, got %q", snap.Phase)
	}
	if len(snap.Questions) != 4 {
		t.Fatalf("expected 4 questions in snapshot, got %d", len(snap.Questions))
	}
}

func TestUnknownSessionErrors(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	if err := service.StartRound(ctx, "ghost"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.UploadBank(ctx, "ghost", "x.csv", defaultCSV); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
}
