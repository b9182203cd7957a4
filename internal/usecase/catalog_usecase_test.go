package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

func TestCatalogImport(t *testing.T) {
	e := newEngine(nil)
	e.seedCommodities(plainCommodity(500, 462))

	bad := &domain.Commodity{ID: 7, PortionSize: 0, Materials: []domain.Material{{MaterialID: tritanium, Quantity: 1}}}
	result, err := e.catalog.Import(context.Background(), []*domain.Commodity{
		veldsparOre(),
		plainCommodity(tritanium, 18),
		plainCommodity(tritanium, 18),
		bad,
		{ID: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Processed != 2 || result.Skipped != 1 || result.Failed != 2 {
		t.Fatalf("expected 2 imported, 1 duplicate, 2 invalid, got %+v", result)
	}

	if _, err := e.commodities.GetByID(context.Background(), 500); !errors.Is(err, domain.ErrCommodityNotFound) {
		t.Fatalf("expected previous catalog to be replaced, got %v", err)
	}
	c, err := e.commodities.GetByID(context.Background(), veldspar)
	if err != nil || !c.Refinable() {
		t.Fatalf("expected refinable veldspar, got %+v err=%v", c, err)
	}
}

func TestCatalogImport_CommitFailureKeepsCatalog(t *testing.T) {
	e := newEngine(nil)
	e.txManager.BeginFunc = func(context.Context) (usecase.Transaction, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := e.catalog.Import(context.Background(), []*domain.Commodity{veldsparOre()}); err == nil {
		t.Fatal("expected error")
	}
}

func TestImportDirectory(t *testing.T) {
	e := newEngine(nil)

	result, err := e.catalog.ImportDirectory(context.Background(), usecase.Directory{
		Accounts: []*domain.Account{{ID: 1, Name: "Miner", PrimaryEntityID: miner}},
		Entities: []*domain.Entity{
			{ID: miner, AccountID: 1, Tracked: true},
			{ID: alt, AccountID: 1},
			{ID: other, AccountID: 77, Tracked: true},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 4 {
		t.Fatalf("expected 4 stored rows, got %+v", result)
	}

	orphan, _ := e.entities.GetByID(context.Background(), other)
	if !orphan.IsOrphan() {
		t.Fatalf("expected entity with unknown account to be orphaned, got account %d", orphan.AccountID)
	}

	members, _ := e.entities.ListByAccount(context.Background(), 1)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}
