//go:build integration
// +build integration

package session

/*
	Para rodar: go test -tags=integration -v ./internal/session -run TestMongoStore_Integration -count=1
*/

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Werneck0live/registro-leads/internal/db"
	"github.com/Werneck0live/registro-leads/internal/models"
)

// Exercita: EnsureIndexes -> Save -> Get -> Save (replace) -> Delete
func TestMongoStore_Integration_SaveGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mongoC, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { _ = mongoC.Terminate(ctx) })

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}

	client, err := db.NewMongoClient(uri)
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	store := NewMongoStore(client.Database("testdb"), time.Hour)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	s := New("sess-1")
	s.Draft = Draft{
		CompanyName: "ACME",
		Searched:    true,
		CNPJFound:   true,
		Company:     models.Company{CNPJ: "12345678000195", RazaoSocial: models.Present("ACME LTDA"), NomeFantasia: models.Missing()},
		Form:        models.Lead{CNPJ: "12.345.678/0001-95", NomeFantasia: models.NotFound},
	}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Draft.Company.RazaoSocial.Display() != "ACME LTDA" || got.Draft.Company.NomeFantasia.Present {
		t.Fatalf("draft mismatch: %#v", got.Draft)
	}

	got.ReportUnlocked = true
	if err := store.Save(ctx, got); err != nil {
		t.Fatalf("replace: %v", err)
	}
	again, err := store.Get(ctx, "sess-1")
	if err != nil || !again.ReportUnlocked {
		t.Fatalf("after replace: %#v err=%v", again, err)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "sess-1"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}
