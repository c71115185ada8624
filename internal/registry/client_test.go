package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Werneck0live/registro-leads/internal/models"
)

/*

go test -v ./internal/registry -count=1

*/

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLookup_StripsPunctuation(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"status":"OK","nome":"ACME LTDA","fantasia":"ACME","email":"contato@acme.com","telefone":"(11) 4002-8922"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, quiet()).Lookup(context.Background(), "12.345.678/0001-95")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if gotPath != "/v1/cnpj/12345678000195" {
		t.Fatalf("path: got %q", gotPath)
	}
	want := models.Company{
		CNPJ:         "12345678000195",
		RazaoSocial:  models.Present("ACME LTDA"),
		NomeFantasia: models.Present("ACME"),
		Email:        models.Present("contato@acme.com"),
		Telefone:     models.Present("(11) 4002-8922"),
	}
	if *c != want {
		t.Fatalf("company mismatch:\n got %#v\nwant %#v", *c, want)
	}
}

func TestLookup_MissingFantasia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"OK","nome":"ACME LTDA","email":""}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second, quiet()).Lookup(context.Background(), "12345678000195")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if c.NomeFantasia.Present {
		t.Fatalf("fantasia should be missing: %#v", c.NomeFantasia)
	}
	if got := c.NomeFantasia.Display(); got != models.NotFound {
		t.Fatalf("display: got %q want %q", got, models.NotFound)
	}
	if c.Email.Present || c.Telefone.Present {
		t.Fatalf("blank/absent email and phone should be missing: %#v", c)
	}
	if c.RazaoSocial.Display() != "ACME LTDA" {
		t.Fatalf("razao social: %#v", c.RazaoSocial)
	}
}

func TestLookup_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ERROR","message":"CNPJ inválido"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, quiet()).Lookup(context.Background(), "00000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestLookup_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, quiet()).Lookup(context.Background(), "12345678000195")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestLookup_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close() // conexão recusada

	_, err := NewClient(url, time.Second, quiet()).Lookup(context.Background(), "12345678000195")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestLookup_EmptyCNPJ_NoCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, quiet()).Lookup(context.Background(), "n/a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("registry should not be called, calls=%d", calls.Load())
	}
}
