package ws

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

/*
	Para rodar: go test -v ./internal/ws -count=1
*/

func recv(t *testing.T, ch <-chan []byte) string {
	t.Helper()
	select {
	case got, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting message")
	}
	return ""
}

func TestFeed_Broadcast(t *testing.T) {
	f := NewFeed(slog.Default(), 0)
	go f.Run()
	defer f.Stop()

	v1 := &Viewer{Send: make(chan []byte, 1)}
	v2 := &Viewer{Send: make(chan []byte, 1)}
	f.Join(v1)
	f.Join(v2)

	f.Publish([]byte("hello"))

	if got := recv(t, v1.Send); got != "hello" {
		t.Fatalf("v1 got %q", got)
	}
	if got := recv(t, v2.Send); got != "hello" {
		t.Fatalf("v2 got %q", got)
	}
	if v1.ID == "" || v1.ID == v2.ID {
		t.Fatalf("ids should be unique: %q %q", v1.ID, v2.ID)
	}
}

func TestFeed_BacklogForLateViewer(t *testing.T) {
	f := NewFeed(slog.Default(), 2)
	go f.Run()
	defer f.Stop()

	f.Publish([]byte("a"))
	f.Publish([]byte("b"))
	f.Publish([]byte("c"))

	// Publish só retorna quando o loop recebeu o evento
	v := &Viewer{Send: make(chan []byte, 4)}
	f.Join(v)

	if got := recv(t, v.Send); got != "b" {
		t.Fatalf("first backlog event: %q", got)
	}
	if got := recv(t, v.Send); got != "c" {
		t.Fatalf("second backlog event: %q", got)
	}
}

func TestFeed_DropsSlowViewer(t *testing.T) {
	f := NewFeed(slog.Default(), 0)
	go f.Run()
	defer f.Stop()

	slow := &Viewer{Send: make(chan []byte)} // sem buffer: nunca aceita
	f.Join(slow)
	f.Publish([]byte("x"))

	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("slow viewer was not dropped")
	}
	if n := f.Viewers(); n != 0 {
		t.Fatalf("viewers: %d", n)
	}
}

func TestFeed_LeaveAfterStopDoesNotBlock(t *testing.T) {
	f := NewFeed(slog.Default(), 0)
	go f.Run()

	v := &Viewer{Send: make(chan []byte, 1)}
	f.Join(v)
	f.Stop()

	done := make(chan struct{})
	go func() {
		f.Leave(v)
		f.Publish([]byte("late"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Leave blocked after Stop")
	}
}

func TestForward_DiscardsInvalid(t *testing.T) {
	f := NewFeed(slog.Default(), 0)
	go f.Run()
	defer f.Stop()

	v := &Viewer{Send: make(chan []byte, 4)}
	f.Join(v)

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Body: []byte("not json")}
	deliveries <- amqp.Delivery{Body: []byte(`{"foo":1}`)}
	deliveries <- amqp.Delivery{Body: []byte(`{"action":"cadastro","message":"Cadastro de LEAD ACME"}`)}
	close(deliveries)

	Forward(f, deliveries, slog.Default())

	if got := recv(t, v.Send); !strings.Contains(got, "Cadastro de LEAD ACME") {
		t.Fatalf("unexpected event: %q", got)
	}
	select {
	case extra := <-v.Send:
		t.Fatalf("unexpected extra event: %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}
