package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Viewer é uma tela de relatório conectada ao feed.
type Viewer struct {
	ID   string
	Send chan []byte
}

// Feed distribui os eventos de lead para os viewers conectados e guarda
// os últimos eventos para quem conectar depois.
type Feed struct {
	mu      sync.RWMutex
	viewers map[string]*Viewer
	recent  [][]byte
	keep    int

	join    chan *Viewer
	leave   chan *Viewer
	events  chan []byte
	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewFeed(log *slog.Logger, keep int) *Feed {
	if log == nil {
		log = slog.Default()
	}
	if keep < 0 {
		keep = 0
	}
	return &Feed{
		viewers: make(map[string]*Viewer),
		keep:    keep,
		join:    make(chan *Viewer),
		leave:   make(chan *Viewer),
		events:  make(chan []byte),
		log:     log.With("cmp", "ws.feed"),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (f *Feed) Run() {
	f.log.Info("feed_run_start")
	defer close(f.stopped)

	for {
		select {
		case v := <-f.join:
			f.mu.Lock()
			f.viewers[v.ID] = v
			total := len(f.viewers)
			backlog := append([][]byte(nil), f.recent...)
			f.mu.Unlock()
			for _, ev := range backlog {
				select {
				case v.Send <- ev:
				default:
				}
			}
			f.log.Info("viewer_joined", "id", v.ID, "total", total, "backlog", len(backlog))

		case v := <-f.leave:
			f.mu.Lock()
			if cur, ok := f.viewers[v.ID]; ok && cur == v {
				delete(f.viewers, v.ID)
				close(v.Send)
			}
			total := len(f.viewers)
			f.mu.Unlock()
			f.log.Info("viewer_left", "id", v.ID, "total", total)

		case ev := <-f.events:
			f.mu.Lock()
			if f.keep > 0 {
				f.recent = append(f.recent, ev)
				if len(f.recent) > f.keep {
					f.recent = f.recent[len(f.recent)-f.keep:]
				}
			}
			for id, v := range f.viewers {
				select {
				case v.Send <- ev:
				default:
					// viewer lento: desconecta para não travar o feed
					delete(f.viewers, id)
					close(v.Send)
					f.log.Warn("viewer_dropped_slow", "id", id)
				}
			}
			f.mu.Unlock()

		case <-f.stop:
			f.mu.Lock()
			for id, v := range f.viewers {
				close(v.Send)
				delete(f.viewers, id)
			}
			f.mu.Unlock()
			f.log.Info("feed_run_stop")
			return
		}
	}
}

func (f *Feed) Stop() {
	close(f.stop)
	<-f.stopped
}

// Join, Leave e Publish viram no-op depois de Stop.
func (f *Feed) Join(v *Viewer) {
	if v.ID == "" {
		v.ID = fmt.Sprintf("v%d", f.nextID.Add(1))
	}
	select {
	case f.join <- v:
	case <-f.stopped:
	}
}

func (f *Feed) Leave(v *Viewer) {
	select {
	case f.leave <- v:
	case <-f.stopped:
	}
}

// Publish enfileira um evento já serializado.
func (f *Feed) Publish(ev []byte) {
	select {
	case f.events <- ev:
	case <-f.stopped:
	}
}

func (f *Feed) Viewers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.viewers)
}
