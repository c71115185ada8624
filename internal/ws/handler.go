package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler confere o token e a origem, faz o upgrade e mantém o viewer no feed até a conexão cair.
func Handler(f *Feed, auth Auth, log *slog.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     auth.checkOrigin,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := VerifyFeedToken(auth.Secret, r.URL.Query().Get("token")); err != nil {
			log.Warn("ws_feed_token_rejected", "remote", r.RemoteAddr, "err", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("ws_upgrade_error", "err", err)
			return
		}

		v := &Viewer{Send: make(chan []byte, 256)}
		f.Join(v)
		log.Info("ws_viewer_connected", "id", v.ID, "remote", r.RemoteAddr)

		go writePump(conn, v)
		go readPump(conn, f, v)
	}
}

func writePump(conn *websocket.Conn, v *Viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-v.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// o viewer só escuta; a leitura existe para detectar o fechamento
func readPump(conn *websocket.Conn, f *Feed, v *Viewer) {
	defer func() {
		f.Leave(v)
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
