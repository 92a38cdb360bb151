// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Web dashboard with live websocket updates",
	Long: `Serve a browser dashboard for the printer.

Runs the same monitoring pipeline as the TUI and pushes every state
change to connected browsers over a websocket. A client receives the
current snapshot immediately on connect.

Endpoints:
  /    dashboard page
  /ws  websocket snapshot stream`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":5173", "HTTP listen address")
}

//go:embed web/index.html
var dashboardHTML []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served on a LAN address with no auth on the
	// printer side either; origin checks would only break reverse
	// proxies in front of it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans one snapshot stream out to every connected websocket client.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.Close()
}

// broadcast writes one payload to every client, dropping clients whose
// writes fail.
func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.clients, c)
			c.Close()
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// exportJSON marshals the current snapshot for the wire.
func exportJSON(st *bambu.State) []byte {
	b, err := json.Marshal(st.Snapshot().Export())
	if err != nil {
		// The export projection marshals cleanly by construction.
		panic(fmt.Sprintf("marshal snapshot export: %v", err))
	}
	return b
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	st := bambu.NewState()
	h := newHub()

	sess, err := dialPrinter(cfg, fmt.Sprintf("bambu-serve-%d", os.Getpid()), func(payload []byte) {
		if st.Ingest(payload) {
			h.broadcast(exportJSON(st))
		}
	})
	if err != nil {
		return err
	}
	defer sess.close()

	// Keep the full-status cadence going for the dashboard too.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pushIntervalSeconds * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sess.pushAll(); err != nil {
					log.Printf("pushall: %v", err)
				}
			}
		}
	}()
	defer close(done)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(dashboardHTML)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}

		// New clients get the current state before joining the stream.
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, exportJSON(st)); err != nil {
			conn.Close()
			return
		}
		h.add(conn)
		log.Printf("client connected (%d total)", h.count())

		// Drain the read side so pings and closes are processed.
		go func() {
			defer func() {
				h.remove(conn)
				log.Printf("client disconnected (%d total)", h.count())
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	srv := &http.Server{Addr: serveAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("dashboard listening on %s", serveAddr)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %v", err)
	case <-sig:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	return nil
}
