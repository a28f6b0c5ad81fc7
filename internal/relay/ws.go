package relay

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"127.0.0.1:*", "localhost:*"}})
	if err != nil {
		s.logger.Warn(r.Context(), "websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	connID := uuid.NewString()
	hub := s.relay.Hub()
	outbound := hub.Join(connID)
	defer hub.Leave(connID)

	ctx := r.Context()
	log := s.logger.With("client_id", connID)
	log.Debug(ctx, "client connected")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			var env messaging.Envelope
			if err := wsjson.Read(gctx, conn, &env); err != nil {
				return err
			}
			msg, err := env.Unwrap()
			if err != nil {
				log.Warn(gctx, "dropping client message", "kind", env.Type, "err", err)
				continue
			}
			switch m := msg.(type) {
			case messaging.Hello:
				hub.Hello(connID, m.ClientID, m.URL)
				log.Info(gctx, "client active", "url", m.URL)
			case messaging.Navigate:
				hub.Navigate(connID, m.URL)
			default:
				log.Debug(gctx, "ignoring client message", "kind", m.Kind())
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case m, ok := <-outbound:
				if !ok {
					return nil
				}
				env, err := messaging.Wrap(m)
				if err != nil {
					return err
				}
				if err := wsjson.Write(gctx, conn, env); err != nil {
					return err
				}
			}
		}
	})

	err = g.Wait()
	switch {
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		errors.Is(err, context.Canceled):
		log.Debug(ctx, "client disconnected")
		_ = conn.Close(websocket.StatusNormalClosure, "")
	default:
		log.Warn(ctx, "client connection ended", "err", err)
	}
}
