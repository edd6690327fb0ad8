package controller

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"lms_backend/internal/model"
	"lms_backend/internal/store"
)

const DefaultHeartbeat = 15 * time.Second

// StreamController pushes store snapshots to browsers as server-sent events.
// Every connection holds its own subscription until the client goes away.
type StreamController struct {
	leads     store.LeadStore
	log       *zap.Logger
	heartbeat time.Duration
}

func NewStreamController(leads store.LeadStore, log *zap.Logger) *StreamController {
	if log == nil {
		log = zap.NewNop()
	}
	return &StreamController{leads: leads, log: log, heartbeat: DefaultHeartbeat}
}

func (sc *StreamController) StreamLeads(c *fiber.Ctx) error {
	return streamSnapshots(c, sc, "leads", func(fn func([]model.Lead)) (store.Unsubscribe, error) {
		return sc.leads.SubscribeLeads(fn)
	})
}

func (sc *StreamController) StreamComments(c *fiber.Ctx) error {
	return streamSnapshots(c, sc, "comments", func(fn func([]model.Comment)) (store.Unsubscribe, error) {
		return sc.leads.SubscribeComments(fn)
	})
}

func streamSnapshots[T any](
	c *fiber.Ctx,
	sc *StreamController,
	event string,
	subscribe func(func([]T)) (store.Unsubscribe, error),
) error {
	updates := make(chan []T, 1)
	done := make(chan struct{})

	unsub, err := subscribe(func(snapshot []T) {
		select {
		case updates <- snapshot:
		case <-done:
		}
	})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Stream unavailable",
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := sc.log.With(zap.String("stream", event))
	heartbeat := sc.heartbeat

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsub()
		defer close(done)
		log.Debug("Stream opened")

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case snapshot := <-updates:
				if err := writeEvent(w, event, snapshot); err != nil {
					log.Debug("Stream closed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("Stream closed", zap.Error(err))
					return
				}
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
