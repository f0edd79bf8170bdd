package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/readstack/library-service/pkg/kafka"
)

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.stats.GetStats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// logEvent publishes an audit event; failures never affect the response.
func (h *Handler) logEvent(eventType, username string, payload any) {
	if h.audit == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal audit payload", zap.Error(err))
		return
	}
	if err := h.audit.Log(kafka.Event{
		Type:      eventType,
		Username:  username,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		h.log.Error("audit log", zap.String("type", eventType), zap.Error(err))
	}
}

type statsLog struct {
	producer sarama.SyncProducer
	topic    string
}

func NewStatsLog(producer sarama.SyncProducer, topic string) StatsLog {
	return &statsLog{
		producer: producer,
		topic:    topic,
	}
}

func (l *statsLog) Log(event kafka.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: l.topic, Value: sarama.StringEncoder(data)}
	if _, _, err = l.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}
