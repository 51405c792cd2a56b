package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type recordingAcknowledger struct {
	acks    int
	nacks   int
	rejects int
	requeue bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	a.rejects++
	a.requeue = requeue
	return nil
}

func TestConsumerDispatchSettlesDeliveries(t *testing.T) {
	t.Parallel()

	valid, err := json.Marshal(ResultMessage{MessageID: "m1", Number: "+12345678901", Status: domain.StatusClean})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	invalid, err := json.Marshal(ResultMessage{MessageID: "m2", Number: "+12345678901", Status: "unknown"})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAcks    int
		wantNacks   int
		wantRejects int
	}{
		{name: "valid message is acked", body: valid, wantAcks: 1},
		{name: "handler failure is requeued", body: valid, handlerErr: errors.New("stdout closed"), wantNacks: 1},
		{name: "invalid json is dead-lettered", body: []byte("{"), wantRejects: 1},
		{name: "invalid status is dead-lettered", body: invalid, wantRejects: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			consumer := NewRabbitMQConsumer(nil, 0, nil)
			ack := &recordingAcknowledger{}
			delivery := amqp.Delivery{Acknowledger: ack, Body: tc.body}

			var handled []ResultMessage
			handler := func(_ context.Context, msg ResultMessage) error {
				handled = append(handled, msg)
				return tc.handlerErr
			}

			result := consumer.dispatch(context.Background(), delivery, handler, zap.NewNop())
			if err := settle(delivery, result); err != nil {
				t.Fatalf("settle() error = %v", err)
			}

			if ack.acks != tc.wantAcks || ack.nacks != tc.wantNacks || ack.rejects != tc.wantRejects {
				t.Fatalf("acks/nacks/rejects = %d/%d/%d, want %d/%d/%d",
					ack.acks, ack.nacks, ack.rejects, tc.wantAcks, tc.wantNacks, tc.wantRejects)
			}
			if tc.wantNacks == 1 && !ack.requeue {
				t.Fatal("nack requeue = false, want true")
			}
			if tc.wantRejects == 1 && ack.requeue {
				t.Fatal("reject requeue = true, want false")
			}
			if tc.wantRejects == 0 && len(handled) != 1 {
				t.Fatalf("handler calls = %d, want 1", len(handled))
			}
		})
	}
}

func TestConsumeValidatesArguments(t *testing.T) {
	t.Parallel()

	var nilConsumer *RabbitMQConsumer
	if err := nilConsumer.Consume(context.Background(), "q", func(context.Context, ResultMessage) error { return nil }); err == nil {
		t.Fatal("Consume() on nil consumer error = nil, want error")
	}
}
