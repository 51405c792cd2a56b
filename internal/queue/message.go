package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/dnc-checker/internal/domain"
)

// ResultMessage is the broker payload for one classified number.
type ResultMessage struct {
	MessageID string        `json:"messageId"`
	BatchID   string        `json:"batchId,omitempty"`
	Number    string        `json:"number"`
	Status    domain.Status `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Source    string        `json:"source,omitempty"`
	CheckedAt time.Time     `json:"checkedAt"`
}

func NewResultMessage(batchID string, result domain.LookupResult) ResultMessage {
	return ResultMessage{
		MessageID: uuid.NewString(),
		BatchID:   batchID,
		Number:    result.Number,
		Status:    result.Status,
		Reason:    result.Reason,
		Source:    result.Source,
		CheckedAt: result.Timestamp,
	}
}

func (m ResultMessage) Validate() error {
	if strings.TrimSpace(m.MessageID) == "" {
		return fmt.Errorf("messageId is required")
	}
	if strings.TrimSpace(m.Number) == "" {
		return fmt.Errorf("number is required")
	}
	if !m.Status.IsValid() {
		return fmt.Errorf("invalid status %q", m.Status)
	}
	return nil
}
