package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MikeRez0/yppaymentgate/internal/adapter/config"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// Client talks to the external payment processor. One call per submission;
// retry and circuit breaking are the processor side's concern.
type Client struct {
	logger *zap.Logger
	host   string
	client *http.Client
}

func NewClient(cfg *config.Processor, log *zap.Logger) (*Client, error) {
	return &Client{
		host:   cfg.HostString,
		logger: log,
		client: http.DefaultClient,
	}, nil
}

type submissionRequest struct {
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	CreatedAt int64   `json:"createdAt"`
	Deadline  int64   `json:"deadline"`
}

func (c *Client) SubmitPaymentRequest(ctx context.Context, paymentID uuid.UUID,
	amount decimal.Decimal, createdAt time.Time, deadline time.Time) error {
	amountFloat, ok := amount.Float64()
	if !ok {
		return fmt.Errorf("amount %s does not fit in request", amount)
	}

	body, err := json.Marshal(submissionRequest{
		PaymentID: paymentID.String(),
		Amount:    amountFloat,
		CreatedAt: createdAt.UnixMilli(),
		Deadline:  deadline.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("error encoding submission: %w", err)
	}

	requestStr := "http://" + c.host + "/payments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Fire payment submission",
		zap.String("payment", paymentID.String()))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status for submission",
			zap.String("payment", paymentID.String()), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("bad response %v for request %s", resp.StatusCode, requestStr)
	}

	return nil
}
