package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

const recordsEndpoint = "/v1/records"

// RecordSender implements ports.RecordSender by POSTing JSON to a results service.
type RecordSender struct {
	client     ports.HTTPClient
	serviceURL string
	authKey    string
	hostname   string
}

// NewRecordSender creates a sender for the service at serviceURL.
func NewRecordSender(client ports.HTTPClient, serviceURL, authKey, hostname string) *RecordSender {
	return &RecordSender{
		client:     client,
		serviceURL: strings.TrimRight(serviceURL, "/"),
		authKey:    authKey,
		hostname:   hostname,
	}
}

type recordsPayload struct {
	Records []domain.Record `json:"records"`
}

// Send transmits a batch of records to the remote service.
func (s *RecordSender) Send(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	body, err := json.Marshal(recordsPayload{Records: records})
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	url := s.serviceURL + recordsEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.authKey)
	}
	req.Header.Set("X-Swimset-Hostname", s.hostname)
	req.Header.Set("X-Swimset-OSArch", runtime.GOOS+"/"+runtime.GOARCH)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
