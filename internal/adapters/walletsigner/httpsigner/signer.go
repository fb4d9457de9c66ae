// Package httpsigner calls the external wallet-signing service over HTTP.
package httpsigner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smartwave-hq/cards-api/internal/ports/out/walletsigner"
)

const defaultTimeout = 10 * time.Second

// Signer posts issuance requests to {baseURL}/v1/{platform}/sign and returns
// the signed artifact bytes as-is. Failures map to ErrUnavailable; there is no
// retry here.
type Signer struct {
	baseURL string
	client  *http.Client
}

type Options struct {
	// Timeout bounds each signing call; zero means 10s.
	Timeout time.Duration
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

func NewSigner(baseURL string, opts Options) *Signer {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Signer{baseURL: baseURL, client: client}
}

type signRequest struct {
	Template       string            `json:"template"`
	SerialNumber   string            `json:"serialNumber"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
	BarcodePayload string            `json:"barcodePayload"`
}

func (s *Signer) Sign(ctx context.Context, req walletsigner.Request) (walletsigner.Artifact, error) {
	body, err := json.Marshal(signRequest{
		Template:       string(req.Template),
		SerialNumber:   req.SerialNumber,
		Title:          req.Title,
		Description:    req.Description,
		Fields:         req.Fields,
		BarcodePayload: req.BarcodePayload,
	})
	if err != nil {
		return walletsigner.Artifact{}, fmt.Errorf("encode sign request: %w", err)
	}

	url := s.baseURL + "/v1/" + string(req.Platform) + "/sign"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return walletsigner.Artifact{}, fmt.Errorf("build sign request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return walletsigner.Artifact{}, fmt.Errorf("%w: %v", walletsigner.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused, then discard.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return walletsigner.Artifact{}, fmt.Errorf("%w: status %d", walletsigner.ErrUnavailable, resp.StatusCode)
	}

	artifact, err := io.ReadAll(resp.Body)
	if err != nil {
		return walletsigner.Artifact{}, fmt.Errorf("%w: read body: %v", walletsigner.ErrUnavailable, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return walletsigner.Artifact{ContentType: contentType, Body: artifact}, nil
}
