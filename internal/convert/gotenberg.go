// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pdiddy/doc2pdf/internal/secrets"
)

const gotenbergRoute = "/forms/libreoffice/convert"

// GotenbergConverter delegates conversion to a Gotenberg server, which
// wraps LibreOffice behind an HTTP API.
type GotenbergConverter struct {
	client *resty.Client
}

// NewGotenbergConverter creates a converter that posts to baseURL. Basic
// auth is set only when creds carries a username.
func NewGotenbergConverter(baseURL string, creds secrets.Credentials) *GotenbergConverter {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/pdf")
	if creds.Username != "" {
		client.SetBasicAuth(creds.Username, creds.Password)
	}

	return &GotenbergConverter{client: client}
}

// Convert uploads inputPath as a multipart form and returns the PDF body.
func (g *GotenbergConverter) Convert(ctx context.Context, inputPath, format string) ([]byte, error) {
	if format != FormatPDF {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	resp, err := g.client.R().
		SetContext(ctx).
		SetFileReader("files", filepath.Base(inputPath), f).
		Post(gotenbergRoute)
	if err != nil {
		return nil, fmt.Errorf("posting %s to gotenberg: %w", filepath.Base(inputPath), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gotenberg returned %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	return resp.Body(), nil
}
