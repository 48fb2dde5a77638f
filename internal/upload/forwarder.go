// Package upload forwards ingested photos to a remote collection endpoint.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const DefaultJPEGQuality = 80

type Forwarder struct {
	endpoint string
	client   *http.Client
	quality  int
}

func NewForwarder(endpoint string, client *http.Client) (*Forwarder, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid forward url %q", endpoint)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Forwarder{endpoint: endpoint, client: client, quality: DefaultJPEGQuality}, nil
}

// Send posts img as a base64 JPEG in the "image" form field.
func (f *Forwarder) Send(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(f.quality)); err != nil {
		return fmt.Errorf("encoding jpeg: %w", err)
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(buf.Bytes()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending photo: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forward endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// SendAsync forwards in the background and only logs the outcome.
func (f *Forwarder) SendAsync(photoID string, img image.Image) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := f.Send(ctx, img); err != nil {
			log.Printf("[FORWARD] Failed to upload photo %s: %v", photoID, err)
			return
		}
		log.Printf("[FORWARD] Photo %s uploaded", photoID)
	}()
}
