// Package remote talks to a detection server over a websocket.
//
// One request is a binary JPEG frame, the reply is a single JSON message.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ivlev/objdetect/internal/config"
	"github.com/ivlev/objdetect/internal/model"
)

const jpegQuality = 95

// Reply is the message a detection server answers with
type Reply struct {
	Names      map[int]string `json:"names,omitempty"`
	Detections []ReplyBox     `json:"detections"`
	Error      string         `json:"error,omitempty"`
}

type ReplyBox struct {
	Box        [4]float64 `json:"box"` // x1, y1, x2, y2
	Confidence float32    `json:"confidence"`
	Class      int        `json:"class"`
}

type Model struct {
	serverURL string
	timeout   time.Duration
	names     model.Names
}

func New(cfg config.ModelConfig) (*Model, error) {
	u, err := url.Parse(cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("remote url %q: scheme must be ws or wss", cfg.RemoteURL)
	}

	names, err := model.ResolveNames(cfg.Names)
	if err != nil {
		return nil, err
	}

	return &Model{
		serverURL: u.String(),
		timeout:   cfg.Timeout,
		names:     names,
	}, nil
}

func (m *Model) Names() model.Names {
	return m.names
}

func (m *Model) Close() error {
	return nil
}

func (m *Model) Predict(ctx context.Context, img image.Image) ([]model.Detection, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to detection server %s: %w", m.serverURL, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("send frame: %w", err)
	}

	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("detection server: %s", reply.Error)
	}

	if len(reply.Names) > 0 {
		m.names = model.Names(reply.Names)
	}

	dets := make([]model.Detection, 0, len(reply.Detections))
	for _, d := range reply.Detections {
		dets = append(dets, model.Detection{
			Box:   d.Box,
			Score: d.Confidence,
			Class: d.Class,
		})
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return dets, nil
}
