// Package enhance sends a frame's current content to a completions API
// and folds the returned script and style back into the frame. One
// enhancement may run per frame at a time; a second request for the
// same frame fails fast instead of queueing.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/config"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/sandbox"
)

var (
	ErrInFlight      = errors.New("enhancement already running for frame")
	ErrNotAFrame     = errors.New("element is not a frame")
	ErrEmptyResponse = errors.New("completion contained no usable content")
)

const systemPrompt = `You improve small HTML frames. Given the frame's markup,
return one <script> block wiring up its interactive behavior and one
<style> block refining its appearance. Keep element ids and classes
unchanged. Return only the two blocks.`

// Result is what an enhancement produced for a frame.
type Result struct {
	FrameID string `json:"frameId"`
	Script  string `json:"script"`
	Style   string `json:"style"`
}

type Service struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(cfg config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		endpoint: cfg.EnhanceEndpoint,
		model:    cfg.EnhanceModel,
		apiKey:   cfg.EnhanceAPIKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Enhance runs one enhancement round trip for a frame and returns the
// extracted script and style. The caller applies the result to the
// document; this keeps the service free of document locking concerns.
func (s *Service) Enhance(ctx context.Context, doc *document.CanvasDocument, frameID string) (Result, error) {
	frame, ok := doc.Elements[frameID]
	if !ok || frame.Kind != document.KindFrame {
		return Result{}, fmt.Errorf("%w: %s", ErrNotAFrame, frameID)
	}

	if !s.tryBegin(frameID) {
		return Result{}, fmt.Errorf("%w: %s", ErrInFlight, frameID)
	}
	defer s.end(frameID)

	markup, err := sandbox.BuildFrameDocument(doc, frameID)
	if err != nil {
		return Result{}, err
	}
	sanitized, err := sandbox.SanitizeContent(markup)
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	content, err := s.complete(ctx, sanitized)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("enhancement completed",
		slog.String("frame_id", frameID),
		slog.Duration("took", time.Since(started)))

	script := ExtractBlock(content, "script")
	style := ExtractBlock(content, "style")
	if script == "" && style == "" {
		return Result{}, ErrEmptyResponse
	}
	return Result{FrameID: frameID, Script: script, Style: style}, nil
}

// InFlight reports whether an enhancement is currently running for the
// frame.
func (s *Service) InFlight(frameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[frameID]
	return ok
}

func (s *Service) tryBegin(frameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[frameID]; ok {
		return false
	}
	s.inFlight[frameID] = struct{}{}
	return true
}

func (s *Service) end(frameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, frameID)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, frameMarkup string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: frameMarkup},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}
