package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blackjack/internal/game"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrDisabled    = errors.New("advisor is not configured")
	ErrUnavailable = errors.New("advisor is unavailable")
)

const (
	UnavailableText = "AI unavailable — please try again later."
	NoSuggestion    = "AI could not provide a suggestion."
)

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// Client asks a Gemini model whether to hit or stand.
type Client struct {
	cfg  Config
	http *fasthttp.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 90 * time.Second,
			MaxConnsPerHost:     16,
		},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.cfg.APIKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func Prompt(playerTotal int, dealerUp game.Card) string {
	return fmt.Sprintf(`You are an expert blackjack assistant.
Player total: %d
Dealer's visible card: %s
Suggest whether to "hit" or "stand" and explain briefly why.
Keep it short, under 15 words.
Example responses: "Dealer's upcard is weak; stand on 15."
Use the words "hit" or "stand" in your suggestion to make it clear.`, playerTotal, dealerUp)
}

func (c *Client) Suggest(ctx context.Context, playerTotal int, dealerUp game.Card) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt(playerTotal, dealerUp)}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode advisor request")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	req.SetRequestURI(fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.SetBody(body)

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(ErrUnavailable, err.Error())
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return "", errors.Wrapf(ErrUnavailable, "request failed: %v", err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return "", errors.Wrapf(ErrUnavailable, "status %d: %s", status, truncate(string(resp.Body()), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Wrapf(ErrUnavailable, "decode response: %v", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return NoSuggestion, nil
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return NoSuggestion, nil
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
