package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://chat.stream-io-api.com"

// Client is a server-side client for the managed chat service's REST API.
// It covers the user directory (query/upsert) and channel (create/send)
// primitives and nothing else.
type Client struct {
	baseURL string
	apiKey  string
	token   string // HS256 server token signed with the API secret
	client  *http.Client
}

func NewClient() *Client {
	apiKey := strings.TrimSpace(os.Getenv("STREAM_API_KEY"))
	secret := strings.TrimSpace(os.Getenv("STREAM_API_SECRET"))
	if apiKey == "" || secret == "" {
		panic("STREAM_API_KEY / STREAM_API_SECRET not set")
	}

	baseURL := os.Getenv("STREAM_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	token, err := serverToken(secret)
	if err != nil {
		panic("stream: cannot sign server token: " + err.Error())
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func serverToken(secret string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"server": true,
	})
	return t.SignedString([]byte(secret))
}

// QueryUser reports whether a user with exactly this id exists in the
// directory.
func (c *Client) QueryUser(ctx context.Context, userID string) (bool, error) {
	payload, err := json.Marshal(map[string]any{
		"filter_conditions": map[string]any{
			"id": map[string]any{"$eq": userID},
		},
		"limit": 1,
	})
	if err != nil {
		return false, err
	}

	var out struct {
		Users []json.RawMessage `json:"users"`
	}
	q := url.Values{"payload": {string(payload)}}
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return false, errors.Wrap(err, "stream: query users")
	}

	return len(out.Users) > 0, nil
}

func (c *Client) UpsertUser(ctx context.Context, userID, name, email, role string) error {
	body := map[string]any{
		"users": map[string]any{
			userID: map[string]any{
				"id":    userID,
				"name":  name,
				"email": email,
				"role":  role,
			},
		},
	}

	err := c.do(ctx, http.MethodPost, "/users", nil, body, nil)
	return errors.Wrap(err, "stream: upsert user")
}

// EnsureChannel creates the channel if it does not exist yet; the query
// endpoint has create-or-get semantics, so repeated calls are idempotent.
func (c *Client) EnsureChannel(ctx context.Context, channelType, channelID, name, createdByID string) error {
	body := map[string]any{
		"data": map[string]any{
			"name":          name,
			"created_by_id": createdByID,
		},
	}

	path := "/channels/" + channelType + "/" + channelID + "/query"
	err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	return errors.Wrap(err, "stream: ensure channel")
}

func (c *Client) SendMessage(ctx context.Context, channelType, channelID, senderID, text string) error {
	body := map[string]any{
		"message": map[string]any{
			"text":    text,
			"user_id": senderID,
		},
	}

	path := "/channels/" + channelType + "/" + channelID + "/message"
	err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	return errors.Wrap(err, "stream: send message")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		c.baseURL+path+"?"+query.Encode(),
		reader,
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Stream-Auth-Type", "jwt")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.New(
			"stream api error: " +
				resp.Status +
				" body=" + string(respBody),
		)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}
