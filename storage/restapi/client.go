package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/mutation"
	"github.com/trezcool/darasa/core/school"
)

const requestIDHeader = "X-Request-ID"

// Client talks JSON to the school REST API. It never retries.
type Client struct {
	baseURL string
	token   string
	http    *rest.Client
	logger  core.Logger
}

var (
	_ school.Fetcher     = (*Client)(nil)
	_ mutation.Transport = (*Client)(nil)
)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.APIBaseURL, "/"),
		token:   conf.APIToken,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.RequestTimeout}},
		logger:  logger,
	}
}

// WithToken returns a copy of the client authenticating with token.
func (c *Client) WithToken(token string) *Client {
	cc := *c
	cc.token = token
	return &cc
}

func (c *Client) Token() string { return c.token }

// Do sends one request. Any non-2xx status is a *core.HTTPError; an unreadable body is a
// *core.HTTPError with Status 0; a request that never completed is a *core.NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	req := rest.Request{
		Method:  rest.Method(method),
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"Accept":        "application/json",
			requestIDHeader: uuid.New().String(),
		},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	res, err := c.send(ctx, req)
	if err != nil {
		c.logger.Debug(fmt.Sprintf("%s %s [%s]: %v", method, path, req.Headers[requestIDHeader], err))
		return &core.NetworkError{Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &core.HTTPError{Status: res.StatusCode, Message: errorMessage(res)}
	}

	if out == nil {
		return nil
	}
	data := bytes.TrimSpace([]byte(res.Body))
	if len(data) == 0 {
		return core.NewParseError()
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Debug(fmt.Sprintf("%s %s [%s]: decoding body: %v", method, path, req.Headers[requestIDHeader], err))
		return core.NewParseError()
	}
	return nil
}

// send is rest.Client.Send bound to ctx.
func (c *Client) send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	hreq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, err
	}
	hres, err := c.http.MakeRequest(hreq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(hres)
}

// errorMessage extracts the display message of an error response:
// `message`, then `error`, then a map of field errors, then the status text.
func errorMessage(res *rest.Response) string {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(res.Body), &body); err == nil {
		for _, key := range []string{"message", "error"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return msg
			}
		}
		if flds := fieldMessages(body); flds != "" {
			return flds
		}
	}
	if txt := http.StatusText(res.StatusCode); txt != "" {
		return txt
	}
	return core.GenericErrorMessage
}

func fieldMessages(body map[string]interface{}) string {
	msgs := make([]string, 0, len(body))
	for fld, v := range body {
		if msg, ok := v.(string); ok {
			msgs = append(msgs, fld+": "+msg)
		}
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", core.NewParseError()
	}
	return res.Token, nil
}
