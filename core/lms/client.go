package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/somahub/portal/core"
)

const (
	restPath  = "/webservice/rest/server.php"
	tokenPath = "/login/token.php"

	// errorcode Moodle answers with when the ws token itself is bad
	errCodeInvalidToken = "invalidtoken"
)

var (
	// ErrAuthFailed is returned by Login when the site accepts the request
	// but yields no token (bad credentials, disabled service, ...).
	ErrAuthFailed = errors.New("authentication failed")
)

type (
	// Caller is the gateway contract; handlers and services depend on it so
	// tests can substitute a canned implementation.
	Caller interface {
		Call(ctx context.Context, wsfunction string, params Params) (json.RawMessage, error)
	}

	// Client wraps a Moodle/IOMAD REST web-service endpoint. Every Call
	// injects the static ws token and the JSON format parameter. There is no
	// retry, backoff or circuit breaking; callers own their fallback policy.
	Client struct {
		http    *http.Client
		baseURL string
		token   string
		service string
		logger  core.Logger
	}

	// Token is the payload of a successful login/token.php exchange.
	Token struct {
		Token        string `json:"token"`
		PrivateToken string `json:"privatetoken,omitempty"`
	}

	// SiteInfo is the trimmed payload of core_webservice_get_site_info.
	SiteInfo struct {
		SiteName  string `json:"sitename"`
		Username  string `json:"username"`
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		UserID    int    `json:"userid"`
		Release   string `json:"release"`
	}

	// Exception is a Moodle web-service error body. The endpoint reports
	// these with HTTP 200, so the client must sniff them out of the payload.
	Exception struct {
		Exception string `json:"exception"`
		ErrorCode string `json:"errorcode"`
		Message   string `json:"message"`
	}

	tokenError struct {
		Error     string `json:"error"`
		ErrorCode string `json:"errorcode"`
	}
)

var _ Caller = (*Client)(nil)

func (e *Exception) Error() string {
	return fmt.Sprintf("lms: %s (%s): %s", e.Exception, e.ErrorCode, e.Message)
}

// IsException reports whether err (or its cause) is an upstream logical error.
func IsException(err error) bool {
	_, ok := errors.Cause(err).(*Exception)
	return ok
}

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: conf.LMS.Timeout},
		baseURL: strings.TrimRight(conf.LMS.BaseURL, "/"),
		token:   conf.LMS.WSToken,
		service: conf.LMS.Service,
		logger:  logger,
	}
}

// Call invokes a web-service function and returns the raw JSON payload.
// Upstream exception bodies are returned as *Exception errors, except a
// rejected ws token which comes back as a core shutdown error.
func (c *Client) Call(ctx context.Context, wsfunction string, params Params) (json.RawMessage, error) {
	form := make(url.Values)
	form.Set("wstoken", c.token)
	form.Set("wsfunction", wsfunction)
	form.Set("moodlewsrestformat", "json")
	params.encode(form, "")

	body, err := c.post(ctx, c.baseURL+restPath, form, wsfunction)
	if err != nil {
		return nil, err
	}
	if exc := sniffException(body); exc != nil {
		if exc.ErrorCode == errCodeInvalidToken {
			// the static ws token was rejected; every call will fail until it
			// is rotated, so ask the server to go down cleanly
			c.logger.Error(fmt.Sprintf("lms.Call(%s): ws token rejected", wsfunction), exc)
			return nil, core.NewShutdownError("lms: ws token rejected: " + exc.Message)
		}
		c.logger.Warn(fmt.Sprintf("lms.Call(%s): upstream exception", wsfunction), exc)
		return nil, exc
	}
	return body, nil
}

// Login exchanges credentials for a web-service token. This is the only
// gateway operation whose failure is meant to surface to the caller.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	form := make(url.Values)
	form.Set("username", username)
	form.Set("password", password)
	form.Set("service", c.service)

	body, err := c.post(ctx, c.baseURL+tokenPath, form, "login")
	if err != nil {
		return Token{}, err
	}

	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return Token{}, errors.Wrap(err, "decoding token response")
	}
	if tok.Token == "" {
		var terr tokenError
		_ = json.Unmarshal(body, &terr)
		if terr.Error != "" {
			c.logger.Debug("lms.Login: " + terr.Error)
		}
		return Token{}, ErrAuthFailed
	}
	return tok, nil
}

// Site fetches basic site information; used by the ops CLI as a liveness probe.
func (c *Client) Site(ctx context.Context) (SiteInfo, error) {
	body, err := c.Call(ctx, "core_webservice_get_site_info", nil)
	if err != nil {
		return SiteInfo{}, err
	}
	var info SiteInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return SiteInfo{}, errors.Wrap(err, "decoding site info")
	}
	return info, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, op string) ([]byte, error) {
	cid := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "building request [%s]", cid)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("lms: %s transport failure [%s]", op, cid), err)
		return nil, errors.Wrapf(err, "calling %s [%s]", op, cid)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response [%s]", op, cid)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn(fmt.Sprintf("lms: %s returned %d [%s]", op, resp.StatusCode, cid))
		return nil, errors.Errorf("lms: %s returned status %d [%s]", op, resp.StatusCode, cid)
	}
	return body, nil
}

// sniffException detects a Moodle exception object in an otherwise 200-OK body.
func sniffException(body []byte) *Exception {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var exc Exception
	if err := json.Unmarshal(body, &exc); err != nil {
		return nil
	}
	if exc.Exception == "" && exc.ErrorCode == "" {
		return nil
	}
	return &exc
}

type Params map[string]interface{}

// encode flattens params into Moodle's bracketed form encoding:
// scalars as key=val, slices as key[i]=val and maps as key[sub]=val,
// recursively (e.g. criteria[0][key]=email).
func (p Params) encode(form url.Values, prefix string) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "[" + k + "]"
		}
		encodeValue(form, name, p[k])
	}
}

func encodeValue(form url.Values, name string, val interface{}) {
	switch v := val.(type) {
	case nil:
		// skip
	case Params:
		v.encode(form, name)
	case map[string]interface{}:
		Params(v).encode(form, name)
	case []interface{}:
		for i, item := range v {
			encodeValue(form, fmt.Sprintf("%s[%d]", name, i), item)
		}
	case []string:
		for i, item := range v {
			form.Set(fmt.Sprintf("%s[%d]", name, i), item)
		}
	case []int:
		for i, item := range v {
			form.Set(fmt.Sprintf("%s[%d]", name, i), fmt.Sprintf("%d", item))
		}
	case bool:
		if v {
			form.Set(name, "1")
		} else {
			form.Set(name, "0")
		}
	default:
		form.Set(name, fmt.Sprintf("%v", v))
	}
}
