package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// KakaoService handles the Kakao authorization-code flow and the one-shot
// "talk memo" message send. The access token obtained by the callback is
// held on the service and cleared whenever a new login starts.
type KakaoService struct {
	client      *resty.Client
	restAPIKey  string
	redirectURI string
	authBaseURL string
	apiBaseURL  string

	mu    sync.Mutex
	token string
}

// KakaoConfig holds configuration for the Kakao client.
type KakaoConfig struct {
	RESTAPIKey  string
	RedirectURI string
	AuthBaseURL string
	APIBaseURL  string
}

// NewKakaoService creates a new Kakao client.
// Parameters:
//   - cfg: Kakao configuration including the REST API key and redirect URI.
// Returns:
//   - *KakaoService: initialized client wrapper.
func NewKakaoService(cfg *KakaoConfig) *KakaoService {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	authBaseURL := cfg.AuthBaseURL
	if authBaseURL == "" {
		authBaseURL = "https://kauth.kakao.com"
	}
	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = "https://kapi.kakao.com"
	}

	return &KakaoService{
		client:      client,
		restAPIKey:  cfg.RESTAPIKey,
		redirectURI: cfg.RedirectURI,
		authBaseURL: authBaseURL,
		apiBaseURL:  apiBaseURL,
	}
}

// AuthorizeURL builds the Kakao OAuth authorize redirect target with the
// talk_message scope and a forced consent prompt.
func (s *KakaoService) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", s.restAPIKey)
	q.Set("redirect_uri", s.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "talk_message")
	q.Set("prompt", "consent")
	return s.authBaseURL + "/oauth/authorize?" + q.Encode()
}

// ClearToken drops any previously stored access token.
func (s *KakaoService) ClearToken() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Token returns the currently stored access token, or "".
func (s *KakaoService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

type kakaoTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ExchangeCode swaps an authorization code for an access token and stores
// it on the service.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - code: authorization code from the OAuth callback.
// Returns:
//   - string: access token.
//   - error: non-nil if the token exchange fails.
func (s *KakaoService) ExchangeCode(ctx context.Context, code string) (string, error) {
	var resp kakaoTokenResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":   "authorization_code",
			"client_id":    s.restAPIKey,
			"redirect_uri": s.redirectURI,
			"code":         code,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post(s.authBaseURL + "/oauth/token")

	if err != nil {
		return "", fmt.Errorf("failed to call Kakao token endpoint: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != "" {
			return "", fmt.Errorf("Kakao token exchange failed: HTTP %d: %s (%s)",
				httpResp.StatusCode(), resp.Error, resp.ErrorDescription)
		}
		return "", fmt.Errorf("Kakao token exchange failed: HTTP %d", httpResp.StatusCode())
	}

	if resp.AccessToken == "" {
		return "", fmt.Errorf("Kakao token exchange returned no access token")
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.mu.Unlock()

	return resp.AccessToken, nil
}

// SendMemo delivers a text message to the authorized user's own Kakao Talk
// using the default memo template.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - token: access token from ExchangeCode.
//   - text: message body.
// Returns:
//   - error: non-nil if the send fails.
func (s *KakaoService) SendMemo(ctx context.Context, token, text string) error {
	template := map[string]interface{}{
		"object_type": "text",
		"text":        text,
		"link": map[string]string{
			"web_url":        "https://example.com",
			"mobile_web_url": "https://example.com",
		},
	}
	templateJSON, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to encode memo template: %w", err)
	}

	httpResp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetFormData(map[string]string{
			"template_object": string(templateJSON),
		}).
		Post(s.apiBaseURL + "/v2/api/talk/memo/default/send")

	if err != nil {
		return fmt.Errorf("failed to call Kakao memo endpoint: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return fmt.Errorf("Kakao memo send failed: HTTP %d: %s",
			httpResp.StatusCode(), string(httpResp.Body()))
	}

	return nil
}
