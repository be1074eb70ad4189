package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL addresses the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	acceptHeaderNameConstant           = "Accept"
	acceptHeaderValueConstant          = "application/vnd.github+json"
	apiVersionHeaderNameConstant       = "X-GitHub-Api-Version"
	apiVersionHeaderValueConstant      = "2022-11-28"
	contentTypeHeaderNameConstant      = "Content-Type"
	contentTypeHeaderValueConstant     = "application/json"
	linkHeaderNameConstant             = "Link"
	pathSeparatorConstant              = "/"
	baseURLParseErrorTemplateConstant  = "invalid base url %q: %w"
	tokenResolutionErrorTemplate       = "unable to obtain credential: %w"
	requestConstructionErrorTemplate   = "unable to construct request: %w"
	responseReadErrorTemplateConstant  = "unable to read response: %w"
	requestURLParseErrorTemplate       = "invalid request url %q: %w"
	requestCompletedMessageConstant    = "GitHub request completed"
	requestRejectedMessageConstant     = "GitHub request rejected"
	logFieldOperationConstant          = "operation"
	logFieldMethodConstant             = "method"
	logFieldURLConstant                = "url"
	logFieldStatusCodeConstant         = "status_code"
	logFieldExpectedStatusCodeConstant = "expected_status_code"
)

// OperationName labels a remote call for errors and logs.
type OperationName string

// HTTPClient is the minimal interface required from http.Client.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Configuration describes the collaborators of a Client.
type Configuration struct {
	BaseURL     string
	TokenSource oauth2.TokenSource
	HTTPClient  HTTPClient
	Logger      *zap.Logger
}

// Request describes a single remote call.
type Request struct {
	Operation      OperationName
	Method         string
	URL            string
	Query          url.Values
	Payload        any
	ExpectedStatus int
	// RawContent marks a download from a content host rather than an API call.
	// GitHub media headers are omitted and the credential is only attached when
	// the URL shares the API host.
	RawContent bool
}

// Response captures the observable parts of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
	NextURL    string
}

// Client issues authenticated requests against the GitHub REST API.
type Client struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  HTTPClient
	logger      *zap.Logger
}

// NewClient constructs a Client. A nil HTTP client falls back to http.DefaultClient.
func NewClient(configuration Configuration) (*Client, error) {
	if configuration.TokenSource == nil {
		return nil, ErrTokenSourceNotConfigured
	}

	baseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), pathSeparatorConstant)
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}
	if _, parseError := url.ParseRequestURI(baseURL); parseError != nil {
		return nil, fmt.Errorf(baseURLParseErrorTemplateConstant, baseURL, parseError)
	}

	httpClient := configuration.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     baseURL,
		tokenSource: configuration.TokenSource,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// Endpoint joins path-escaped segments onto the base URL. Empty segments are dropped.
func (client *Client) Endpoint(segments ...string) string {
	var builder strings.Builder
	builder.WriteString(client.baseURL)
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		builder.WriteString(pathSeparatorConstant)
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

// Do executes the request and returns RemoteRequestError when the status differs from ExpectedStatus.
func (client *Client) Do(executionContext context.Context, request Request) (Response, error) {
	expectedStatus := request.ExpectedStatus
	if expectedStatus == 0 {
		expectedStatus = http.StatusOK
	}

	requestURL, urlError := mergeQuery(request.URL, request.Query)
	if urlError != nil {
		return Response{}, OperationError{Operation: request.Operation, Cause: urlError}
	}

	var requestBody io.Reader
	if request.Payload != nil {
		payloadBytes, encodingError := json.Marshal(request.Payload)
		if encodingError != nil {
			return Response{}, PayloadEncodingError{Operation: request.Operation, Cause: encodingError}
		}
		requestBody = bytes.NewReader(payloadBytes)
	}

	httpRequest, constructionError := http.NewRequestWithContext(executionContext, request.Method, requestURL, requestBody)
	if constructionError != nil {
		return Response{}, OperationError{Operation: request.Operation, Cause: fmt.Errorf(requestConstructionErrorTemplate, constructionError)}
	}

	token, tokenError := client.tokenSource.Token()
	if tokenError != nil {
		return Response{}, OperationError{Operation: request.Operation, Cause: fmt.Errorf(tokenResolutionErrorTemplate, tokenError)}
	}
	if !request.RawContent || client.sharesAPIHost(httpRequest.URL) {
		token.SetAuthHeader(httpRequest)
	}
	if !request.RawContent {
		httpRequest.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
		httpRequest.Header.Set(apiVersionHeaderNameConstant, apiVersionHeaderValueConstant)
	}
	if requestBody != nil {
		httpRequest.Header.Set(contentTypeHeaderNameConstant, contentTypeHeaderValueConstant)
	}

	httpResponse, transportError := client.httpClient.Do(httpRequest)
	if transportError != nil {
		return Response{}, OperationError{Operation: request.Operation, Cause: transportError}
	}
	defer httpResponse.Body.Close()

	responseBody, readError := io.ReadAll(httpResponse.Body)
	if readError != nil {
		return Response{}, OperationError{Operation: request.Operation, Cause: fmt.Errorf(responseReadErrorTemplateConstant, readError)}
	}

	if httpResponse.StatusCode != expectedStatus {
		client.logger.Debug(
			requestRejectedMessageConstant,
			zap.String(logFieldOperationConstant, string(request.Operation)),
			zap.String(logFieldMethodConstant, request.Method),
			zap.String(logFieldURLConstant, requestURL),
			zap.Int(logFieldStatusCodeConstant, httpResponse.StatusCode),
			zap.Int(logFieldExpectedStatusCodeConstant, expectedStatus),
		)
		return Response{}, RemoteRequestError{
			Operation:  request.Operation,
			Method:     request.Method,
			URL:        requestURL,
			StatusCode: httpResponse.StatusCode,
			Payload:    responseBody,
		}
	}

	client.logger.Debug(
		requestCompletedMessageConstant,
		zap.String(logFieldOperationConstant, string(request.Operation)),
		zap.String(logFieldMethodConstant, request.Method),
		zap.String(logFieldURLConstant, requestURL),
		zap.Int(logFieldStatusCodeConstant, httpResponse.StatusCode),
	)

	return Response{
		StatusCode: httpResponse.StatusCode,
		Body:       responseBody,
		NextURL:    ParseNextLink(httpResponse.Header.Get(linkHeaderNameConstant)),
	}, nil
}

// DecodeJSON unmarshals the response body into target.
func (response Response) DecodeJSON(operation OperationName, target any) error {
	if decodingError := json.Unmarshal(response.Body, target); decodingError != nil {
		return ResponseDecodingError{Operation: operation, Cause: decodingError}
	}
	return nil
}

func mergeQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}

	parsedURL, parseError := url.Parse(rawURL)
	if parseError != nil {
		return "", fmt.Errorf(requestURLParseErrorTemplate, rawURL, parseError)
	}

	mergedQuery := parsedURL.Query()
	for key, values := range query {
		mergedQuery.Del(key)
		for _, value := range values {
			mergedQuery.Add(key, value)
		}
	}
	parsedURL.RawQuery = mergedQuery.Encode()

	return parsedURL.String(), nil
}

func (client *Client) sharesAPIHost(requestURL *url.URL) bool {
	baseURL, parseError := url.Parse(client.baseURL)
	if parseError != nil {
		return false
	}
	return strings.EqualFold(baseURL.Host, requestURL.Host)
}
