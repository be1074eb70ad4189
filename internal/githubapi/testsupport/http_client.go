package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/temirov/gitcreator/internal/githubapi"
)

const (
	// TestTokenConstant is the credential used by StaticTokenSource.
	TestTokenConstant = "test-token"
	// BaseURLConstant is the API base used by NewClient.
	BaseURLConstant = "https://api.example.test"

	routeKeyTemplateConstant      = "%s %s"
	unexpectedRequestTemplate     = "unexpected request %s"
	linkHeaderNameConstant        = "Link"
	nextLinkHeaderTemplate        = "<%s>; rel=\"next\""
	contentTypeHeaderNameConstant = "Content-Type"
	jsonContentTypeConstant       = "application/json"
)

// StaticTokenSource returns an oauth2.TokenSource yielding TestTokenConstant.
func StaticTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: TestTokenConstant})
}

// RecordedRequest captures an observed request with its fully read body.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the recorded JSON body into a generic map.
func (request RecordedRequest) DecodeBody() (map[string]any, error) {
	decoded := map[string]any{}
	if len(request.Body) == 0 {
		return decoded, nil
	}
	if decodingError := json.Unmarshal(request.Body, &decoded); decodingError != nil {
		return nil, decodingError
	}
	return decoded, nil
}

// StubResponse configures a canned response.
type StubResponse struct {
	StatusCode int
	Body       string
	NextURL    string
	Error      error
}

// RecordingHTTPClient answers requests from canned responses keyed by method and URL and records every call.
type RecordingHTTPClient struct {
	mutex     sync.Mutex
	responses map[string][]StubResponse
	Requests  []RecordedRequest
}

// NewRecordingHTTPClient constructs an empty RecordingHTTPClient.
func NewRecordingHTTPClient() *RecordingHTTPClient {
	return &RecordingHTTPClient{responses: map[string][]StubResponse{}}
}

// Respond queues a response for method and URL. Queued responses are consumed in order;
// the last one is reused once the queue is drained.
func (client *RecordingHTTPClient) Respond(method string, requestURL string, response StubResponse) *RecordingHTTPClient {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	routeKey := fmt.Sprintf(routeKeyTemplateConstant, method, requestURL)
	client.responses[routeKey] = append(client.responses[routeKey], response)
	return client
}

// Do records the request and returns the queued response.
func (client *RecordingHTTPClient) Do(request *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if request.Body != nil {
		readBytes, readError := io.ReadAll(request.Body)
		if readError != nil {
			return nil, readError
		}
		bodyBytes = readBytes
	}

	client.mutex.Lock()
	defer client.mutex.Unlock()

	client.Requests = append(client.Requests, RecordedRequest{
		Method: request.Method,
		URL:    request.URL.String(),
		Header: request.Header.Clone(),
		Body:   bodyBytes,
	})

	routeKey := fmt.Sprintf(routeKeyTemplateConstant, request.Method, request.URL.String())
	queuedResponses := client.responses[routeKey]
	if len(queuedResponses) == 0 {
		return nil, fmt.Errorf(unexpectedRequestTemplate, routeKey)
	}

	response := queuedResponses[0]
	if len(queuedResponses) > 1 {
		client.responses[routeKey] = queuedResponses[1:]
	}

	if response.Error != nil {
		return nil, response.Error
	}

	header := http.Header{}
	header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
	if len(response.NextURL) > 0 {
		header.Set(linkHeaderNameConstant, fmt.Sprintf(nextLinkHeaderTemplate, response.NextURL))
	}

	return &http.Response{
		StatusCode: response.StatusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewBufferString(response.Body)),
		Request:    request,
	}, nil
}

// RequestsMatching returns the recorded requests with the given method.
func (client *RecordingHTTPClient) RequestsMatching(method string) []RecordedRequest {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	matching := make([]RecordedRequest, 0, len(client.Requests))
	for _, request := range client.Requests {
		if request.Method == method {
			matching = append(matching, request)
		}
	}
	return matching
}

// NewClient constructs a githubapi.Client addressing BaseURLConstant through httpClient.
func NewClient(testInstance *testing.T, httpClient githubapi.HTTPClient) *githubapi.Client {
	testInstance.Helper()
	client, creationError := githubapi.NewClient(githubapi.Configuration{
		BaseURL:     BaseURLConstant,
		TokenSource: StaticTokenSource(),
		HTTPClient:  httpClient,
	})
	require.NoError(testInstance, creationError)
	return client
}
