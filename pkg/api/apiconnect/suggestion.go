package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/pkg/api"
)

// SuggestionServiceName is the fully-qualified name of the SuggestionService.
const SuggestionServiceName = "ecosplit.v1.SuggestionService"

const (
	SuggestionServiceGetSuggestionProcedure = "/ecosplit.v1.SuggestionService/GetSuggestion"
)

// SuggestionServiceHandler is the server side of the SuggestionService.
type SuggestionServiceHandler interface {
	GetSuggestion(context.Context, *connect.Request[api.GetSuggestionRequest]) (*connect.Response[api.GetSuggestionResponse], error)
}

// NewSuggestionServiceHandler builds an HTTP handler for every SuggestionService procedure. It returns
// the path to mount the handler on.
func NewSuggestionServiceHandler(svc SuggestionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	getSuggestionHandler := connect.NewUnaryHandler(SuggestionServiceGetSuggestionProcedure, svc.GetSuggestion, opts...)
	return "/" + SuggestionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SuggestionServiceGetSuggestionProcedure:
			getSuggestionHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSuggestionServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSuggestionServiceHandler struct{}

func (UnimplementedSuggestionServiceHandler) GetSuggestion(context.Context, *connect.Request[api.GetSuggestionRequest]) (*connect.Response[api.GetSuggestionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.SuggestionService.GetSuggestion is not implemented"))
}

// SuggestionServiceClient is a client for the SuggestionService.
type SuggestionServiceClient interface {
	GetSuggestion(context.Context, *connect.Request[api.GetSuggestionRequest]) (*connect.Response[api.GetSuggestionResponse], error)
}

// NewSuggestionServiceClient constructs a client for the SuggestionService. baseURL is the server's
// scheme and authority, e.g. http://localhost:8080.
func NewSuggestionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SuggestionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &suggestionServiceClient{
		getSuggestion: connect.NewClient[api.GetSuggestionRequest, api.GetSuggestionResponse](httpClient, baseURL+SuggestionServiceGetSuggestionProcedure, opts...),
	}
}

type suggestionServiceClient struct {
	getSuggestion *connect.Client[api.GetSuggestionRequest, api.GetSuggestionResponse]
}

func (c *suggestionServiceClient) GetSuggestion(ctx context.Context, req *connect.Request[api.GetSuggestionRequest]) (*connect.Response[api.GetSuggestionResponse], error) {
	return c.getSuggestion.CallUnary(ctx, req)
}
