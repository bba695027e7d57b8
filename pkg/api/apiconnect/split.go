package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/pkg/api"
)

// SplitServiceName is the fully-qualified name of the SplitService.
const SplitServiceName = "ecosplit.v1.SplitService"

const (
	SplitServiceCalculateSplitProcedure = "/ecosplit.v1.SplitService/CalculateSplit"
	SplitServiceSubmitSplitProcedure    = "/ecosplit.v1.SplitService/SubmitSplit"
	SplitServiceListSplitsProcedure     = "/ecosplit.v1.SplitService/ListSplits"
)

// SplitServiceHandler is the server side of the SplitService.
type SplitServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	SubmitSplit(context.Context, *connect.Request[api.SubmitSplitRequest]) (*connect.Response[api.SubmitSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler for every SplitService procedure. It returns
// the path to mount the handler on.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	calculateSplitHandler := connect.NewUnaryHandler(SplitServiceCalculateSplitProcedure, svc.CalculateSplit, opts...)
	submitSplitHandler := connect.NewUnaryHandler(SplitServiceSubmitSplitProcedure, svc.SubmitSplit, opts...)
	listSplitsHandler := connect.NewUnaryHandler(SplitServiceListSplitsProcedure, svc.ListSplits, opts...)
	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceCalculateSplitProcedure:
			calculateSplitHandler.ServeHTTP(w, r)
		case SplitServiceSubmitSplitProcedure:
			submitSplitHandler.ServeHTTP(w, r)
		case SplitServiceListSplitsProcedure:
			listSplitsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSplitServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSplitServiceHandler struct{}

func (UnimplementedSplitServiceHandler) CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.SplitService.CalculateSplit is not implemented"))
}

func (UnimplementedSplitServiceHandler) SubmitSplit(context.Context, *connect.Request[api.SubmitSplitRequest]) (*connect.Response[api.SubmitSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.SplitService.SubmitSplit is not implemented"))
}

func (UnimplementedSplitServiceHandler) ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.SplitService.ListSplits is not implemented"))
}

// SplitServiceClient is a client for the SplitService.
type SplitServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	SubmitSplit(context.Context, *connect.Request[api.SubmitSplitRequest]) (*connect.Response[api.SubmitSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
}

// NewSplitServiceClient constructs a client for the SplitService. baseURL is the server's
// scheme and authority, e.g. http://localhost:8080.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &splitServiceClient{
		calculateSplit: connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+SplitServiceCalculateSplitProcedure, opts...),
		submitSplit:    connect.NewClient[api.SubmitSplitRequest, api.SubmitSplitResponse](httpClient, baseURL+SplitServiceSubmitSplitProcedure, opts...),
		listSplits:     connect.NewClient[api.ListSplitsRequest, api.ListSplitsResponse](httpClient, baseURL+SplitServiceListSplitsProcedure, opts...),
	}
}

type splitServiceClient struct {
	calculateSplit *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	submitSplit    *connect.Client[api.SubmitSplitRequest, api.SubmitSplitResponse]
	listSplits     *connect.Client[api.ListSplitsRequest, api.ListSplitsResponse]
}

func (c *splitServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) SubmitSplit(ctx context.Context, req *connect.Request[api.SubmitSplitRequest]) (*connect.Response[api.SubmitSplitResponse], error) {
	return c.submitSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	return c.listSplits.CallUnary(ctx, req)
}
