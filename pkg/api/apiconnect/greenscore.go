package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/pkg/api"
)

// GreenScoreServiceName is the fully-qualified name of the GreenScoreService.
const GreenScoreServiceName = "ecosplit.v1.GreenScoreService"

const (
	GreenScoreServiceGetLeaderboardProcedure = "/ecosplit.v1.GreenScoreService/GetLeaderboard"
	GreenScoreServiceGetMyScoreProcedure     = "/ecosplit.v1.GreenScoreService/GetMyScore"
)

// GreenScoreServiceHandler is the server side of the GreenScoreService.
type GreenScoreServiceHandler interface {
	GetLeaderboard(context.Context, *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error)
	GetMyScore(context.Context, *connect.Request[api.GetMyScoreRequest]) (*connect.Response[api.GetMyScoreResponse], error)
}

// NewGreenScoreServiceHandler builds an HTTP handler for every GreenScoreService procedure. It returns
// the path to mount the handler on.
func NewGreenScoreServiceHandler(svc GreenScoreServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	getLeaderboardHandler := connect.NewUnaryHandler(GreenScoreServiceGetLeaderboardProcedure, svc.GetLeaderboard, opts...)
	getMyScoreHandler := connect.NewUnaryHandler(GreenScoreServiceGetMyScoreProcedure, svc.GetMyScore, opts...)
	return "/" + GreenScoreServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GreenScoreServiceGetLeaderboardProcedure:
			getLeaderboardHandler.ServeHTTP(w, r)
		case GreenScoreServiceGetMyScoreProcedure:
			getMyScoreHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGreenScoreServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGreenScoreServiceHandler struct{}

func (UnimplementedGreenScoreServiceHandler) GetLeaderboard(context.Context, *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.GreenScoreService.GetLeaderboard is not implemented"))
}

func (UnimplementedGreenScoreServiceHandler) GetMyScore(context.Context, *connect.Request[api.GetMyScoreRequest]) (*connect.Response[api.GetMyScoreResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.GreenScoreService.GetMyScore is not implemented"))
}

// GreenScoreServiceClient is a client for the GreenScoreService.
type GreenScoreServiceClient interface {
	GetLeaderboard(context.Context, *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error)
	GetMyScore(context.Context, *connect.Request[api.GetMyScoreRequest]) (*connect.Response[api.GetMyScoreResponse], error)
}

// NewGreenScoreServiceClient constructs a client for the GreenScoreService. baseURL is the server's
// scheme and authority, e.g. http://localhost:8080.
func NewGreenScoreServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GreenScoreServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &greenScoreServiceClient{
		getLeaderboard: connect.NewClient[api.GetLeaderboardRequest, api.GetLeaderboardResponse](httpClient, baseURL+GreenScoreServiceGetLeaderboardProcedure, opts...),
		getMyScore:     connect.NewClient[api.GetMyScoreRequest, api.GetMyScoreResponse](httpClient, baseURL+GreenScoreServiceGetMyScoreProcedure, opts...),
	}
}

type greenScoreServiceClient struct {
	getLeaderboard *connect.Client[api.GetLeaderboardRequest, api.GetLeaderboardResponse]
	getMyScore     *connect.Client[api.GetMyScoreRequest, api.GetMyScoreResponse]
}

func (c *greenScoreServiceClient) GetLeaderboard(ctx context.Context, req *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	return c.getLeaderboard.CallUnary(ctx, req)
}

func (c *greenScoreServiceClient) GetMyScore(ctx context.Context, req *connect.Request[api.GetMyScoreRequest]) (*connect.Response[api.GetMyScoreResponse], error) {
	return c.getMyScore.CallUnary(ctx, req)
}
