package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ecosplit/pkg/api"
)

// ReceiptServiceName is the fully-qualified name of the ReceiptService.
const ReceiptServiceName = "ecosplit.v1.ReceiptService"

const (
	ReceiptServiceCreateReceiptProcedure = "/ecosplit.v1.ReceiptService/CreateReceipt"
	ReceiptServiceScanReceiptProcedure   = "/ecosplit.v1.ReceiptService/ScanReceipt"
	ReceiptServiceListReceiptsProcedure  = "/ecosplit.v1.ReceiptService/ListReceipts"
	ReceiptServiceGetReceiptProcedure    = "/ecosplit.v1.ReceiptService/GetReceipt"
)

// ReceiptServiceHandler is the server side of the ReceiptService.
type ReceiptServiceHandler interface {
	CreateReceipt(context.Context, *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
}

// NewReceiptServiceHandler builds an HTTP handler for every ReceiptService procedure. It returns
// the path to mount the handler on.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	createReceiptHandler := connect.NewUnaryHandler(ReceiptServiceCreateReceiptProcedure, svc.CreateReceipt, opts...)
	scanReceiptHandler := connect.NewUnaryHandler(ReceiptServiceScanReceiptProcedure, svc.ScanReceipt, opts...)
	listReceiptsHandler := connect.NewUnaryHandler(ReceiptServiceListReceiptsProcedure, svc.ListReceipts, opts...)
	getReceiptHandler := connect.NewUnaryHandler(ReceiptServiceGetReceiptProcedure, svc.GetReceipt, opts...)
	return "/" + ReceiptServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ReceiptServiceCreateReceiptProcedure:
			createReceiptHandler.ServeHTTP(w, r)
		case ReceiptServiceScanReceiptProcedure:
			scanReceiptHandler.ServeHTTP(w, r)
		case ReceiptServiceListReceiptsProcedure:
			listReceiptsHandler.ServeHTTP(w, r)
		case ReceiptServiceGetReceiptProcedure:
			getReceiptHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedReceiptServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedReceiptServiceHandler struct{}

func (UnimplementedReceiptServiceHandler) CreateReceipt(context.Context, *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.ReceiptService.CreateReceipt is not implemented"))
}

func (UnimplementedReceiptServiceHandler) ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.ReceiptService.ScanReceipt is not implemented"))
}

func (UnimplementedReceiptServiceHandler) ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.ReceiptService.ListReceipts is not implemented"))
}

func (UnimplementedReceiptServiceHandler) GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("ecosplit.v1.ReceiptService.GetReceipt is not implemented"))
}

// ReceiptServiceClient is a client for the ReceiptService.
type ReceiptServiceClient interface {
	CreateReceipt(context.Context, *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
}

// NewReceiptServiceClient constructs a client for the ReceiptService. baseURL is the server's
// scheme and authority, e.g. http://localhost:8080.
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReceiptServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &receiptServiceClient{
		createReceipt: connect.NewClient[api.CreateReceiptRequest, api.CreateReceiptResponse](httpClient, baseURL+ReceiptServiceCreateReceiptProcedure, opts...),
		scanReceipt:   connect.NewClient[api.ScanReceiptRequest, api.ScanReceiptResponse](httpClient, baseURL+ReceiptServiceScanReceiptProcedure, opts...),
		listReceipts:  connect.NewClient[api.ListReceiptsRequest, api.ListReceiptsResponse](httpClient, baseURL+ReceiptServiceListReceiptsProcedure, opts...),
		getReceipt:    connect.NewClient[api.GetReceiptRequest, api.GetReceiptResponse](httpClient, baseURL+ReceiptServiceGetReceiptProcedure, opts...),
	}
}

type receiptServiceClient struct {
	createReceipt *connect.Client[api.CreateReceiptRequest, api.CreateReceiptResponse]
	scanReceipt   *connect.Client[api.ScanReceiptRequest, api.ScanReceiptResponse]
	listReceipts  *connect.Client[api.ListReceiptsRequest, api.ListReceiptsResponse]
	getReceipt    *connect.Client[api.GetReceiptRequest, api.GetReceiptResponse]
}

func (c *receiptServiceClient) CreateReceipt(ctx context.Context, req *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error) {
	return c.createReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

func (c *receiptServiceClient) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}
