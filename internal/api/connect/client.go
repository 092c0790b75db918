package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DurationClient is a client for the DurationService.
type DurationClient struct {
	aggregate   *connect.Client[wrapperspb.StringValue, structpb.Struct]
	getState    *connect.Client[emptypb.Empty, structpb.Struct]
	watchToasts *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewDurationClient creates a client for the service at baseURL.
func NewDurationClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DurationClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &DurationClient{
		aggregate:   connect.NewClient[wrapperspb.StringValue, structpb.Struct](httpClient, baseURL+AggregateProcedure, opts...),
		getState:    connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetStateProcedure, opts...),
		watchToasts: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+WatchToastsProcedure, opts...),
	}
}

// Aggregate calls DurationService.Aggregate.
func (c *DurationClient) Aggregate(ctx context.Context, playlistURL string) (*structpb.Struct, error) {
	resp, err := c.aggregate.CallUnary(ctx, connect.NewRequest(wrapperspb.String(playlistURL)))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// GetState calls DurationService.GetState.
func (c *DurationClient) GetState(ctx context.Context) (*structpb.Struct, error) {
	resp, err := c.getState.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// WatchToasts calls DurationService.WatchToasts.
func (c *DurationClient) WatchToasts(ctx context.Context) (*connect.ServerStreamForClient[structpb.Struct], error) {
	return c.watchToasts.CallServerStream(ctx, connect.NewRequest(&emptypb.Empty{}))
}
