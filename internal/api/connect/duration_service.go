package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/youtube-chrono/chrono/internal/app/notification"
	"github.com/youtube-chrono/chrono/internal/app/session"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

const (
	// DurationServiceName is the fully-qualified name of the service.
	DurationServiceName = "chrono.v1.DurationService"

	AggregateProcedure   = "/" + DurationServiceName + "/Aggregate"
	GetStateProcedure    = "/" + DurationServiceName + "/GetState"
	WatchToastsProcedure = "/" + DurationServiceName + "/WatchToasts"

	// ErrorCodeKey is the error metadata key carrying the failure code.
	ErrorCodeKey = "Chrono-Error-Code"
)

// DurationService implements the DurationService RPC.
type DurationService struct {
	session *session.Manager

	stopOnce sync.Once
	stop     chan struct{}
}

// NewDurationService creates a new DurationService.
func NewDurationService(session *session.Manager) *DurationService {
	return &DurationService{
		session: session,
		stop:    make(chan struct{}),
	}
}

// NewDurationServiceHandler builds the HTTP handler serving every procedure of svc.
// It returns the path prefix to mount the handler on.
func NewDurationServiceHandler(svc *DurationService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(AggregateProcedure, connect.NewUnaryHandler(AggregateProcedure, svc.Aggregate, opts...))
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, svc.GetState, opts...))
	mux.Handle(WatchToastsProcedure, connect.NewServerStreamHandler(WatchToastsProcedure, svc.WatchToasts, opts...))
	return "/" + DurationServiceName + "/", mux
}

// Aggregate calculates the duration of the playlist URL in the request.
func (s *DurationService) Aggregate(
	ctx context.Context,
	req *connect.Request[wrapperspb.StringValue],
) (*connect.Response[structpb.Struct], error) {
	summary, err := s.session.Submit(ctx, req.Msg.GetValue())
	if err != nil {
		return nil, s.toConnectError(err)
	}

	st, err := SummaryToStruct(summary)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

// GetState returns the current view state.
func (s *DurationService) GetState(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	st, err := StatusToStruct(s.session.GetStatus())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

// WatchToasts streams toasts until the client disconnects or the service stops.
// The visible toast, if any, is sent first.
func (s *DurationService) WatchToasts(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
	stream *connect.ServerStream[structpb.Struct],
) error {
	notifManager := s.session.GetNotificationManager()
	adapter := &toastStreamAdapter{stream: stream}

	if last := notifManager.Last(); last != nil {
		if err := adapter.Send(last); err != nil {
			return err
		}
	}

	subscriptionID := notifManager.Subscribe(adapter)
	defer notifManager.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("toast subscriber joined: subscription=%s", subscriptionID)

	select {
	case <-ctx.Done():
	case <-s.stop:
	}

	zlog.Debug().Msgf("toast subscriber left: subscription=%s", subscriptionID)
	return nil
}

// Shutdown ends every open WatchToasts stream.
func (s *DurationService) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// toConnectError maps a submission failure to a Connect error carrying the
// user-facing message.
func (s *DurationService) toConnectError(err error) error {
	code, kind := CodeFor(err)
	cerr := connect.NewError(code, errors.New(s.session.Message(err)))
	cerr.Meta().Set(ErrorCodeKey, kind)
	return cerr
}

// CodeFor returns the Connect code and failure code for a submission error.
func CodeFor(err error) (connect.Code, string) {
	if errors.Is(err, session.ErrBusy) {
		return connect.CodeAborted, "busy"
	}
	kind := playlist.KindOf(err)
	switch kind {
	case playlist.KindInvalidURL:
		return connect.CodeInvalidArgument, kind.Code()
	case playlist.KindNotFound:
		return connect.CodeNotFound, kind.Code()
	case playlist.KindEmptyPlaylist:
		return connect.CodeFailedPrecondition, kind.Code()
	default:
		return connect.CodeUnavailable, kind.Code()
	}
}

// toastStreamAdapter adapts connect.ServerStream to notification.Stream.
type toastStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[structpb.Struct]
}

func (a *toastStreamAdapter) Send(t *notification.Toast) error {
	st, err := ToastToStruct(t)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(st)
}
