package awslambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0x6b/soratun-host/internal/adapter"
	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/internal/dispatch"
	"github.com/0x6b/soratun-host/pkg/logger"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Sender is the part of the dispatcher the handler needs.
type Sender interface {
	Send(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// Handler sends a fixed POST / request for every event it receives.
type Handler struct {
	sender Sender
	body   string
	strict bool
}

// NewHandler returns a handler sending body through sender. When strict is
// false a failed native call is logged and still reported as success.
func NewHandler(sender Sender, body string, strict bool) *Handler {
	return &Handler{sender: sender, body: body, strict: strict}
}

// Handle processes one invocation. The event is not inspected.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (Response, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		ctx = dispatch.WithRequestID(ctx, lc.AwsRequestID)
	}
	logger.Tracef("event: %d bytes", len(event))

	result, err := h.sender.Send(ctx, dispatch.Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   h.body,
	})
	if err != nil {
		var callErr *dispatch.NativeCallError
		if !errors.As(err, &callErr) {
			logger.Errorf("failed to send: %v", err)
			return Response{}, err
		}
		if h.strict {
			svcErr := callErr.ToServiceError()
			logger.Errorf("native send failed: %v", err)
			return Response{StatusCode: svcErr.Code, Body: callErr.Error()}, nil
		}
		logger.Warnf("native send reported no response, returning success: %v", err)
		return successResponse(), nil
	}

	logger.Tracef("response: %d bytes in %v", len(result.Response), result.Elapsed)
	return successResponse(), nil
}

// LambdaAdapter represents the AWS Lambda runtime adapter
type LambdaAdapter struct {
	handler *Handler
}

// NewAdapter loads the library and configuration once, during cold start.
// A failure here is fatal for the function instance.
func NewAdapter(ctx context.Context, cfg *config.BridgeConfig, boot adapter.Bootstrap) (adapter.Adapter, error) {
	startTime := time.Now()
	defer func() {
		logger.Infof("startup completed in %v", time.Since(startTime))
	}()

	location := ResolveConfigLocation(cfg.ConfigLocation)
	d, err := boot.Initialise(ctx, cfg, location)
	if err != nil {
		return nil, err
	}
	return &LambdaAdapter{handler: NewHandler(d, cfg.LambdaBody, cfg.Strict)}, nil
}

// Start begins the Lambda runtime
func (a *LambdaAdapter) Start() error {
	lambda.Start(a.handler.Handle)
	return nil
}

// ResolveConfigLocation defaults to arc.json and resolves relative file
// paths against LAMBDA_TASK_ROOT, where the deployment package is unpacked.
func ResolveConfigLocation(location string) string {
	if location == "" {
		logger.Infof("SORATUN_CONFIG not set, defaulting to %s", config.DefaultConfigFile)
		location = config.DefaultConfigFile
	}
	if strings.Contains(location, "://") || filepath.IsAbs(location) {
		return location
	}
	if root := os.Getenv("LAMBDA_TASK_ROOT"); root != "" {
		return filepath.Join(root, location)
	}
	return location
}
