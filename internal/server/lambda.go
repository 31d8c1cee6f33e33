package server

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// HandleAPIGateway adapts an API Gateway HTTP API (payload v2) event to Handle.
// It never returns an error; failures are encoded in the response.
func (d *Dispatcher) HandleAPIGateway(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			decoded = nil
		}
		body = decoded
	}

	reqID := ev.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		reqID = lc.AwsRequestID
	}

	resp := d.Handle(ctx, Request{
		Method:    ev.RequestContext.HTTP.Method,
		Headers:   ev.Headers,
		Body:      body,
		RequestID: reqID,
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}
