package awslambda

import "net/http"

// SuccessBody is returned whenever the native call completed.
const SuccessBody = "Successfully sent to the unified endpoint"

// Response is the function result, serialised as {"statusCode":…,"body":…}.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func successResponse() Response {
	return Response{StatusCode: http.StatusOK, Body: SuccessBody}
}
