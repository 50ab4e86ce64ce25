package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries an optional client generated request id that
// is echoed into server logs.
const RequestIDHeaderName = "x-request-id"
