package errors

// CodePair maps an error code onto its HTTP status and gRPC code.
type CodePair struct {
	HTTPStatus int
	GRPCCode   int
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {500, 13}, // Internal Server Error, INTERNAL
	ErrNotFound:        {404, 5},  // Not Found, NOT_FOUND
	ErrInvalidArgument: {400, 3},  // Bad Request, INVALID_ARGUMENT
	// Upstream gateway failures surface as a plain 500 to storefront callers.
	ErrUpstream:       {500, 14}, // Internal Server Error, UNAVAILABLE
	ErrTimeout:        {504, 4},  // Gateway Timeout, DEADLINE_EXCEEDED
	ErrNotImplemented: {501, 12}, // Not Implemented, UNIMPLEMENTED
}

// GetCodeMapping returns the HTTP status and gRPC code for an error code.
// Unknown codes map to Internal Server Error.
func GetCodeMapping(code string) (int, int) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return 500, 13
}
