// Package client is the gRPC client of the ledger service.
//
// GRPCClient attaches the caller's access token and a request id to every
// call, encodes messages with the JSON codec and maps gRPC status errors back
// to the sentinel errors in package common, so callers can use errors.Is the
// same way they would against the engine itself:
//
//	c, err := client.NewGRPCClient("127.0.0.1:50051", token)
//	if err != nil { ... }
//	defer c.Close()
//
//	tx, err := c.TransferCredits(ctx, "bob", big.NewInt(40))
//	if errors.Is(err, common.ErrInsufficientBalance) { ... }
package client
