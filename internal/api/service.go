// Package api holds the wire contract of the ledger gRPC service: the
// service and method names, request and response messages, and the JSON
// codec they travel in.
package api

const ServiceName = "workcredits.ledger.v1.LedgerService"

const (
	MethodPing                           = "Ping"
	MethodAssignCallerUserRole           = "AssignCallerUserRole"
	MethodGetAllRegisteredUsersWithNames = "GetAllRegisteredUsersWithNames"
	MethodGetCallerUserProfile           = "GetCallerUserProfile"
	MethodGetCallerUserRole              = "GetCallerUserRole"
	MethodGetTransactionHistory          = "GetTransactionHistory"
	MethodGetTransactionLedger           = "GetTransactionLedger"
	MethodGetUserProfile                 = "GetUserProfile"
	MethodGetWalletBalance               = "GetWalletBalance"
	MethodIsCallerAdmin                  = "IsCallerAdmin"
	MethodMintCredits                    = "MintCredits"
	MethodSaveCallerUserProfile          = "SaveCallerUserProfile"
	MethodTransferCredits                = "TransferCredits"
	MethodGetWalletDetails               = "GetWalletDetails"
	MethodGetLedgerStats                 = "GetLedgerStats"
	MethodExportLedger                   = "ExportLedger"
)

// FullMethod returns the gRPC path of method, e.g.
// "/workcredits.ledger.v1.LedgerService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}
