// Package apiclient is the boundary to the remote collection API. Responses
// follow the {"success": bool, "message": string, ...} envelope and are
// decoded into tagged results; failures are classified as transport,
// application or payload errors.
package apiclient
