package importer

import "errors"

// ErrSuspiciousDeletion aborts a run whose diff removes more films than allowed.
// Nothing is staged and the remote service is not contacted.
var ErrSuspiciousDeletion = errors.New("too many films disappeared from the catalog")

// ErrRolledBack wraps the failure that made an import roll back.
var ErrRolledBack = errors.New("import rolled back")
