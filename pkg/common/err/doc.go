// Package err provides the error type shared by every aarjar package.
//
// Each package defines a package name, a handful of codes, and a typed error
// that wraps *Error:
//
//	const pkgName = "aar"
//
//	type ArchiveError struct {
//	    base *err.Error
//	    Path string
//	}
//
// Callers match on codes rather than on types:
//
//	if err.IsCode(e, err.CodeInputNotFound) {
//	    // the archive does not exist
//	}
//
// Sentinel values built with New compare equal under errors.Is to any error
// carrying the same code, so errors.Is(e, repackager.ErrInputNotFound) works
// regardless of operation or message.
package err
