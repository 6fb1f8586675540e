package loader

import "errors"

var (
	// ErrNoReply means the build directory holds no structured-query reply yet.
	ErrNoReply = errors.New("no reply index found")
	// ErrNoCodemodel means the newest reply does not answer a codemodel query.
	ErrNoCodemodel = errors.New("reply index has no codemodel")
	// ErrUnsupportedVersion means the codemodel major version is not understood.
	ErrUnsupportedVersion = errors.New("unsupported codemodel version")
	// ErrNoConfiguration means the requested build configuration is not in the codemodel.
	ErrNoConfiguration = errors.New("configuration not found")
)
