package builtin

import "github.com/secondlayerco/jsonata/pkg/env"

// Register installs the native function library into root, the
// environment created by the host facade before any user expression
// runs (spec §6.3's registration contract). pkg/eval calls this once for
// each root environment it builds and then registers the
// WithCustomFunction/WithFunctions entries on that same root, so a
// custom function with a built-in's name replaces it.
func Register(root *env.Environment) {
	registerAggregate(root)
	registerArray(root)
	registerString(root)
	registerType(root)
	registerNumeric(root)
	registerObject(root)
	registerHOF(root)
	registerDatetime(root)
	registerEncoding(root)
	registerRegex(root)
}
