//go:build tools

package hashset

// Pin the avo dependency used by internal/asmgen's code generator so it
// shows up in go.mod and survives `go mod tidy`, without pulling avo into
// the normal build.
import _ "github.com/mmcloughlin/avo/build"
