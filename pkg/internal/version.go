package internal

import (
	"runtime/debug"
	"strings"
)

const (
	_moduleName     = "github.com/luizaranda/go-browserkit"
	_unknownVersion = "v0.0.0-unknown"
)

// Version is the build version of go-browserkit as recorded by the Go
// toolchain. When browserkit is the main module (the CLI) the main module
// version is reported instead of a dependency entry.
var Version = func() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return _unknownVersion
	}

	if strings.EqualFold(bi.Main.Path, _moduleName) && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	for _, dep := range bi.Deps {
		if strings.EqualFold(dep.Path, _moduleName) {
			return dep.Version
		}
	}

	return _unknownVersion
}()

// UserAgent is the default User-Agent sent by browserkit HTTP clients.
func UserAgent() string {
	return "browserkit/" + Version
}
