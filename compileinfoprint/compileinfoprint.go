// Package compileinfoprint is imported by the command line tools for the side
// effect of printing their build information to os.Stderr at startup.
package compileinfoprint

import "github.com/carbocation/structmap/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
