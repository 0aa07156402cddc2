// Mcfn checks, formats and highlights files of Minecraft commands, and serves
// them to editors as a language server. The grammar of the commands is read
// from the commands.json document generated by the game.
package main

import (
	"os"

	"src.mcfn.dev/pkg/prog"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args))
}
